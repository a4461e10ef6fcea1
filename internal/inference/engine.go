package inference

import (
	"fmt"

	"github.com/majorwise/majorwise/internal/knowledge"
	"github.com/majorwise/majorwise/pkg/facts"
)

// RuleSource supplies the rules to evaluate, in evaluation order.
type RuleSource interface {
	Rules() []knowledge.Rule
}

// Engine evaluates every rule once against a fact set.
type Engine struct {
	rules RuleSource
}

func New(rules RuleSource) *Engine {
	return &Engine{rules: rules}
}

// Infer performs a single forward pass over the rules and returns the ones
// that fired, in evaluation order. Firing never feeds back into other rules.
// The first condition error aborts the pass and is returned as is, wrapped
// with the rule name.
func (e *Engine) Infer(f facts.Facts) ([]knowledge.FiredRule, error) {
	var fired []knowledge.FiredRule
	for _, rule := range e.rules.Rules() {
		ok, explanation, err := rule.Condition.Evaluate(f)
		if err != nil {
			return nil, fmt.Errorf("evaluate rule %s: %w", rule.Name, err)
		}
		if ok {
			fired = append(fired, knowledge.FiredRule{Rule: rule, Explanation: explanation})
		}
	}
	return fired, nil
}
