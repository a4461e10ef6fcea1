package knowledge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet is the on-disk shape of a declarative rule seed file.
type RuleSet struct {
	Rules []NamedDescriptor `yaml:"rules"`
}

type NamedDescriptor struct {
	Name       string `yaml:"name" json:"name"`
	Descriptor `yaml:",inline"`
}

// Validate runs the full admin-entry checks for a new rule.
func (n NamedDescriptor) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	}
	if strings.TrimSpace(n.Major) == "" {
		return fmt.Errorf("%w: rule %s: major is required", ErrInvalidDescriptor, n.Name)
	}
	if n.Weight == nil {
		return fmt.Errorf("%w: rule %s: weight is required", ErrInvalidDescriptor, n.Name)
	}
	if err := n.Descriptor.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", n.Name, err)
	}
	return nil
}

// Rule builds the declarative rule described by n.
func (n NamedDescriptor) Rule() Rule {
	d := n.Descriptor
	if d.Explanation == "" {
		d.Explanation = DefaultExplanation
	}
	return FromDescriptor(n.Name, d)
}

func LoadRules(path string) ([]NamedDescriptor, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(payload)
}

func ParseRules(payload []byte) ([]NamedDescriptor, error) {
	var set RuleSet
	if err := yaml.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	for _, nd := range set.Rules {
		if err := nd.Validate(); err != nil {
			return nil, err
		}
	}
	return set.Rules, nil
}

// Seed adds every descriptor to kb in file order.
func Seed(kb *KnowledgeBase, seeds []NamedDescriptor) {
	for _, nd := range seeds {
		rule := nd.Rule()
		d := rule.Condition.Descriptor
		kb.AddRule(rule, &d)
	}
}
