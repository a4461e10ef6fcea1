package knowledge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/majorwise/majorwise/pkg/facts"
)

// DefaultExplanation is used for declarative rules entered without one.
const DefaultExplanation = "Rule tambahan dari pengguna."

var (
	ErrInvalidDescriptor = errors.New("invalid rule descriptor")
	ErrInvalidWeight     = errors.New("weight must be between 0 and 1")
	ErrUnknownLogic      = errors.New("unknown rule logic")
)

// ConditionKind tags which variant a Condition holds.
type ConditionKind int

const (
	// CustomCondition dispatches to fixed built-in logic.
	CustomCondition ConditionKind = iota
	// DeclarativeCondition is generated from a Descriptor.
	DeclarativeCondition
)

func (k ConditionKind) String() string {
	switch k {
	case CustomCondition:
		return "custom"
	case DeclarativeCondition:
		return "declarative"
	default:
		return fmt.Sprintf("ConditionKind(%d)", int(k))
	}
}

// Descriptor is the declarative shape of an admin-created rule.
// Empty Interest or Subject means the corresponding check is skipped.
type Descriptor struct {
	Interest    string   `yaml:"interest,omitempty" json:"interest,omitempty"`
	Subject     string   `yaml:"subject,omitempty" json:"subject,omitempty"`
	Threshold   float64  `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Explanation string   `yaml:"explanation" json:"explanation"`
	Major       string   `yaml:"major,omitempty" json:"major,omitempty"`
	Weight      *float64 `yaml:"weight,omitempty" json:"weight,omitempty"`
}

// Validate applies the admin-entry checks. It does not require Major or
// Weight, so it is also usable for partial update descriptors.
func (d Descriptor) Validate() error {
	if d.Interest != "" && !facts.IsInterest(d.Interest) {
		return fmt.Errorf("%w: unknown interest %q", ErrInvalidDescriptor, d.Interest)
	}
	if d.Subject != "" && !facts.IsSubject(d.Subject) {
		return fmt.Errorf("%w: unknown subject %q", ErrInvalidDescriptor, d.Subject)
	}
	if !(d.Threshold >= 0 && d.Threshold <= 100) {
		return fmt.Errorf("%w: threshold %v out of range", ErrInvalidDescriptor, d.Threshold)
	}
	if d.Weight != nil {
		if err := ValidateWeight(*d.Weight); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWeight accepts weights in [0,1]; NaN is rejected.
func ValidateWeight(w float64) error {
	if !(w >= 0 && w <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, w)
	}
	return nil
}

// Condition is a tagged variant: built-in rules carry a Logic id, declarative
// rules carry their Descriptor.
type Condition struct {
	Kind        ConditionKind
	Logic       Logic
	Explanation string
	Descriptor  Descriptor
}

func Custom(logic Logic, explanation string) Condition {
	return Condition{Kind: CustomCondition, Logic: logic, Explanation: explanation}
}

// BuildCondition generates the condition for a descriptor. Both checks are
// ANDed; a missing subject grade counts as 0.
func BuildCondition(d Descriptor) Condition {
	return Condition{Kind: DeclarativeCondition, Descriptor: d, Explanation: d.Explanation}
}

// Evaluate reports whether the condition holds for f together with its
// explanation. Built-in logic fails with facts.ErrMissingFact when a field it
// reads is absent.
func (c Condition) Evaluate(f facts.Facts) (bool, string, error) {
	switch c.Kind {
	case DeclarativeCondition:
		d := c.Descriptor
		meetsInterest := d.Interest == "" || f.Interests.Has(facts.Interest(d.Interest))
		meetsGrade := d.Subject == "" || f.GradeOrZero(d.Subject) >= d.Threshold
		return meetsInterest && meetsGrade, c.Explanation, nil
	case CustomCondition:
		r := &factReader{f: f}
		ok, known := evalLogic(c.Logic, r)
		if !known {
			return false, "", fmt.Errorf("%w: %s", ErrUnknownLogic, c.Logic)
		}
		if r.err != nil {
			return false, "", r.err
		}
		return ok, c.Explanation, nil
	default:
		return false, "", fmt.Errorf("unsupported condition kind %v", c.Kind)
	}
}

// Rule is a named, weighted predicate supporting one major.
type Rule struct {
	Name      string    `json:"name"`
	Major     string    `json:"major"`
	Weight    float64   `json:"weight"`
	Condition Condition `json:"-"`
}

func (r Rule) Declarative() bool {
	return r.Condition.Kind == DeclarativeCondition
}

// FromDescriptor builds a declarative rule. Major and weight come from the
// descriptor; a nil weight yields 0.
func FromDescriptor(name string, d Descriptor) Rule {
	var weight float64
	if d.Weight != nil {
		weight = *d.Weight
	}
	return Rule{
		Name:      name,
		Major:     d.Major,
		Weight:    weight,
		Condition: BuildCondition(d),
	}
}

// FiredRule pairs a rule with the explanation its condition produced.
type FiredRule struct {
	Rule        Rule
	Explanation string
}

type factReader struct {
	f   facts.Facts
	err error
}

func (r *factReader) interest(tag facts.Interest) bool {
	if r.err != nil {
		return false
	}
	if r.f.Interests == nil {
		r.err = &facts.MissingFactError{Field: "interests"}
		return false
	}
	return r.f.Interests.Has(tag)
}

func (r *factReader) grade(subject string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.f.Grade(subject)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *factReader) environment() string {
	if r.err != nil {
		return ""
	}
	if r.f.Environment == "" {
		r.err = &facts.MissingFactError{Field: "environment"}
	}
	return r.f.Environment
}

func (r *factReader) environmentIn(values ...string) bool {
	env := r.environment()
	for _, v := range values {
		if env == v {
			return true
		}
	}
	return false
}

// goalHas reports whether the career goal contains any keyword.
func (r *factReader) goalHas(keywords ...string) bool {
	if r.err != nil {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(r.f.CareerGoal, k) {
			return true
		}
	}
	return false
}
