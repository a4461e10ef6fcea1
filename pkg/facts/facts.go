package facts

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Interest string

// RIASEC interest tags.
const (
	Realistic     Interest = "Realistic"
	Investigative Interest = "Investigative"
	Artistic      Interest = "Artistic"
	Social        Interest = "Social"
	Enterprising  Interest = "Enterprising"
	Conventional  Interest = "Conventional"
)

var AllInterests = []Interest{Realistic, Investigative, Artistic, Social, Enterprising, Conventional}

// Grade subjects.
const (
	Math      = "math"
	Physics   = "physics"
	Biology   = "biology"
	Chemistry = "chemistry"
	Language  = "language"
)

var Subjects = []string{Math, Physics, Biology, Chemistry, Language}

var LearningStyles = []string{"visual", "auditori", "kinestetik"}

var Environments = []string{"riset", "industri", "kreatif"}

// InterestSet is the set of interest tags declared by one person.
type InterestSet map[Interest]struct{}

func NewInterestSet(tags ...Interest) InterestSet {
	set := make(InterestSet, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

func (s InterestSet) Has(tag Interest) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in lexical order.
func (s InterestSet) Sorted() []Interest {
	out := make([]Interest, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON encodes the set as a sorted array of tags.
func (s InterestSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *InterestSet) UnmarshalJSON(data []byte) error {
	var tags []Interest
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	if tags == nil {
		*s = nil
		return nil
	}
	*s = NewInterestSet(tags...)
	return nil
}

// Facts is the fact set a rule base is evaluated against.
//
// Nothing is defaulted here: a nil Interests set, a missing grade or an empty
// environment are reported as missing when a rule reads them.
type Facts struct {
	Interests     InterestSet        `json:"interests"`
	Grades        map[string]float64 `json:"grades"`
	LearningStyle string             `json:"learning_style"`
	Environment   string             `json:"environment"`
	CareerGoal    string             `json:"career_goal"`
}

var (
	ErrMissingFact          = errors.New("missing fact")
	ErrNoInterests          = &validationError{"at least one interest is required"}
	ErrUnknownInterest      = &validationError{"unknown interest"}
	ErrGradeOutOfRange      = &validationError{"grade must be between 0 and 100"}
	ErrUnknownLearningStyle = &validationError{"unknown learning style"}
	ErrUnknownEnvironment   = &validationError{"unknown environment"}
)

type validationError struct {
	msg string
}

func (v *validationError) Error() string {
	return v.msg
}

// MissingFactError names the fact field a rule needed but could not find.
type MissingFactError struct {
	Field string
}

func (e *MissingFactError) Error() string {
	return fmt.Sprintf("missing fact %q", e.Field)
}

func (e *MissingFactError) Is(target error) bool {
	return target == ErrMissingFact
}

// Grade returns the named grade or a MissingFactError.
func (f Facts) Grade(subject string) (float64, error) {
	v, ok := f.Grades[subject]
	if !ok {
		return 0, &MissingFactError{Field: subject}
	}
	return v, nil
}

// GradeOrZero is the lenient lookup used by declarative rules.
func (f Facts) GradeOrZero(subject string) float64 {
	return f.Grades[subject]
}

// Valid checks a fully populated fact set, the way the input layers do before
// submitting it.
func (f Facts) Valid() error {
	if len(f.Interests) == 0 {
		return ErrNoInterests
	}
	for tag := range f.Interests {
		if !IsInterest(string(tag)) {
			return fmt.Errorf("%w: %s", ErrUnknownInterest, tag)
		}
	}
	for _, subject := range Subjects {
		v, err := f.Grade(subject)
		if err != nil {
			return err
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s=%v", ErrGradeOutOfRange, subject, v)
		}
	}
	if !contains(LearningStyles, f.LearningStyle) {
		return fmt.Errorf("%w: %q", ErrUnknownLearningStyle, f.LearningStyle)
	}
	if !contains(Environments, f.Environment) {
		return fmt.Errorf("%w: %q", ErrUnknownEnvironment, f.Environment)
	}
	return nil
}

// Normalize lowercases the free-text and enum fields in place.
func (f *Facts) Normalize() {
	f.LearningStyle = strings.ToLower(strings.TrimSpace(f.LearningStyle))
	f.Environment = strings.ToLower(strings.TrimSpace(f.Environment))
	f.CareerGoal = strings.ToLower(strings.TrimSpace(f.CareerGoal))
}

// ParseInterests parses a comma separated list such as "investigative, Realistic".
func ParseInterests(raw string) (InterestSet, error) {
	set := InterestSet{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag := Capitalize(part)
		if !IsInterest(tag) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownInterest, part)
		}
		set[Interest(tag)] = struct{}{}
	}
	if len(set) == 0 {
		return nil, ErrNoInterests
	}
	return set, nil
}

func IsInterest(tag string) bool {
	for _, i := range AllInterests {
		if string(i) == tag {
			return true
		}
	}
	return false
}

func IsSubject(name string) bool {
	return contains(Subjects, name)
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
