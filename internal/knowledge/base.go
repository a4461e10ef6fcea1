package knowledge

// KnowledgeBase owns the ordered rule list and the per-major weight totals
// derived from it.
//
// It is not safe for concurrent use. Callers that share one across goroutines
// must hold a single lock around each mutation, since the totals are
// recomputed inside the same call.
type KnowledgeBase struct {
	rules       []Rule
	descriptors map[string]Descriptor
	totals      map[string]float64
	majors      []string
}

// New returns a knowledge base seeded with the built-in rules.
func New() *KnowledgeBase {
	return NewWithRules(BuiltinRules())
}

// NewWithRules returns a knowledge base holding rules in the given order.
func NewWithRules(rules []Rule) *KnowledgeBase {
	kb := &KnowledgeBase{
		rules:       append([]Rule(nil), rules...),
		descriptors: map[string]Descriptor{},
	}
	kb.refreshTotals()
	return kb
}

// Rules returns a snapshot of the rules in insertion order.
func (kb *KnowledgeBase) Rules() []Rule {
	return append([]Rule(nil), kb.rules...)
}

func (kb *KnowledgeBase) Len() int {
	return len(kb.rules)
}

// Descriptor returns the stored declarative shape of a rule, if it has one.
func (kb *KnowledgeBase) Descriptor(name string) (Descriptor, bool) {
	d, ok := kb.descriptors[name]
	return d, ok
}

// AddRule appends rule unconditionally. Duplicate names are not rejected;
// lookups by name always hit the first match.
func (kb *KnowledgeBase) AddRule(rule Rule, d *Descriptor) {
	kb.rules = append(kb.rules, rule)
	if d != nil {
		kb.descriptors[rule.Name] = *d
	}
	kb.refreshTotals()
}

// DeleteRule removes the first rule named name together with any stored
// descriptor for that name.
func (kb *KnowledgeBase) DeleteRule(name string) bool {
	idx := kb.index(name)
	if idx < 0 {
		return false
	}
	kb.rules = append(kb.rules[:idx], kb.rules[idx+1:]...)
	delete(kb.descriptors, name)
	kb.refreshTotals()
	return true
}

// Update carries the optional parts of an update. An empty Major and a nil
// Weight leave the current value alone.
type Update struct {
	Major      string
	Weight     *float64
	Descriptor *Descriptor
}

// UpdateRule mutates the first rule named name.
//
// With a descriptor the condition is rebuilt from it, replacing any built-in
// logic, and major/weight come from the descriptor with the current values as
// fallback. Without one only major and weight change and the condition is
// kept.
func (kb *KnowledgeBase) UpdateRule(name string, u Update) bool {
	idx := kb.index(name)
	if idx < 0 {
		return false
	}

	current := kb.rules[idx]
	if u.Descriptor != nil {
		d := *u.Descriptor
		major := current.Major
		if d.Major != "" {
			major = d.Major
		}
		weight := current.Weight
		if d.Weight != nil {
			weight = *d.Weight
		}
		kb.rules[idx] = Rule{
			Name:      current.Name,
			Major:     major,
			Weight:    weight,
			Condition: BuildCondition(d),
		}
		kb.descriptors[name] = d
	} else {
		if u.Major != "" {
			kb.rules[idx].Major = u.Major
		}
		if u.Weight != nil {
			kb.rules[idx].Weight = *u.Weight
		}
	}

	kb.refreshTotals()
	return true
}

// TotalWeight is the sum of weights of every rule currently declaring major.
func (kb *KnowledgeBase) TotalWeight(major string) float64 {
	return kb.totals[major]
}

// Majors lists every major with at least one rule, in order of first
// appearance in the rule list.
func (kb *KnowledgeBase) Majors() []string {
	return append([]string(nil), kb.majors...)
}

// Totals returns a copy of the per-major weight totals.
func (kb *KnowledgeBase) Totals() map[string]float64 {
	out := make(map[string]float64, len(kb.totals))
	for major, total := range kb.totals {
		out[major] = total
	}
	return out
}

func (kb *KnowledgeBase) index(name string) int {
	for i, rule := range kb.rules {
		if rule.Name == name {
			return i
		}
	}
	return -1
}

// refreshTotals rebuilds the totals from scratch; they are never patched.
func (kb *KnowledgeBase) refreshTotals() {
	totals := make(map[string]float64)
	majors := make([]string, 0)
	for _, rule := range kb.rules {
		if _, seen := totals[rule.Major]; !seen {
			majors = append(majors, rule.Major)
		}
		totals[rule.Major] += rule.Weight
	}
	kb.totals = totals
	kb.majors = majors
}
