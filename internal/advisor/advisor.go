package advisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/majorwise/majorwise/internal/inference"
	"github.com/majorwise/majorwise/internal/knowledge"
	"github.com/majorwise/majorwise/internal/logger"
	"github.com/majorwise/majorwise/internal/metrics"
	"github.com/majorwise/majorwise/internal/recommend"
	"github.com/majorwise/majorwise/pkg/facts"
)

// Run is one recommendation request and its result.
type Run struct {
	ID              uuid.UUID                  `json:"run_id"`
	RequestedAt     time.Time                  `json:"requested_at"`
	Source          string                     `json:"source"`
	Facts           facts.Facts                `json:"facts"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// TopMajor returns the best ranked major or "" when nothing qualified.
func (r Run) TopMajor() string {
	if len(r.Recommendations) == 0 {
		return ""
	}
	return r.Recommendations[0].Major
}

// Recorder keeps a history of runs.
type Recorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// RuleInfo is a rule together with its stored descriptor, if any.
type RuleInfo struct {
	Rule       knowledge.Rule        `json:"rule"`
	Descriptor *knowledge.Descriptor `json:"descriptor,omitempty"`
}

// Advisor serialises access to one knowledge base so it can be shared by the
// HTTP API, the NATS processor and the menu. Mutations and the totals
// recompute they trigger happen under the same write lock.
type Advisor struct {
	mu          sync.RWMutex
	kb          *knowledge.KnowledgeBase
	recommender *recommend.Recommender
	topN        int
	log         *logger.Logger
	recorder    Recorder
	wg          sync.WaitGroup
}

type Option func(*Advisor)

func WithLogger(l *logger.Logger) Option {
	return func(a *Advisor) { a.log = l }
}

func WithRecorder(r Recorder) Option {
	return func(a *Advisor) { a.recorder = r }
}

// WithTopN sets the count used when a caller passes topN <= 0.
func WithTopN(n int) Option {
	return func(a *Advisor) {
		if n > 0 {
			a.topN = n
		}
	}
}

func New(kb *knowledge.KnowledgeBase, opts ...Option) *Advisor {
	a := &Advisor{
		kb:          kb,
		recommender: recommend.New(kb, inference.New(kb)),
		topN:        recommend.DefaultTopN,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	metrics.Rules.Set(float64(kb.Len()))
	return a
}

// Close waits for pending history writes.
func (a *Advisor) Close() {
	a.wg.Wait()
}

func (a *Advisor) DefaultTopN() int {
	return a.topN
}

// Recommend evaluates f against the current rule base. topN <= 0 selects the
// configured default.
func (a *Advisor) Recommend(ctx context.Context, f facts.Facts, topN int, source string) (Run, error) {
	if topN <= 0 {
		topN = a.topN
	}

	start := time.Now()
	a.mu.RLock()
	recs, err := a.recommender.Recommend(f, topN)
	a.mu.RUnlock()
	metrics.RecommendLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		a.log.Warn("recommendation failed", "source", source, "error", err)
		return Run{}, fmt.Errorf("recommend: %w", err)
	}

	run := Run{
		ID:              uuid.New(),
		RequestedAt:     start.UTC(),
		Source:          source,
		Facts:           f,
		Recommendations: recs,
	}

	fired := 0
	for _, rec := range recs {
		fired += len(rec.Evidence)
	}
	top := run.TopMajor()
	if top == "" {
		metrics.Recommendations.WithLabelValues("none").Inc()
	} else {
		metrics.Recommendations.WithLabelValues(top).Inc()
	}
	metrics.RulesFired.Add(float64(fired))
	a.log.Info("recommendation run",
		"run_id", run.ID.String(),
		"source", source,
		"results", len(recs),
		"evidence", fired,
		"top_major", top,
	)

	a.record(ctx, run)
	return run, nil
}

func (a *Advisor) record(ctx context.Context, run Run) {
	if a.recorder == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := a.recorder.RecordRun(ctx, run); err != nil {
			a.log.Error("failed to record run", "run_id", run.ID.String(), "error", err)
		}
	}()
}

// Rules lists the rule base in insertion order.
func (a *Advisor) Rules() []RuleInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rules := a.kb.Rules()
	out := make([]RuleInfo, 0, len(rules))
	for _, r := range rules {
		info := RuleInfo{Rule: r}
		if d, ok := a.kb.Descriptor(r.Name); ok {
			info.Descriptor = &d
		}
		out = append(out, info)
	}
	return out
}

// Rule returns the first rule named name.
func (a *Advisor) Rule(name string) (RuleInfo, bool) {
	for _, info := range a.Rules() {
		if info.Rule.Name == name {
			return info, true
		}
	}
	return RuleInfo{}, false
}

// TotalWeight returns the scoring denominator for major.
func (a *Advisor) TotalWeight(major string) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.kb.TotalWeight(major)
}

// AddRule validates and appends a declarative rule.
func (a *Advisor) AddRule(nd knowledge.NamedDescriptor) error {
	if err := nd.Validate(); err != nil {
		metrics.RuleMutations.WithLabelValues("add", "invalid").Inc()
		return err
	}
	rule := nd.Rule()
	d := rule.Condition.Descriptor

	a.mu.Lock()
	a.kb.AddRule(rule, &d)
	n := a.kb.Len()
	a.mu.Unlock()

	metrics.RuleMutations.WithLabelValues("add", "ok").Inc()
	metrics.Rules.Set(float64(n))
	a.log.Info("rule added", "rule", rule.Name, "major", rule.Major, "weight", rule.Weight)
	return nil
}

// UpdateRule applies u to the first rule named name. It returns false when
// no such rule exists.
func (a *Advisor) UpdateRule(name string, u knowledge.Update) (bool, error) {
	if u.Weight != nil {
		if err := knowledge.ValidateWeight(*u.Weight); err != nil {
			metrics.RuleMutations.WithLabelValues("update", "invalid").Inc()
			return false, err
		}
	}
	if u.Descriptor != nil {
		if err := u.Descriptor.Validate(); err != nil {
			metrics.RuleMutations.WithLabelValues("update", "invalid").Inc()
			return false, err
		}
		if u.Descriptor.Explanation == "" {
			d := *u.Descriptor
			d.Explanation = knowledge.DefaultExplanation
			u.Descriptor = &d
		}
	}

	a.mu.Lock()
	ok := a.kb.UpdateRule(name, u)
	a.mu.Unlock()

	if !ok {
		metrics.RuleMutations.WithLabelValues("update", "not_found").Inc()
		return false, nil
	}
	metrics.RuleMutations.WithLabelValues("update", "ok").Inc()
	a.log.Info("rule updated", "rule", name, "declarative", u.Descriptor != nil)
	return true, nil
}

func (a *Advisor) DeleteRule(name string) bool {
	a.mu.Lock()
	ok := a.kb.DeleteRule(name)
	n := a.kb.Len()
	a.mu.Unlock()

	if !ok {
		metrics.RuleMutations.WithLabelValues("delete", "not_found").Inc()
		return false
	}
	metrics.RuleMutations.WithLabelValues("delete", "ok").Inc()
	metrics.Rules.Set(float64(n))
	a.log.Info("rule deleted", "rule", name)
	return true
}
