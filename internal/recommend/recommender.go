package recommend

import (
	"math"
	"sort"

	"github.com/majorwise/majorwise/internal/knowledge"
	"github.com/majorwise/majorwise/pkg/facts"
)

// DefaultTopN is the number of recommendations returned when the caller does
// not ask for a specific count.
const DefaultTopN = 3

// Evidence is one fired rule supporting a recommendation.
type Evidence struct {
	RuleName    string  `json:"rule_name"`
	RuleWeight  float64 `json:"rule_weight"`
	Explanation string  `json:"explanation"`
}

type Recommendation struct {
	Major         string     `json:"major"`
	Score         float64    `json:"score"`
	MatchedWeight float64    `json:"matched_weight"`
	TotalWeight   float64    `json:"total_weight"`
	Evidence      []Evidence `json:"evidence"`
}

// Inferrer runs the inference pass.
type Inferrer interface {
	Infer(f facts.Facts) ([]knowledge.FiredRule, error)
}

// WeightSource exposes the per-major scoring denominators.
type WeightSource interface {
	Majors() []string
	TotalWeight(major string) float64
}

type Recommender struct {
	weights WeightSource
	engine  Inferrer
}

func New(weights WeightSource, engine Inferrer) *Recommender {
	return &Recommender{weights: weights, engine: engine}
}

// Recommend ranks majors by the share of their rule weight that fired.
//
// Majors without any fired rule are left out. Ranking is by rounded score,
// then by absolute matched weight; remaining ties keep rule-base order. At
// most topN entries are returned and topN <= 0 yields none.
func (r *Recommender) Recommend(f facts.Facts, topN int) ([]Recommendation, error) {
	fired, err := r.engine.Infer(f)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]float64)
	evidence := make(map[string][]Evidence)
	for _, fr := range fired {
		matched[fr.Rule.Major] += fr.Rule.Weight
		evidence[fr.Rule.Major] = append(evidence[fr.Rule.Major], Evidence{
			RuleName:    fr.Rule.Name,
			RuleWeight:  fr.Rule.Weight,
			Explanation: fr.Explanation,
		})
	}

	recs := make([]Recommendation, 0)
	for _, major := range r.weights.Majors() {
		total := r.weights.TotalWeight(major)
		if total <= 0 {
			continue
		}
		if matched[major] == 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Major:         major,
			Score:         Round(matched[major]/total, 3),
			MatchedWeight: matched[major],
			TotalWeight:   total,
			Evidence:      evidence[major],
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].MatchedWeight > recs[j].MatchedWeight
	})

	if topN < 0 {
		topN = 0
	}
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs, nil
}

// Round rounds v to the given number of decimal places, halves away from zero.
// Exact binary ties therefore round up where banker's rounding would go to
// the even digit.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
