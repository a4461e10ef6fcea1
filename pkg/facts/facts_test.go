package facts

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFacts() Facts {
	return Facts{
		Interests: NewInterestSet(Investigative, Realistic),
		Grades: map[string]float64{
			Math: 95, Physics: 92, Biology: 80, Chemistry: 90, Language: 78,
		},
		LearningStyle: "visual",
		Environment:   "riset",
		CareerGoal:    "insinyur robotik",
	}
}

func TestValid(t *testing.T) {
	require.NoError(t, validFacts().Valid())

	tests := []struct {
		name   string
		mutate func(f *Facts)
		want   error
	}{
		{"no interests", func(f *Facts) { f.Interests = nil }, ErrNoInterests},
		{"unknown interest", func(f *Facts) { f.Interests = NewInterestSet("Curious") }, ErrUnknownInterest},
		{"missing grade", func(f *Facts) { delete(f.Grades, Chemistry) }, ErrMissingFact},
		{"grade too high", func(f *Facts) { f.Grades[Math] = 101 }, ErrGradeOutOfRange},
		{"grade negative", func(f *Facts) { f.Grades[Language] = -1 }, ErrGradeOutOfRange},
		{"bad style", func(f *Facts) { f.LearningStyle = "reading" }, ErrUnknownLearningStyle},
		{"bad environment", func(f *Facts) { f.Environment = "" }, ErrUnknownEnvironment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFacts()
			tt.mutate(&f)
			err := f.Valid()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestGrade(t *testing.T) {
	f := validFacts()
	delete(f.Grades, Physics)

	v, err := f.Grade(Math)
	require.NoError(t, err)
	assert.Equal(t, 95.0, v)

	_, err = f.Grade(Physics)
	var missing *MissingFactError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, Physics, missing.Field)
	assert.ErrorIs(t, err, ErrMissingFact)

	assert.Equal(t, 0.0, f.GradeOrZero(Physics))
}

func TestParseInterests(t *testing.T) {
	set, err := ParseInterests(" investigative, REALISTIC ,,")
	require.NoError(t, err)
	assert.Equal(t, []Interest{Investigative, Realistic}, set.Sorted())

	_, err = ParseInterests("artistic, dreamy")
	assert.ErrorIs(t, err, ErrUnknownInterest)

	_, err = ParseInterests(" , ")
	assert.ErrorIs(t, err, ErrNoInterests)
}

func TestNormalize(t *testing.T) {
	f := Facts{LearningStyle: " Visual", Environment: "RISET ", CareerGoal: "  Dokter Spesialis "}
	f.Normalize()
	assert.Equal(t, "visual", f.LearningStyle)
	assert.Equal(t, "riset", f.Environment)
	assert.Equal(t, "dokter spesialis", f.CareerGoal)
}

func TestInterestSetJSON(t *testing.T) {
	payload, err := json.Marshal(validFacts())
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"interests":["Investigative","Realistic"]`)

	var decoded Facts
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.True(t, decoded.Interests.Has(Realistic))
	assert.True(t, decoded.Interests.Has(Investigative))
	assert.False(t, decoded.Interests.Has(Social))
	assert.Equal(t, 92.0, decoded.Grades[Physics])
}
