package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/majorwise/majorwise/internal/advisor"
	"github.com/majorwise/majorwise/internal/knowledge"
	"github.com/majorwise/majorwise/internal/recommend"
	stor "github.com/majorwise/majorwise/internal/storage"
	"github.com/majorwise/majorwise/pkg/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Mock history for testing
type mockHistory struct {
	runs []storage.Run
	err  error
}

func (m *mockHistory) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	return m.runs, m.err
}

func (m *mockHistory) GetRun(ctx context.Context, runID string) (storage.Run, error) {
	if m.err != nil {
		return storage.Run{}, m.err
	}
	for _, r := range m.runs {
		if r.RunID == runID {
			return r, nil
		}
	}
	return storage.Run{}, sql.ErrNoRows
}

func newTestServer(h History) (*http.ServeMux, *advisor.Advisor) {
	adv := advisor.New(knowledge.New())
	mux := http.NewServeMux()
	New(adv, h, nil).Register(mux)
	return mux, adv
}

const stemPayload = `{
	"interests": ["Investigative", "Realistic"],
	"grades": {"math": 95, "physics": 92, "biology": 80, "chemistry": 90, "language": 78},
	"learning_style": "Visual",
	"environment": "riset",
	"career_goal": "Insinyur Robotik"
}`

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestRecommendHandler(t *testing.T) {
	mux, _ := newTestServer(nil)

	w := do(mux, http.MethodPost, "/recommend", stemPayload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		RunID           string                     `json:"run_id"`
		Recommendations []recommend.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	_, err := uuid.Parse(response.RunID)
	assert.NoError(t, err)
	require.Len(t, response.Recommendations, 3)
	assert.Equal(t, "Teknik Elektro", response.Recommendations[0].Major)
	assert.Equal(t, "Elektro-STEM", response.Recommendations[0].Evidence[0].RuleName)

	w = do(mux, http.MethodPost, "/recommend?top_n=1", stemPayload)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Recommendations, 1)
}

func TestRecommendHandlerRejectsBadInput(t *testing.T) {
	mux, _ := newTestServer(nil)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "/recommend", "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "/recommend", "{", http.StatusBadRequest},
		{"bad top_n", http.MethodPost, "/recommend?top_n=zero", stemPayload, http.StatusBadRequest},
		{"missing grades", http.MethodPost, "/recommend", `{"interests":["Social"],"learning_style":"visual","environment":"riset"}`, http.StatusBadRequest},
		{"bad interest", http.MethodPost, "/recommend", `{"interests":["Lazy"]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(mux, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRulesHandlers(t *testing.T) {
	mux, adv := newTestServer(nil)

	w := do(mux, http.MethodGet, "/rules", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Rules []ruleView `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Rules, 39)
	assert.Equal(t, "TI-Interes-Investigative", list.Rules[0].Name)
	assert.Equal(t, "custom", list.Rules[0].Kind)

	w = do(mux, http.MethodPost, "/rules", `{"name":"Musik-Art","interest":"Artistic","subject":"language","threshold":70,"major":"Musik","weight":0.5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(mux, http.MethodGet, "/rules/Musik-Art", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view ruleView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "declarative", view.Kind)
	require.NotNil(t, view.Descriptor)
	assert.Equal(t, 70.0, view.Descriptor.Threshold)

	w = do(mux, http.MethodPost, "/rules", `{"name":"","major":"X","weight":0.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(mux, http.MethodPut, "/rules/Musik-Art", `{"weight":0.2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.2, adv.TotalWeight("Musik"))

	w = do(mux, http.MethodPut, "/rules/Musik-Art", `{"weight":7}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(mux, http.MethodPut, "/rules/Nope", `{"weight":0.2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(mux, http.MethodDelete, "/rules/Musik-Art", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(mux, http.MethodDelete, "/rules/Musik-Art", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(mux, http.MethodGet, "/rules/Musik-Art", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryHandlers(t *testing.T) {
	id := uuid.NewString()
	history := &mockHistory{runs: []storage.Run{{
		RunID:       id,
		RequestedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Source:      "nats",
		TopMajor:    "Kedokteran",
		Facts:       []byte(`{"career_goal":"dokter"}`),
		Results:     []byte(`[]`),
	}}}
	mux, _ := newTestServer(history)

	w := do(mux, http.MethodGet, "/recommendations?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = do(mux, http.MethodGet, "/recommendations/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var view runView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Kedokteran", view.TopMajor)
	assert.JSONEq(t, `{"career_goal":"dokter"}`, string(view.Facts))

	w = do(mux, http.MethodGet, "/recommendations/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(mux, http.MethodGet, "/recommendations/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(mux, http.MethodGet, "/recommendations?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryDisabled(t *testing.T) {
	mux, _ := newTestServer(&mockHistory{err: stor.ErrHistoryDisabled})
	w := do(mux, http.MethodGet, "/recommendations", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	mux, _ = newTestServer(nil)
	w = do(mux, http.MethodGet, "/recommendations", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
