package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/majorwise/majorwise/internal/advisor"
	"github.com/majorwise/majorwise/internal/knowledge"
	"github.com/majorwise/majorwise/internal/logger"
	stor "github.com/majorwise/majorwise/internal/storage"
	"github.com/majorwise/majorwise/pkg/facts"
	"github.com/majorwise/majorwise/pkg/storage"
)

// Advisor is the rule base and recommendation surface served over HTTP.
type Advisor interface {
	Recommend(ctx context.Context, f facts.Facts, topN int, source string) (advisor.Run, error)
	Rules() []advisor.RuleInfo
	AddRule(nd knowledge.NamedDescriptor) error
	UpdateRule(name string, u knowledge.Update) (bool, error)
	DeleteRule(name string) bool
}

// History serves stored recommendation runs.
type History interface {
	ListRuns(ctx context.Context, limit int) ([]storage.Run, error)
	GetRun(ctx context.Context, runID string) (storage.Run, error)
}

const defaultHistoryLimit = 20

type API struct {
	advisor Advisor
	history History
	log     *logger.Logger
}

func New(a Advisor, history History, log *logger.Logger) *API {
	if log == nil {
		log = logger.Nop()
	}
	return &API{advisor: a, history: history, log: log}
}

func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/recommend", a.recommend)
	mux.HandleFunc("/rules", a.rules)
	mux.HandleFunc("/rules/", a.ruleHandler)
	mux.HandleFunc("/recommendations", a.recommendations)
	mux.HandleFunc("/recommendations/", a.recommendation)
}

type ruleView struct {
	Name        string                `json:"name"`
	Major       string                `json:"major"`
	Weight      float64               `json:"weight"`
	Kind        string                `json:"kind"`
	Explanation string                `json:"explanation"`
	Descriptor  *knowledge.Descriptor `json:"descriptor,omitempty"`
}

type updateRequest struct {
	Major      string                `json:"major"`
	Weight     *float64              `json:"weight"`
	Descriptor *knowledge.Descriptor `json:"descriptor"`
}

type runView struct {
	RunID       string          `json:"run_id"`
	RequestedAt string          `json:"requested_at"`
	Source      string          `json:"source"`
	TopMajor    string          `json:"top_major,omitempty"`
	Facts       json.RawMessage `json:"facts"`
	Results     json.RawMessage `json:"recommendations"`
}

func (a *API) recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topN := 0
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			http.Error(w, "invalid top_n", http.StatusBadRequest)
			return
		}
		topN = val
	}

	var f facts.Facts
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	f.Normalize()
	if err := f.Valid(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := a.advisor.Recommend(r.Context(), f, topN, "http")
	if err != nil {
		if errors.Is(err, facts.ErrMissingFact) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a.log.Error("recommend", "error", err)
		http.Error(w, fmt.Sprintf("failed to recommend: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":          run.ID.String(),
		"recommendations": run.Recommendations,
	})
}

func (a *API) rules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		infos := a.advisor.Rules()
		views := make([]ruleView, 0, len(infos))
		for _, info := range infos {
			views = append(views, toRuleView(info))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"rules": views})

	case http.MethodPost:
		var nd knowledge.NamedDescriptor
		if err := json.NewDecoder(r.Body).Decode(&nd); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		if err := a.advisor.AddRule(nd); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"name": nd.Name})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *API) ruleHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/rules/")
	if name == "" {
		http.Error(w, "rule name required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		for _, info := range a.advisor.Rules() {
			if info.Rule.Name == name {
				writeJSON(w, http.StatusOK, toRuleView(info))
				return
			}
		}
		http.Error(w, "rule not found", http.StatusNotFound)

	case http.MethodPut:
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		ok, err := a.advisor.UpdateRule(name, knowledge.Update{
			Major:      req.Major,
			Weight:     req.Weight,
			Descriptor: req.Descriptor,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !ok {
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"name": name})

	case http.MethodDelete:
		if !a.advisor.DeleteRule(name) {
			http.Error(w, "rule not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *API) recommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = val
	}

	if a.history == nil {
		http.Error(w, stor.ErrHistoryDisabled.Error(), http.StatusServiceUnavailable)
		return
	}
	runs, err := a.history.ListRuns(r.Context(), limit)
	if err != nil {
		a.historyError(w, err)
		return
	}

	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, toRunView(run))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": views})
}

func (a *API) recommendation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/recommendations/")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	if a.history == nil {
		http.Error(w, stor.ErrHistoryDisabled.Error(), http.StatusServiceUnavailable)
		return
	}
	run, err := a.history.GetRun(r.Context(), id)
	if err != nil {
		a.historyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunView(run))
}

func (a *API) historyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stor.ErrHistoryDisabled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, sql.ErrNoRows):
		http.Error(w, "run not found", http.StatusNotFound)
	default:
		a.log.Error("history query", "error", err)
		http.Error(w, fmt.Sprintf("failed to query history: %v", err), http.StatusInternalServerError)
	}
}

func toRuleView(info advisor.RuleInfo) ruleView {
	return ruleView{
		Name:        info.Rule.Name,
		Major:       info.Rule.Major,
		Weight:      info.Rule.Weight,
		Kind:        info.Rule.Condition.Kind.String(),
		Explanation: info.Rule.Condition.Explanation,
		Descriptor:  info.Descriptor,
	}
}

func toRunView(run storage.Run) runView {
	return runView{
		RunID:       run.RunID,
		RequestedAt: run.RequestedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Source:      run.Source,
		TopMajor:    run.TopMajor,
		Facts:       run.Facts,
		Results:     run.Results,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
