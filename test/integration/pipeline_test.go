package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majorwise/majorwise/internal/recommend"
)

// End-to-end test against a running `majorwise serve`. Set MAJORWISE_URL to
// point elsewhere than localhost:8080.

const testRule = "integration-test-rule"

func baseURL() string {
	if u := os.Getenv("MAJORWISE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func TestEndToEndRecommendation(t *testing.T) {
	api := baseURL()
	if !isServiceRunning(api) {
		t.Skip("majorwise not running, skipping integration test")
	}
	client := &http.Client{Timeout: 5 * time.Second}

	// Step 1: add a rule for a major no built-in rule mentions
	rule := map[string]interface{}{
		"name":        testRule,
		"major":       "Integrasi",
		"weight":      0.5,
		"interest":    "Conventional",
		"subject":     "math",
		"threshold":   50,
		"explanation": "integration test",
	}
	resp := doJSON(t, client, http.MethodPost, api+"/rules", rule)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	t.Cleanup(func() {
		req, _ := http.NewRequest(http.MethodDelete, api+"/rules/"+testRule, nil)
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
		}
	})

	// Step 2: recommend for a profile that fires it
	profile := map[string]interface{}{
		"interests":      []string{"Conventional"},
		"grades":         map[string]float64{"math": 60, "physics": 50, "biology": 50, "chemistry": 50, "language": 50},
		"learning_style": "visual",
		"environment":    "industri",
		"career_goal":    "akuntan",
	}
	resp = doJSON(t, client, http.MethodPost, api+"/recommend?top_n=10", profile)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		RunID           string                     `json:"run_id"`
		Recommendations []recommend.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.RunID)

	var found bool
	for _, rec := range body.Recommendations {
		if rec.Major == "Integrasi" {
			found = true
			assert.Equal(t, 1.0, rec.Score)
		}
	}
	assert.True(t, found, "expected the added rule's major in %+v", body.Recommendations)

	// Step 3: history is optional
	histResp, err := client.Get(api + "/recommendations/" + body.RunID)
	require.NoError(t, err)
	defer histResp.Body.Close()
	if histResp.StatusCode == http.StatusServiceUnavailable {
		t.Log("history disabled, skipping history check")
		return
	}
	// History writes are asynchronous
	if histResp.StatusCode == http.StatusNotFound {
		time.Sleep(time.Second)
		histResp2, err := client.Get(api + "/recommendations/" + body.RunID)
		require.NoError(t, err)
		defer histResp2.Body.Close()
		assert.Equal(t, http.StatusOK, histResp2.StatusCode)
	}
}

func doJSON(t *testing.T, client *http.Client, method, url string, v interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func isServiceRunning(url string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
