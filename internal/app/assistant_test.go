package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/healthy-diet-client/internal/config"
	"github.com/Adda-Baaj/healthy-diet-client/internal/logger"
	"github.com/Adda-Baaj/healthy-diet-client/internal/storage"
	"github.com/Adda-Baaj/healthy-diet-client/pkg/httpclient"
	"github.com/Adda-Baaj/healthy-diet-client/pkg/publishers"
)

type recordingPublisher struct {
	events []publishers.Event
	err    error
}

func (r *recordingPublisher) ID() string   { return "rec" }
func (r *recordingPublisher) Type() string { return "stub" }
func (r *recordingPublisher) Close() error { return nil }
func (r *recordingPublisher) Publish(_ context.Context, evt publishers.Event) error {
	r.events = append(r.events, evt)
	return r.err
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/healthy-diet/recommend-by-ingredients", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Ingredients []string `json:"ingredients"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Ingredients) == 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail":"ingredients required"}`))
			return
		}
		_, _ = w.Write([]byte(`{"recipes":[{"name":"番茄炒蛋","description":"...","estimated_calories":250,"cooking_time":10,"difficulty":"简单"}],"message":""}`))
	})
	mux.HandleFunc("/api/healthy-diet/generate-diet-plan", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		_, _ = w.Write([]byte(`{"weekly_plan":[{"date":"2026-01-09","meals":[],"total_calories":2000,"protein_ratio":30,"carb_ratio":40,"fat_ratio":30}],"daily_calorie_target":2000,"macro_nutrients":{"protein":"150g"},"recommendations":"多喝水"}`))
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"message":"健康饮食推荐Agent API","version":"1.0.0"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestAssistant(t *testing.T, baseURL string, pub publishers.Publisher) *Assistant {
	t.Helper()
	store, err := storage.NewStore("bbolt", filepath.Join(t.TempDir(), "history.db"), storage.Options{})
	require.NoError(t, err)

	client := httpclient.NewClient(httpclient.Config{BaseURL: baseURL, Timeout: 2 * time.Second}, nil)
	var pubs []publishers.Publisher
	if pub != nil {
		pubs = append(pubs, pub)
	}
	a := newAssistant(client, store, publishers.NewFanout(pubs), logger.NopLogger{})
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestRecommendJournalsAndPublishes(t *testing.T) {
	srv := newBackend(t)
	pub := &recordingPublisher{}
	a := newTestAssistant(t, srv.URL, pub)

	out, err := a.Recommend(context.Background(), []string{"番茄", "鸡蛋"})
	require.NoError(t, err)
	require.Len(t, out.Recipes, 1)
	assert.Equal(t, "番茄炒蛋", out.Recipes[0].Name)

	history, err := a.History(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, storage.KindRecommendation, history[0].Kind)
	assert.JSONEq(t, `{"ingredients":["番茄","鸡蛋"]}`, string(history[0].Request))
	assert.Equal(t, http.StatusOK, history[0].StatusCode)

	rec, err := a.HistoryRecord(history[0].ID)
	require.NoError(t, err)
	assert.Equal(t, history[0].ID, rec.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, history[0].ID, pub.events[0].ID)
}

func TestPlanForwardsRawPayload(t *testing.T) {
	srv := newBackend(t)
	a := newTestAssistant(t, srv.URL, nil)

	payload := json.RawMessage(`{"weight":70,"height":175,"age":30,"gender":"男","goal":"减脂"}`)
	out, err := a.Plan(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 2000, out.DailyCalorieTarget)
	require.Len(t, out.WeeklyPlan, 1)

	history, err := a.History(1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, storage.KindDietPlan, history[0].Kind)
	assert.JSONEq(t, string(payload), string(history[0].Request))
}

func TestFailedCallIsNotJournaled(t *testing.T) {
	srv := newBackend(t)
	pub := &recordingPublisher{}
	a := newTestAssistant(t, srv.URL, pub)

	_, err := a.Recommend(context.Background(), []string{})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, httpclient.StatusCodeOf(err))

	history, err := a.History(0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, pub.events)
}

func TestPublishFailureDoesNotFailCall(t *testing.T) {
	srv := newBackend(t)
	a := newTestAssistant(t, srv.URL, &recordingPublisher{err: errors.New("sink down")})

	_, err := a.Recommend(context.Background(), []string{"egg"})
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	srv := newBackend(t)
	a := newTestAssistant(t, srv.URL, nil)

	info, err := a.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestNewAssistantFromConfig(t *testing.T) {
	srv := newBackend(t)
	dir := t.TempDir()
	pubFile := filepath.Join(dir, "publishers.yaml")
	require.NoError(t, os.WriteFile(pubFile, []byte(`
publishers:
  - id: hook
    type: http
    http:
      url: `+srv.URL+`/hook
`), 0o644))

	cfg := &config.Config{
		APIBaseURL:             srv.URL,
		APIBasePath:            "/api",
		APITimeout:             time.Second,
		PublishersFile:         pubFile,
		HistoryStorageType:     "none",
		HistoryTTL:             time.Hour,
		HistoryCleanupInterval: time.Hour,
	}
	a, err := NewAssistant(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 1, a.fanout.Size())
	assert.Equal(t, srv.URL+"/api", a.client.BaseURL())
}

func TestNewAssistantRejectsNilConfig(t *testing.T) {
	_, err := NewAssistant(context.Background(), nil, nil)
	assert.Error(t, err)
}
