package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Adda-Baaj/healthy-diet-client/internal/config"
	"github.com/Adda-Baaj/healthy-diet-client/internal/logger"
	"github.com/Adda-Baaj/healthy-diet-client/internal/storage"
	"github.com/Adda-Baaj/healthy-diet-client/pkg/dietapi"
	"github.com/Adda-Baaj/healthy-diet-client/pkg/httpclient"
	"github.com/Adda-Baaj/healthy-diet-client/pkg/publishers"
)

// Assistant wires the backend API with the local history journal and the
// event publishers. A call is journaled and published only after it succeeds;
// neither step can turn a successful call into a failure.
type Assistant struct {
	client *httpclient.RestyClient
	api    *dietapi.API
	store  storage.Store
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewAssistant builds the runtime from config.
func NewAssistant(ctx context.Context, cfg *config.Config, log logger.Logger) (*Assistant, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	httpCfg := cfg.HTTPClient()
	client := httpclient.NewClient(httpCfg, log)
	log.InfoObj("http client configured", "http_client", map[string]any{
		"base_url":   client.BaseURL(),
		"timeout_ms": httpCfg.Timeout.Milliseconds(),
	})

	store, err := storage.NewStore(cfg.HistoryStorageType, cfg.BBoltPath, storage.Options{
		RecordTTL:       cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return newAssistant(client, store, fanout, log), nil
}

func newAssistant(client *httpclient.RestyClient, store storage.Store, fanout *publishers.Fanout, log logger.Logger) *Assistant {
	return &Assistant{
		client: client,
		api:    dietapi.New(client),
		store:  store,
		fanout: fanout,
		log:    log,
	}
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Recommend asks the backend for recipes that use ingredients.
func (a *Assistant) Recommend(ctx context.Context, ingredients []string) (*dietapi.IngredientRecommendationResponse, error) {
	resp, err := a.api.RecommendByIngredients(ctx, ingredients)
	if err != nil {
		return nil, fmt.Errorf("recommend by ingredients: %w", err)
	}

	request, _ := json.Marshal(dietapi.IngredientRecommendationRequest{Ingredients: ingredients})
	a.record(ctx, storage.KindRecommendation, request, resp)

	out, err := dietapi.DecodeRecommendation(resp)
	if err != nil {
		return nil, err
	}
	a.log.InfoObj("recommendation received", "recommendation_meta", map[string]any{
		"ingredients_count": len(ingredients),
		"recipes_count":     len(out.Recipes),
	})
	return out, nil
}

// Plan forwards payload verbatim to the diet plan endpoint.
func (a *Assistant) Plan(ctx context.Context, payload json.RawMessage) (*dietapi.DietPlanResponse, error) {
	resp, err := dietapi.GenerateDietPlan(ctx, a.api, payload)
	if err != nil {
		return nil, fmt.Errorf("generate diet plan: %w", err)
	}

	a.record(ctx, storage.KindDietPlan, payload, resp)

	out, err := dietapi.DecodeDietPlan(resp)
	if err != nil {
		return nil, err
	}
	a.log.InfoObj("diet plan received", "diet_plan_meta", map[string]any{
		"days":                 len(out.WeeklyPlan),
		"daily_calorie_target": out.DailyCalorieTarget,
	})
	return out, nil
}

// History lists journaled calls, newest first.
func (a *Assistant) History(limit int) ([]storage.Record, error) {
	return a.store.List(limit)
}

// HistoryRecord returns one journaled call.
func (a *Assistant) HistoryRecord(id string) (storage.Record, error) {
	return a.store.Get(id)
}

// Health queries the backend root, reached through the base path.
func (a *Assistant) Health(ctx context.Context) (*dietapi.ServiceInfo, error) {
	resp, err := a.client.Get(ctx, "/", nil)
	if err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	out, err := dietapi.Decode[dietapi.ServiceInfo](resp)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Close releases the store and publisher clients.
func (a *Assistant) Close() error {
	if a == nil {
		return nil
	}
	if err := a.fanout.Close(); err != nil {
		a.log.ErrorObj("publishers close failed", "error", err)
	}
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *Assistant) record(ctx context.Context, kind string, request []byte, resp httpclient.Response) {
	id := uuid.NewString()
	rec := storage.Record{
		ID:         id,
		Kind:       kind,
		Request:    json.RawMessage(request),
		Response:   json.RawMessage(resp.Body()),
		StatusCode: resp.StatusCode(),
		CreatedAt:  time.Now().UTC(),
	}
	if !json.Valid(rec.Response) {
		rec.Response = nil
	}
	if err := a.store.Put(rec); err != nil {
		a.log.WarnObj("history write failed", "history_error", map[string]any{
			"id":    id,
			"kind":  kind,
			"error": err.Error(),
		})
	}

	if a.fanout.Size() == 0 {
		return
	}
	evt := publishers.NewEvent(id, kind, rec.Request, rec.Response, rec.StatusCode)
	delivered, err := a.fanout.Publish(ctx, evt)
	if err != nil {
		a.log.WarnObj("event publish failed", "publish_error", map[string]any{
			"id":        id,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}
