// Package dietapi forwards ingredient recommendation and diet plan requests to
// the healthy-diet backend. It adds no retries, validation or caching: every
// call is one POST and the outcome is whatever the HTTP client reports.
package dietapi

import (
	"context"

	"github.com/Adda-Baaj/healthy-diet-client/pkg/httpclient"
)

const (
	RecommendByIngredientsPath = "/healthy-diet/recommend-by-ingredients"
	GenerateDietPlanPath       = "/healthy-diet/generate-diet-plan"
)

// Poster is the subset of httpclient.Client the API needs.
type Poster interface {
	Post(ctx context.Context, path string, body any) (httpclient.Response, error)
	PostAsync(ctx context.Context, path string, body any) *httpclient.Pending
}

// API issues the two backend calls through a shared client.
type API struct {
	client Poster
}

// New returns an API bound to client.
func New(client Poster) *API {
	return &API{client: client}
}

// recommendBody is the exact wire shape {"ingredients": [...]}.
type recommendBody struct {
	Ingredients []string `json:"ingredients"`
}

// RecommendByIngredients posts {"ingredients": ingredients}. The slice is sent
// as given; a nil slice encodes as null.
func (a *API) RecommendByIngredients(ctx context.Context, ingredients []string) (httpclient.Response, error) {
	return a.client.Post(ctx, RecommendByIngredientsPath, recommendBody{Ingredients: ingredients})
}

// RecommendByIngredientsAsync is RecommendByIngredients returning a Pending.
func (a *API) RecommendByIngredientsAsync(ctx context.Context, ingredients []string) *httpclient.Pending {
	return a.client.PostAsync(ctx, RecommendByIngredientsPath, recommendBody{Ingredients: ingredients})
}

// GenerateDietPlan posts the typed plan request.
func (a *API) GenerateDietPlan(ctx context.Context, req DietPlanRequest) (httpclient.Response, error) {
	return GenerateDietPlan(ctx, a, req)
}

// GenerateDietPlan posts data as the request body, unwrapped and unrenamed.
func GenerateDietPlan[T any](ctx context.Context, a *API, data T) (httpclient.Response, error) {
	return a.client.Post(ctx, GenerateDietPlanPath, data)
}

// GenerateDietPlanAsync is GenerateDietPlan returning a Pending.
func GenerateDietPlanAsync[T any](ctx context.Context, a *API, data T) *httpclient.Pending {
	return a.client.PostAsync(ctx, GenerateDietPlanPath, data)
}
