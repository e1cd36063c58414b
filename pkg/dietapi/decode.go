package dietapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/healthy-diet-client/pkg/httpclient"
)

// Decode unmarshals a response body into T.
func Decode[T any](resp httpclient.Response) (T, error) {
	var out T
	if resp == nil {
		return out, errors.New("nil response")
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return out, fmt.Errorf("decode response body: %w", err)
	}
	return out, nil
}

// DecodeRecommendation reads a recipe recommendation response.
func DecodeRecommendation(resp httpclient.Response) (*IngredientRecommendationResponse, error) {
	out, err := Decode[IngredientRecommendationResponse](resp)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeDietPlan reads a weekly diet plan response.
func DecodeDietPlan(resp httpclient.Response) (*DietPlanResponse, error) {
	out, err := Decode[DietPlanResponse](resp)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ErrorDetail extracts the backend's {"detail": ...} message from a status
// error, falling back to the error text.
func ErrorDetail(err error) string {
	var se *httpclient.StatusError
	if !errors.As(err, &se) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	var body ErrorResponse
	if json.Unmarshal(se.Body, &body) == nil && body.Detail != "" {
		return body.Detail
	}
	return se.Error()
}
