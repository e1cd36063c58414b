package dietapi

// Wire models exchanged with the healthy-diet backend.

// IngredientRecommendationRequest asks for recipes built from ingredients on hand.
type IngredientRecommendationRequest struct {
	Ingredients []string `json:"ingredients"`
}

type Recipe struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	EstimatedCalories int    `json:"estimated_calories"`
	CookingTime       int    `json:"cooking_time"`
	Difficulty        string `json:"difficulty"`
}

type IngredientRecommendationResponse struct {
	Recipes []Recipe `json:"recipes"`
	Message string   `json:"message"`
}

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

// GoalType values are the literal strings the backend accepts.
type GoalType string

const (
	GoalWeightLoss  GoalType = "减脂"
	GoalMuscleGain  GoalType = "增肌"
	GoalMaintenance GoalType = "维持"
)

// DietPlanRequest carries the personal data a weekly plan is computed from.
type DietPlanRequest struct {
	Weight        float64        `json:"weight"`
	Height        float64        `json:"height"`
	Age           int            `json:"age"`
	Gender        string         `json:"gender"`
	Goal          GoalType       `json:"goal"`
	ActivityLevel *ActivityLevel `json:"activity_level,omitempty"`
	DailySteps    *int           `json:"daily_steps,omitempty"`
}

type MealPlan struct {
	Type              string `json:"type"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	EstimatedCalories int    `json:"estimated_calories"`
}

type DailyDietPlan struct {
	Date          string     `json:"date"`
	Meals         []MealPlan `json:"meals"`
	TotalCalories int        `json:"total_calories"`
	ProteinRatio  float64    `json:"protein_ratio"`
	CarbRatio     float64    `json:"carb_ratio"`
	FatRatio      float64    `json:"fat_ratio"`
}

type DietPlanResponse struct {
	WeeklyPlan         []DailyDietPlan `json:"weekly_plan"`
	DailyCalorieTarget int             `json:"daily_calorie_target"`
	MacroNutrients     map[string]any  `json:"macro_nutrients"`
	Recommendations    string          `json:"recommendations"`
}

// ErrorResponse is the backend's error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ServiceInfo is returned by the backend root endpoint.
type ServiceInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
}
