// Package domain defines the core types and interfaces for the recipe assistant.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"strings"
)

// Recipe is a generated recipe. The JSON keys are the exact contract the
// generation prompt asks the model to follow.
//
// ProTips and NutritionalBenefits are optional: nil means the model left the
// key out, an empty slice means it sent an empty list.
type Recipe struct {
	Name                string       `json:"recipe_name"`
	Description         string       `json:"description"`
	PrepTime            string       `json:"prep_time"`
	CookTime            string       `json:"cook_time"`
	Servings            string       `json:"servings"`
	Category            string       `json:"category"`
	Difficulty          string       `json:"difficulty"`
	DetectedIngredients []Ingredient `json:"detected_ingredients"`
	RecipeIngredients   []Ingredient `json:"recipe_ingredients"`
	Instructions        []string     `json:"instructions"`
	ProTips             []string     `json:"pro_tips"`
	NutritionalBenefits []string     `json:"nutritional_benefits"`
}

// Ingredient is a named ingredient with a free-form quantity ("2", "a handful").
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// MealType constrains what kind of dish the model may produce.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealDessert   MealType = "dessert"
	MealSnack     MealType = "snack"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealDessert, MealSnack}

var mealLabels = map[MealType]string{
	MealBreakfast: "Desayuno",
	MealLunch:     "Almuerzo",
	MealDinner:    "Cena",
	MealDessert:   "Postre",
	MealSnack:     "Snack",
}

// Label returns the Spanish display label of the meal type.
func (m MealType) Label() string {
	if l, ok := mealLabels[m]; ok {
		return l
	}
	return string(m)
}

// String returns the English key.
func (m MealType) String() string { return string(m) }

// ParseMealType accepts an English key or a Spanish label, case-insensitive.
func ParseMealType(s string) (MealType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, m := range MealTypes {
		if v == string(m) || v == strings.ToLower(m.Label()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMealType, s)
}

// Image is an in-memory photo of ingredients.
type Image struct {
	Data     []byte
	MIMEType string // "image/jpeg" or "image/png"
}
