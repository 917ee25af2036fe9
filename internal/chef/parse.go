package chef

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hammamikhairi/chefai/internal/domain"
)

// wireRecipe mirrors domain.Recipe with pointer fields so a missing key can
// be told apart from an empty value.
type wireRecipe struct {
	Name                *string              `json:"recipe_name"`
	Description         *string              `json:"description"`
	PrepTime            *string              `json:"prep_time"`
	CookTime            *string              `json:"cook_time"`
	Servings            *string              `json:"servings"`
	Category            *string              `json:"category"`
	Difficulty          *string              `json:"difficulty"`
	DetectedIngredients *[]*wireIngredient `json:"detected_ingredients"`
	RecipeIngredients   *[]*wireIngredient `json:"recipe_ingredients"`
	Instructions        *[]*string         `json:"instructions"`
	ProTips             *[]*string         `json:"pro_tips"`
	NutritionalBenefits *[]*string         `json:"nutritional_benefits"`
}

// wireIngredient keeps both ingredient keys nullable so an empty object or a
// null quantity is rejected instead of decoding to zero values.
type wireIngredient struct {
	Name     *string `json:"name"`
	Quantity *string `json:"quantity"`
}

// ParseRecipe decodes a model reply into a Recipe. Code fences are stripped
// first. Anything that does not match the schema exactly (unknown or missing
// keys, wrong types, trailing data, an empty name) wraps ErrMalformedResponse.
func ParseRecipe(raw string) (*domain.Recipe, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var w wireRecipe
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the JSON object", domain.ErrMalformedResponse)
	}

	if missing := w.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrMalformedResponse, strings.Join(missing, ", "))
	}
	if strings.TrimSpace(*w.Name) == "" {
		return nil, fmt.Errorf("%w: empty recipe_name", domain.ErrMalformedResponse)
	}

	detected, err := ingredients("detected_ingredients", *w.DetectedIngredients)
	if err != nil {
		return nil, err
	}
	needed, err := ingredients("recipe_ingredients", *w.RecipeIngredients)
	if err != nil {
		return nil, err
	}
	steps, err := strs("instructions", *w.Instructions, true)
	if err != nil {
		return nil, err
	}

	r := &domain.Recipe{
		Name:                *w.Name,
		Description:         *w.Description,
		PrepTime:            *w.PrepTime,
		CookTime:            *w.CookTime,
		Servings:            *w.Servings,
		Category:            *w.Category,
		Difficulty:          *w.Difficulty,
		DetectedIngredients: detected,
		RecipeIngredients:   needed,
		Instructions:        steps,
	}
	if w.ProTips != nil {
		if r.ProTips, err = strs("pro_tips", *w.ProTips, false); err != nil {
			return nil, err
		}
	}
	if w.NutritionalBenefits != nil {
		if r.NutritionalBenefits, err = strs("nutritional_benefits", *w.NutritionalBenefits, false); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ingredients converts a decoded ingredient list. Every entry needs both
// keys present and non-null and a non-blank name. An empty quantity is kept.
func ingredients(key string, in []*wireIngredient) ([]domain.Ingredient, error) {
	out := make([]domain.Ingredient, 0, len(in))
	for i, ing := range in {
		switch {
		case ing == nil:
			return nil, fmt.Errorf("%w: %s[%d] is null", domain.ErrMalformedResponse, key, i)
		case ing.Name == nil:
			return nil, fmt.Errorf("%w: %s[%d] missing name", domain.ErrMalformedResponse, key, i)
		case ing.Quantity == nil:
			return nil, fmt.Errorf("%w: %s[%d] missing quantity", domain.ErrMalformedResponse, key, i)
		case strings.TrimSpace(*ing.Name) == "":
			return nil, fmt.Errorf("%w: %s[%d] has an empty name", domain.ErrMalformedResponse, key, i)
		}
		out = append(out, domain.Ingredient{Name: *ing.Name, Quantity: *ing.Quantity})
	}
	return out, nil
}

// strs converts a decoded string list, rejecting null elements. With
// nonBlank set, whitespace-only elements are rejected too.
func strs(key string, in []*string, nonBlank bool) ([]string, error) {
	out := make([]string, 0, len(in))
	for i, s := range in {
		if s == nil {
			return nil, fmt.Errorf("%w: %s[%d] is null", domain.ErrMalformedResponse, key, i)
		}
		if nonBlank && strings.TrimSpace(*s) == "" {
			return nil, fmt.Errorf("%w: %s[%d] is empty", domain.ErrMalformedResponse, key, i)
		}
		out = append(out, *s)
	}
	return out, nil
}

// missing returns the JSON names of required keys that were absent or null.
func (w *wireRecipe) missing() []string {
	var out []string
	check := func(ok bool, name string) {
		if !ok {
			out = append(out, name)
		}
	}
	check(w.Name != nil, "recipe_name")
	check(w.Description != nil, "description")
	check(w.PrepTime != nil, "prep_time")
	check(w.CookTime != nil, "cook_time")
	check(w.Servings != nil, "servings")
	check(w.Category != nil, "category")
	check(w.Difficulty != nil, "difficulty")
	check(w.DetectedIngredients != nil, "detected_ingredients")
	check(w.RecipeIngredients != nil, "recipe_ingredients")
	check(w.Instructions != nil, "instructions")
	return out
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove the opening fence line, language tag included.
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```json"), "```")
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
