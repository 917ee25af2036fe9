package chef

import (
	"errors"
	"strings"
	"testing"

	"github.com/hammamikhairi/chefai/internal/domain"
)

const validRecipeJSON = `{
  "recipe_name": "Tortilla de patatas",
  "description": "Clásica tortilla española.",
  "prep_time": "15 minutos",
  "cook_time": "20 minutos",
  "servings": "4",
  "category": "Tradicional",
  "difficulty": "Media",
  "detected_ingredients": [{"name": "Huevos", "quantity": "6"}, {"name": "Patatas", "quantity": "3"}],
  "recipe_ingredients": [{"name": "Huevos", "quantity": "6"}, {"name": "Patatas", "quantity": "500 g"}, {"name": "Aceite", "quantity": "100 ml"}],
  "instructions": ["Pelar las patatas", "Freír a fuego medio", "Cuajar la tortilla"],
  "pro_tips": ["Usa patatas nuevas."],
  "nutritional_benefits": ["Rica en proteínas."]
}`

func TestParseRecipeValid(t *testing.T) {
	r, err := ParseRecipe(validRecipeJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "Tortilla de patatas" {
		t.Fatalf("expected name %q, got %q", "Tortilla de patatas", r.Name)
	}
	wantSteps := []string{"Pelar las patatas", "Freír a fuego medio", "Cuajar la tortilla"}
	if len(r.Instructions) != len(wantSteps) {
		t.Fatalf("expected %d steps, got %d", len(wantSteps), len(r.Instructions))
	}
	for i, s := range wantSteps {
		if r.Instructions[i] != s {
			t.Fatalf("step %d: expected %q, got %q", i, s, r.Instructions[i])
		}
	}
	if len(r.RecipeIngredients) != 3 || r.RecipeIngredients[2].Name != "Aceite" {
		t.Fatalf("recipe ingredients out of order: %+v", r.RecipeIngredients)
	}
	if len(r.ProTips) != 1 || len(r.NutritionalBenefits) != 1 {
		t.Fatalf("optional lists not decoded: tips=%v benefits=%v", r.ProTips, r.NutritionalBenefits)
	}
}

func TestParseRecipeFenced(t *testing.T) {
	plain, err := ParseRecipe(validRecipeJSON)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n" + validRecipeJSON + "\n```"},
		{"bare fence", "```\n" + validRecipeJSON + "\n```"},
		{"padded fence", "\n\n  ```json\n" + validRecipeJSON + "\n```  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRecipe(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Name != plain.Name || len(r.Instructions) != len(plain.Instructions) ||
				len(r.RecipeIngredients) != len(plain.RecipeIngredients) {
				t.Fatalf("fenced result differs: %+v vs %+v", r, plain)
			}
		})
	}
}

func TestParseRecipeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"only fence", "```json\n```"},
		{"prose", "Here is your recipe!"},
		{"trailing comma", strings.Replace(validRecipeJSON, `"Cuajar la tortilla"]`, `"Cuajar la tortilla",]`, 1)},
		{"missing key", strings.Replace(validRecipeJSON, `"difficulty": "Media",`, "", 1)},
		{"unknown key", strings.Replace(validRecipeJSON, `"servings": "4",`, `"servings": "4", "calories": "300",`, 1)},
		{"wrong type", strings.Replace(validRecipeJSON, `"servings": "4"`, `"servings": 4`, 1)},
		{"empty name", strings.Replace(validRecipeJSON, `"Tortilla de patatas"`, `"  "`, 1)},
		{"trailing data", validRecipeJSON + ` {"extra": true}`},
		{"null required list", strings.Replace(validRecipeJSON, `"instructions": ["Pelar las patatas", "Freír a fuego medio", "Cuajar la tortilla"]`, `"instructions": null`, 1)},
		{"ingredient missing quantity", strings.Replace(validRecipeJSON, `{"name": "Huevos", "quantity": "6"}, {"name": "Patatas", "quantity": "3"}`, `{"name": "Huevos"}`, 1)},
		{"empty ingredient object", strings.Replace(validRecipeJSON, `{"name": "Aceite", "quantity": "100 ml"}`, `{}`, 1)},
		{"null ingredient quantity", strings.Replace(validRecipeJSON, `{"name": "Aceite", "quantity": "100 ml"}`, `{"name": "Aceite", "quantity": null}`, 1)},
		{"null ingredient name", strings.Replace(validRecipeJSON, `{"name": "Aceite", "quantity": "100 ml"}`, `{"name": null, "quantity": "100 ml"}`, 1)},
		{"blank ingredient name", strings.Replace(validRecipeJSON, `{"name": "Aceite", "quantity": "100 ml"}`, `{"name": " ", "quantity": "100 ml"}`, 1)},
		{"null ingredient entry", strings.Replace(validRecipeJSON, `{"name": "Aceite", "quantity": "100 ml"}`, `null`, 1)},
		{"unknown ingredient key", strings.Replace(validRecipeJSON, `{"name": "Aceite", "quantity": "100 ml"}`, `{"name": "Aceite", "quantity": "100 ml", "unit": "ml"}`, 1)},
		{"null instruction", strings.Replace(validRecipeJSON, `"Pelar las patatas",`, `null,`, 1)},
		{"blank instruction", strings.Replace(validRecipeJSON, `"Pelar las patatas",`, `"   ",`, 1)},
		{"null pro tip", strings.Replace(validRecipeJSON, `["Usa patatas nuevas."]`, `[null]`, 1)},
		{"nested nulls together", strings.Replace(strings.Replace(strings.Replace(validRecipeJSON,
			`{"name": "Huevos", "quantity": "6"}, {"name": "Patatas", "quantity": "3"}`, `{"name": "huevo"}`, 1),
			`{"name": "Huevos", "quantity": "6"}, {"name": "Patatas", "quantity": "500 g"}, {"name": "Aceite", "quantity": "100 ml"}`, `{}`, 1),
			`"Pelar las patatas",`, `null, "x",`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecipe(tt.raw)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestParseRecipeEmptyQuantity(t *testing.T) {
	raw := strings.Replace(validRecipeJSON, `{"name": "Aceite", "quantity": "100 ml"}`, `{"name": "Sal", "quantity": ""}`, 1)
	r, err := ParseRecipe(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.RecipeIngredients[2]
	if got.Name != "Sal" || got.Quantity != "" {
		t.Fatalf("expected Sal with empty quantity, got %+v", got)
	}
}

func TestParseRecipeOptionalLists(t *testing.T) {
	absent := strings.Replace(validRecipeJSON, `,
  "pro_tips": ["Usa patatas nuevas."],
  "nutritional_benefits": ["Rica en proteínas."]`, "", 1)
	empty := strings.Replace(validRecipeJSON, `["Usa patatas nuevas."]`, `[]`, 1)

	r, err := ParseRecipe(absent)
	if err != nil {
		t.Fatalf("absent: %v", err)
	}
	if r.ProTips != nil || r.NutritionalBenefits != nil {
		t.Fatalf("expected nil optional lists, got tips=%v benefits=%v", r.ProTips, r.NutritionalBenefits)
	}

	r, err = ParseRecipe(empty)
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	if r.ProTips == nil || len(r.ProTips) != 0 {
		t.Fatalf("expected present but empty pro_tips, got %#v", r.ProTips)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```{\"a\":1}```", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
