package speech

import (
	"testing"

	"github.com/hammamikhairi/chefai/internal/domain"
)

func TestPrepareSegments(t *testing.T) {
	tests := []struct {
		name   string
		recipe *domain.Recipe
		want   []string
	}{
		{
			name: "basic",
			recipe: &domain.Recipe{
				Name:              "Tarta",
				Description:       "Dulce",
				RecipeIngredients: []domain.Ingredient{{Name: "huevos", Quantity: "2"}},
				Instructions:      []string{"Mezclar", "Hornear"},
			},
			want: []string{
				"Recipe: Tarta. Dulce.",
				"Ingredients: 2 of huevos.",
				"Step 1: Mezclar.",
				"Step 2: Hornear.",
			},
		},
		{
			name: "existing punctuation",
			recipe: &domain.Recipe{
				Name:              "Tortilla",
				Description:       "Muy rica.",
				RecipeIngredients: []domain.Ingredient{{Name: "huevos", Quantity: "6"}, {Name: "sal", Quantity: "1 pizca"}},
				Instructions:      []string{"Batir los huevos.", "¡Listo!"},
			},
			want: []string{
				"Recipe: Tortilla. Muy rica.",
				"Ingredients: 6 of huevos. 1 pizca of sal.",
				"Step 1: Batir los huevos.",
				"Step 2: ¡Listo!",
			},
		},
		{
			name: "empty quantity",
			recipe: &domain.Recipe{
				Name:              "Ensalada",
				RecipeIngredients: []domain.Ingredient{{Name: "sal", Quantity: ""}, {Name: "tomate", Quantity: "2"}},
				Instructions:      []string{"Cortar"},
			},
			want: []string{
				"Recipe: Ensalada.",
				"Ingredients: sal. 2 of tomate.",
				"Step 1: Cortar.",
			},
		},
		{
			name:   "empty lists",
			recipe: &domain.Recipe{Name: "Agua"},
			want:   []string{"Recipe: Agua.", "Ingredients:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrepareSegments(tt.recipe)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d segments, got %d: %q", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestFullText(t *testing.T) {
	if got := FullText([]string{"a.", "b."}); got != "a. b." {
		t.Fatalf("unexpected %q", got)
	}
	if PrepareSegments(nil) != nil {
		t.Fatal("nil recipe should have no segments")
	}
}
