package speech

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/chefai/internal/domain"
)

// PrepareSegments turns a recipe into the ordered lines read aloud:
// the title and description, the ingredient list, then one line per step.
func PrepareSegments(r *domain.Recipe) []string {
	if r == nil {
		return nil
	}
	segments := make([]string, 0, 2+len(r.Instructions))

	title := sentence("Recipe: " + strings.TrimSpace(r.Name))
	if d := strings.TrimSpace(r.Description); d != "" {
		title += " " + sentence(d)
	}
	segments = append(segments, title)

	items := make([]string, 0, len(r.RecipeIngredients))
	for _, ing := range r.RecipeIngredients {
		name := strings.TrimSpace(ing.Name)
		if q := strings.TrimSpace(ing.Quantity); q != "" {
			name = q + " of " + name
		}
		items = append(items, sentence(name))
	}
	segments = append(segments, strings.TrimSpace("Ingredients: "+strings.Join(items, " ")))

	for i, step := range r.Instructions {
		segments = append(segments, sentence(fmt.Sprintf("Step %d: %s", i+1, strings.TrimSpace(step))))
	}
	return segments
}

// FullText joins segments into one utterance.
func FullText(segments []string) string {
	return strings.Join(segments, " ")
}

// sentence terminates s with a period unless it already ends a sentence.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
