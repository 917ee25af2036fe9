package display

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/kitchen"
)

// FailureMessage is shown when a recipe could not be produced for any
// reason other than quota.
const FailureMessage = "No se pudo generar una receta. La respuesta de la IA no fue válida. Inténtalo de nuevo."

// RenderRecipe formats a dish for the scrollback. Tips and benefits
// sections only appear when the model provided them.
func RenderRecipe(d *kitchen.Dish) string {
	r := d.Recipe
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(titleStyle.Render("  " + r.Name))
	if r.Description != "" {
		line(primaryStyle.Render("  " + r.Description))
	}
	if d.ImageURL != "" {
		line(secondaryStyle.Render("  Foto: " + d.ImageURL))
	}
	line("")

	meta := []string{
		metaItem("Prep", r.PrepTime),
		metaItem("Cook", r.CookTime),
		metaItem("Servings", r.Servings),
		metaItem("Category", r.Category),
	}
	if r.Difficulty != "" {
		meta = append(meta, difficultyStyle.Render(r.Difficulty))
	}
	line("  " + strings.Join(meta, sepStyle.Render("  │  ")))
	line("")

	line(sectionStyle.Render("  Ingredientes"))
	for _, ing := range r.RecipeIngredients {
		line(primaryStyle.Render("    • ") + quantityStyle.Render(ing.Quantity) + primaryStyle.Render(" "+ing.Name))
	}
	line("")

	line(sectionStyle.Render("  Instrucciones"))
	for i, step := range r.Instructions {
		line(stepStyle.Render(fmt.Sprintf("    Paso %d: ", i+1)) + primaryStyle.Render(step))
	}

	if len(r.ProTips) > 0 {
		line("")
		line(sectionStyle.Render("  Pro Tips"))
		for _, tip := range r.ProTips {
			line(secondaryStyle.Render("    • " + tip))
		}
	}
	if len(r.NutritionalBenefits) > 0 {
		line("")
		line(sectionStyle.Render("  Beneficios Nutricionales"))
		for _, benefit := range r.NutritionalBenefits {
			line(secondaryStyle.Render("    • " + benefit))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// QuotaMessage formats the dedicated out-of-quota notice.
func QuotaMessage(qe *domain.QuotaError) string {
	return fmt.Sprintf("%s Reset window: about %s. %s", qe.Message, humanWindow(qe.ResetWindow.Minutes()), qe.Suggestion)
}

func humanWindow(minutes float64) string {
	if minutes >= 60 {
		h := int(minutes / 60)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%d minutes", int(minutes))
}

func metaItem(label, value string) string {
	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label+": ") + primaryStyle.Render(value)
}
