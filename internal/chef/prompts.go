package chef

import (
	"fmt"

	"github.com/hammamikhairi/chefai/internal/domain"
)

// Prompts live here so the chef's voice is a single-file edit.

// recipeSchema is the exact JSON shape the model must return. Keep it in
// sync with domain.Recipe; ParseRecipe rejects anything else.
const recipeSchema = `{
  "recipe_name": "Dish name",
  "description": "A short, appetising description of the dish.",
  "prep_time": "X minutes",
  "cook_time": "Y minutes",
  "servings": "Z",
  "category": "Healthy",
  "difficulty": "Easy",
  "detected_ingredients": [
    { "name": "Detected ingredient 1", "quantity": "Amount seen in the photo" },
    { "name": "Detected ingredient 2", "quantity": "Amount seen in the photo" }
  ],
  "recipe_ingredients": [
    { "name": "Recipe ingredient A", "quantity": "Amount needed" },
    { "name": "Recipe ingredient B", "quantity": "Amount needed" }
  ],
  "instructions": [
    "Step 1, very detailed.",
    "Step 2, very detailed.",
    "Step 3, very detailed."
  ],
  "pro_tips": [
    "A professional tip.",
    "Another professional tip."
  ],
  "nutritional_benefits": [
    "Nutritional benefit 1.",
    "Nutritional benefit 2."
  ]
}`

const recipePrompt = `You are an expert AI chef. Analyse the photo of ingredients you were given.
Your task is to create a creative, delicious recipe that is specifically a %[1]q (%[2]s). This is a strict, mandatory constraint: the recipe MUST be a %[1]q.

Follow these instructions strictly:
1. Identify ingredients: first, list ALL the ingredients you can identify in the photo.
2. Create a recipe: using a selection of those ingredients, create a complete recipe.
3. Detailed instructions: write every entry of "instructions" as descriptively and clearly as possible, as if explaining it to a beginner. Include temperatures, textures, times and preparation advice in each step.
4. Language: write every text value in %[3]s. Keep the JSON keys exactly as shown.
5. Output format: respond ONLY with one JSON object. Do not write anything before or after the JSON and do not wrap it in markdown.
   All values are strings or arrays exactly as in this structure:
%[4]s`

// BuildPrompt renders the generation prompt for a meal type. language names
// the language the recipe text must be written in.
func BuildPrompt(meal domain.MealType, language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return fmt.Sprintf(recipePrompt, meal.String(), meal.Label(), language, recipeSchema)
}
