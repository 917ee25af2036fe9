// Package kitchen turns a photo into a finished dish: a generated recipe
// plus an illustrative image.
package kitchen

import (
	"context"
	"time"

	"github.com/hammamikhairi/chefai/internal/domain"
	"github.com/hammamikhairi/chefai/internal/logger"
)

// Dish is a recipe ready to present.
type Dish struct {
	Recipe   *domain.Recipe `json:"recipe"`
	ImageURL string         `json:"image_url"`
}

// Kitchen coordinates recipe generation and image lookup. It holds no
// per-request state.
type Kitchen struct {
	chef   domain.RecipeGenerator
	photos domain.ImageFinder
	log    *logger.Logger
}

// New creates a Kitchen. photos may be nil, in which case dishes carry no image.
func New(chef domain.RecipeGenerator, photos domain.ImageFinder, log *logger.Logger) *Kitchen {
	return &Kitchen{chef: chef, photos: photos, log: log.Named("kitchen")}
}

// Cook generates a recipe for meal from img and, if that worked, looks up
// a photo of the dish. Only generation errors are returned; a missing photo
// leaves ImageURL empty.
func (k *Kitchen) Cook(ctx context.Context, img domain.Image, meal domain.MealType) (*Dish, error) {
	start := time.Now()
	recipe, err := k.chef.Generate(ctx, img, meal)
	if err != nil {
		return nil, err
	}

	dish := &Dish{Recipe: recipe}
	if k.photos != nil {
		dish.ImageURL = k.photos.FindImage(ctx, recipe.Name)
	}
	k.log.Info("cooked %q for %s in %s (image=%t)", recipe.Name, meal, time.Since(start).Round(time.Millisecond), dish.ImageURL != "")
	return dish, nil
}
