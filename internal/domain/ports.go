package domain

import "context"

// RecipeGenerator turns a photo of ingredients into a recipe.
// A *QuotaError means quota exhaustion; any other error is a generic failure.
type RecipeGenerator interface {
	Generate(ctx context.Context, img Image, meal MealType) (*Recipe, error)
}

// ImageFinder looks up a representative photo URL for a recipe.
// It returns "" when nothing usable was found and never fails.
type ImageFinder interface {
	FindImage(ctx context.Context, recipeName string) string
}

// SpeechBackend reads segments aloud. Control calls never block on audio.
type SpeechBackend interface {
	Play(segments []string, from int) error
	Pause()
	Resume()
	Stop()
	Status() PlaybackStatus
	SelfTest(ctx context.Context) error
}
