package planner

import (
	"context"
	"time"

	"github.com/hpungsan/hmchef/internal/recipe"
)

// RandomFetcher returns one random catalog recipe.
type RandomFetcher interface {
	Random(ctx context.Context) (recipe.Recipe, error)
}

// CatalogSource fills every day with an independent random catalog recipe.
type CatalogSource struct {
	Catalog RandomFetcher
}

// RecipeFor ignores the day; each call is its own random draw.
func (s CatalogSource) RecipeFor(ctx context.Context, _ int, _ time.Time) (recipe.Recipe, error) {
	return s.Catalog.Random(ctx)
}
