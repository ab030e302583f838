package recipe

import "strings"

// Placeholder titles shown for planner days whose recipe has not arrived.
const (
	PlaceholderTitle       = "No recipe found"
	PlaceholderDescription = "No description available"
)

// Recipe is a user-authored or catalog-sourced recipe.
type Recipe struct {
	// ID identifies the recipe within the session store. Catalog recipes
	// carry the catalog's meal id instead and never enter the store.
	ID int `json:"id"`

	// Title is the recipe name
	Title string `json:"title"`

	// Description is free text, or the region of origin for catalog recipes
	Description string `json:"description"`

	// Image is a local asset reference (/media/...) or a remote URL.
	// Empty means the default placeholder image is shown.
	Image string `json:"image,omitempty"`
}

// HasImage reports whether the recipe carries its own image reference.
func (r Recipe) HasImage() bool {
	return strings.TrimSpace(r.Image) != ""
}

// Placeholder returns the stand-in recipe for an unresolved planner day.
func Placeholder() Recipe {
	return Recipe{
		Title:       PlaceholderTitle,
		Description: PlaceholderDescription,
	}
}

// IsPlaceholder reports whether r is the planner stand-in.
func (r Recipe) IsPlaceholder() bool {
	return r == Placeholder()
}
