package recipe

import (
	"strconv"
	"strings"
)

// Meal is a record as returned by the remote catalog.
type Meal struct {
	IDMeal       string `json:"idMeal"`
	StrMeal      string `json:"strMeal"`
	StrArea      string `json:"strArea"`
	StrMealThumb string `json:"strMealThumb"`
}

// FromMeal maps a catalog record into the Recipe shape. The area of origin
// becomes the description. A non-numeric meal id maps to 0.
func FromMeal(m Meal) Recipe {
	id, err := strconv.Atoi(strings.TrimSpace(m.IDMeal))
	if err != nil {
		id = 0
	}
	return Recipe{
		ID:          id,
		Title:       m.StrMeal,
		Description: m.StrArea,
		Image:       m.StrMealThumb,
	}
}

// FromMeals maps every record; a nil input yields an empty, non-nil slice.
func FromMeals(meals []Meal) []Recipe {
	out := make([]Recipe, 0, len(meals))
	for _, m := range meals {
		out = append(out, FromMeal(m))
	}
	return out
}
