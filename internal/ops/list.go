package ops

import (
	"context"

	"github.com/hpungsan/hmchef/internal/recipe"
	"github.com/hpungsan/hmchef/internal/store"
)

// ListOutput contains the result of the ListRecipes operation.
type ListOutput struct {
	Items   []recipe.Recipe `json:"items"`
	Total   int             `json:"total"`
	Empty   bool            `json:"empty"`
	Message string          `json:"message,omitempty"` // empty-state text
}

// ListRecipes reads the saved recipes in insertion order.
func ListRecipes(ctx context.Context, acc store.Accessor) (*ListOutput, error) {
	items, err := acc.Recipes(ctx)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if items == nil {
		items = []recipe.Recipe{}
	}

	out := &ListOutput{
		Items: items,
		Total: len(items),
		Empty: len(items) == 0,
	}
	if out.Empty {
		out.Message = MsgNoRecipes
	}
	return out, nil
}
