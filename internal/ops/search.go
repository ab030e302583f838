package ops

import (
	"context"

	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/recipe"
)

// Searcher queries the remote catalog by name.
type Searcher interface {
	Search(ctx context.Context, query string) ([]recipe.Recipe, error)
}

// SearchOutput contains the result of the SearchCatalog operation.
// Results are transient and never enter the store.
type SearchOutput struct {
	Query     string          `json:"query"`
	Items     []recipe.Recipe `json:"items"`
	NoResults bool            `json:"no_results"`
	Message   string          `json:"message,omitempty"`
}

// SearchCatalog runs one catalog query. A catalog failure is logged and
// reported exactly like a search without matches.
func SearchCatalog(ctx context.Context, s Searcher, logger *zap.Logger, query string) *SearchOutput {
	query = recipe.CollapseSpace(query)

	items, err := s.Search(ctx, query)
	if err != nil {
		if logger != nil {
			logger.Warn("catalog search failed", zap.String("query", query), zap.Error(err))
		}
		items = nil
	}
	if items == nil {
		items = []recipe.Recipe{}
	}

	out := &SearchOutput{
		Query:     query,
		Items:     items,
		NoResults: len(items) == 0,
	}
	if out.NoResults {
		out.Message = MsgNoSearchResults
	}
	return out
}
