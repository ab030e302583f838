// Package ops implements the recipe flows shared by the web UI, the CLI and
// the MCP server: creating, listing, searching and planning.
package ops

import "github.com/hpungsan/hmchef/internal/planner"

// User-facing messages.
const (
	MsgNoRecipes        = "No recipes added yet."
	MsgNoSearchResults  = "No recipes found."
	MsgPermissionNeeded = "Permission to access the media library is required!"
)

// Catalog is the remote recipe catalog behind the search and planner flows.
type Catalog interface {
	Searcher
	planner.RandomFetcher
}
