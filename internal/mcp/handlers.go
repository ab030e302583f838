package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/hmchef/internal/errors"
	"github.com/hpungsan/hmchef/internal/media"
	"github.com/hpungsan/hmchef/internal/ops"
	"github.com/hpungsan/hmchef/internal/planner"
	"github.com/hpungsan/hmchef/internal/store"
)

// CreateRequest represents the arguments for recipe_create.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
}

// SearchRequest represents the arguments for catalog_search.
type SearchRequest struct {
	Query string `json:"query"`
}

// HandleList handles the recipe_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = h.ctx(ctx)
	result, err := ops.ListRecipes(ctx, store.From(ctx))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCreate handles the recipe_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ctx = h.ctx(ctx)
	draft := ops.Draft{Title: input.Title, Description: input.Description}

	if input.ImagePath != "" {
		f, err := os.Open(input.ImagePath)
		if err != nil {
			if stderrors.Is(err, os.ErrNotExist) {
				return errorResult(errors.NewNotFound(input.ImagePath)), nil
			}
			return errorResult(errors.NewInvalidRequest("cannot read image_path")), nil
		}
		defer f.Close()

		if err := draft.PickImage(ctx, media.UploadPicker{Library: h.media, File: f}); err != nil {
			return errorResult(err), nil
		}
	}

	saved, err := draft.Save(ctx, store.From(ctx))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(saved)
}

// HandleSearch handles the catalog_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(ops.SearchCatalog(ctx, h.catalog, h.logger, input.Query))
}

// HandlePlan handles the catalog_plan tool call.
func (h *Handlers) HandlePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src := planner.CatalogSource{Catalog: h.catalog}
	return successResult(ops.PlanWeek(ctx, src, h.logger, h.now()))
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var cErr *errors.ChefError
	if stderrors.As(err, &cErr) {
		message := cErr.Message
		if cErr.Code == errors.ErrInternal {
			message = "an internal error occurred"
		}
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": message,
			"status":  cErr.Status,
		}
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
