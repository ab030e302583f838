package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/config"
	"github.com/hpungsan/hmchef/internal/media"
	"github.com/hpungsan/hmchef/internal/ops"
	"github.com/hpungsan/hmchef/internal/store"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"recipe", "catalog"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"recipe_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"recipe_create": {
		def:     createToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate },
	},
	"catalog_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"catalog_plan": {
		def:     planToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePlan },
	},
}

var (
	listToolDef = mcp.NewTool("recipe_list",
		mcp.WithDescription("List the recipes saved in this session, oldest first."),
	)

	createToolDef = mcp.NewTool("recipe_create",
		mcp.WithDescription("Save a new recipe to this session. Optionally attach an image from a local file."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Recipe title")),
		mcp.WithString("description", mcp.Description("Free text; markdown is rendered in the web UI")),
		mcp.WithString("image_path", mcp.Description("Local path of a PNG, JPEG, GIF or WebP image")),
	)

	searchToolDef = mcp.NewTool("catalog_search",
		mcp.WithDescription("Search the public recipe catalog by name. Results are not saved."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to match against recipe names")),
	)

	planToolDef = mcp.NewTool("catalog_plan",
		mcp.WithDescription("Plan seven days of meals starting today, one random catalog recipe per day."),
	)
)

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "recipe_list" → "recipe").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// Deps are the collaborators the MCP tools are built from.
type Deps struct {
	Store   *store.Store
	Catalog ops.Catalog
	Media   *media.Library
	Config  *config.Config
	Logger  *zap.Logger
}

// NewServer creates a new MCP server with hmchef tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(deps Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hmchef",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps)

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(h.cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range h.cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			h.logger.Debug("tool disabled", zap.String("tool", name))
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps Deps, version string) error {
	return server.ServeStdio(NewServer(deps, version))
}

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store   *store.Store
	catalog ops.Catalog
	media   *media.Library
	cfg     *config.Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps Deps) *Handlers {
	h := &Handlers{
		store:   deps.Store,
		catalog: deps.Catalog,
		media:   deps.Media,
		cfg:     deps.Config,
		logger:  deps.Logger,
		now:     time.Now,
	}
	if h.cfg == nil {
		h.cfg = config.DefaultConfig()
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// ctx binds the session store to a tool call.
func (h *Handlers) ctx(parent context.Context) context.Context {
	return store.WithStore(parent, h.store)
}
