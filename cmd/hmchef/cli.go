package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/config"
	"github.com/hpungsan/hmchef/internal/errors"
	"github.com/hpungsan/hmchef/internal/mcp"
	"github.com/hpungsan/hmchef/internal/ops"
	"github.com/hpungsan/hmchef/internal/planner"
	"github.com/hpungsan/hmchef/internal/web"
)

// newCLIApp creates the CLI application with all commands.
// rt is nil when only help or version output is needed.
func newCLIApp(rt *session) *cli.App {
	cfg := config.DefaultConfig()
	if rt != nil {
		cfg = rt.cfg
	}

	app := &cli.App{
		Name:    "hmchef",
		Usage:   "The Crazy HM Chef: write, find and plan recipes",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Log at debug level"},
		},
		Before: func(c *cli.Context) error {
			if rt != nil && rt.level != nil && c.Bool("debug") {
				rt.level.SetLevel(zap.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(rt, cfg),
			searchCmd(rt),
			planCmd(rt),
			mcpCmd(rt),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(rt *session, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Open the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: cfg.Bind, Usage: "Interface to listen on"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: cfg.Port, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port < 0 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
			}

			srv, err := web.NewServer(rt.webDeps(), c.String("bind"), port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, rt.logger); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// searchCmd creates the search command.
func searchCmd(rt *session) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the recipe catalog by name",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			ctx, stop := signalContext(c.Context)
			defer stop()

			query := strings.Join(c.Args().Slice(), " ")
			return outputJSON(ops.SearchCatalog(ctx, rt.catalog, rt.logger, query))
		},
	}
}

// planCmd creates the plan command.
func planCmd(rt *session) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Plan seven days of meals starting today",
		Action: func(c *cli.Context) error {
			ctx, stop := signalContext(c.Context)
			defer stop()

			src := planner.CatalogSource{Catalog: rt.catalog}
			return outputJSON(ops.PlanWeek(ctx, src, rt.logger, time.Now()))
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(rt *session) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			if err := mcp.Run(rt.mcpDeps(), Version); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var cErr *errors.ChefError
	if stderrors.As(err, &cErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
