package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/hpungsan/hmchef/internal/config"
	"github.com/hpungsan/hmchef/internal/errors"
	"github.com/hpungsan/hmchef/internal/ops"
	"github.com/hpungsan/hmchef/internal/recipe"
)

type fakeCatalog struct {
	results   []recipe.Recipe
	searchErr error

	mu      sync.Mutex
	queries []string
	calls   int
}

func (f *fakeCatalog) Search(_ context.Context, q string) ([]recipe.Recipe, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.results, f.searchErr
}

func (f *fakeCatalog) Random(context.Context) (recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return recipe.Recipe{ID: f.calls, Title: fmt.Sprintf("Random %d", f.calls), Description: "Thai"}, nil
}

// setupTestSession creates a session backed by a fake catalog.
func setupTestSession(t *testing.T) (*session, *fakeCatalog) {
	t.Helper()
	cfg := config.DefaultConfig()
	rt, err := newSession(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	t.Cleanup(rt.Close)

	cat := &fakeCatalog{}
	rt.catalog = cat
	return rt, cat
}

// captureStdout runs fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func() error) ([]byte, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout
	return buf.Bytes(), runErr
}

func TestCLISearch(t *testing.T) {
	rt, cat := setupTestSession(t)
	cat.results = []recipe.Recipe{{ID: 52772, Title: "Teriyaki Chicken Casserole", Description: "Japanese"}}

	app := newCLIApp(rt)
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"hmchef", "search", "chicken", "teriyaki"})
	})
	if err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	var output ops.SearchOutput
	if err := json.Unmarshal(out, &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if len(output.Items) != 1 || output.Items[0].Title != "Teriyaki Chicken Casserole" {
		t.Errorf("Items = %+v", output.Items)
	}
	if len(cat.queries) != 1 || cat.queries[0] != "chicken teriyaki" {
		t.Errorf("queries = %v, want [chicken teriyaki]", cat.queries)
	}
}

func TestCLISearch_CatalogFailure(t *testing.T) {
	rt, cat := setupTestSession(t)
	cat.searchErr = fmt.Errorf("dial tcp: no route to host")

	app := newCLIApp(rt)
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"hmchef", "search", "chicken"})
	})
	if err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	var output ops.SearchOutput
	if err := json.Unmarshal(out, &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if !output.NoResults || output.Message != ops.MsgNoSearchResults {
		t.Errorf("output = %+v", output)
	}
}

func TestCLIPlan(t *testing.T) {
	rt, cat := setupTestSession(t)

	app := newCLIApp(rt)
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"hmchef", "plan"})
	})
	if err != nil {
		t.Fatalf("plan command failed: %v", err)
	}

	var output ops.PlanOutput
	if err := json.Unmarshal(out, &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if len(output.Slots) != 7 || !output.Complete {
		t.Errorf("output = %+v", output)
	}
	if cat.calls != 7 {
		t.Errorf("catalog calls = %d, want 7", cat.calls)
	}
}

func TestCLIServe_InvalidPort(t *testing.T) {
	rt, _ := setupTestSession(t)

	app := newCLIApp(rt)
	err := app.Run([]string{"hmchef", "serve", "--port", "70000"})
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "[INVALID_REQUEST]") {
		t.Errorf("error = %v", err)
	}
}

func TestCLIVersion(t *testing.T) {
	app := newCLIApp(nil)
	var buf bytes.Buffer
	app.Writer = &buf

	if err := app.Run([]string{"hmchef", "--version"}); err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(buf.String(), Version) {
		t.Errorf("output = %q, want version %q", buf.String(), Version)
	}
}

func TestCLIDebugFlagRaisesLevel(t *testing.T) {
	rt, _ := setupTestSession(t)
	lvl := zap.NewAtomicLevelAt(zap.InfoLevel)
	rt.level = &lvl

	app := newCLIApp(rt)
	if _, err := captureStdout(t, func() error {
		return app.Run([]string{"hmchef", "--debug", "search", "x"})
	}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if lvl.Level().String() != "debug" {
		t.Errorf("level = %s, want debug", lvl.Level())
	}
}

func TestOutputError(t *testing.T) {
	err := outputError(fmt.Errorf("wrapped: %w", errors.NewNotFound("x.png")))

	exitErr, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("outputError() = %T, want cli.ExitCoder", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", exitErr.ExitCode())
	}
	if exitErr.Error() != "[NOT_FOUND] not found: x.png" {
		t.Errorf("Error() = %q", exitErr.Error())
	}

	plain := outputError(fmt.Errorf("boom"))
	if plain.Error() != "boom" {
		t.Errorf("Error() = %q, want boom", plain.Error())
	}
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{name: "no args", args: []string{"hmchef"}, expected: false},
		{name: "serve command", args: []string{"hmchef", "serve"}, expected: true},
		{name: "search command", args: []string{"hmchef", "search"}, expected: true},
		{name: "plan command", args: []string{"hmchef", "plan"}, expected: true},
		{name: "mcp command", args: []string{"hmchef", "mcp"}, expected: true},
		{name: "help flag", args: []string{"hmchef", "--help"}, expected: true},
		{name: "version flag", args: []string{"hmchef", "--version"}, expected: true},
		{name: "debug flag", args: []string{"hmchef", "--debug", "serve"}, expected: true},
		{name: "unknown arg defaults to MCP", args: []string{"hmchef", "--unknown"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if result := isCLIMode(); result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{name: "no args", args: []string{"hmchef"}, expected: false},
		{name: "help flag", args: []string{"hmchef", "--help"}, expected: true},
		{name: "short help flag", args: []string{"hmchef", "-h"}, expected: true},
		{name: "version flag", args: []string{"hmchef", "--version"}, expected: true},
		{name: "short version flag", args: []string{"hmchef", "-v"}, expected: true},
		{name: "help subcommand", args: []string{"hmchef", "help"}, expected: true},
		{name: "serve command is not help", args: []string{"hmchef", "serve"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if result := isHelpOrVersion(); result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}
