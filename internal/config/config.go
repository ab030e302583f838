package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCatalogBaseURL is the public TheMealDB v1 API root.
const DefaultCatalogBaseURL = "https://www.themealdb.com/api/json/v1/1"

// Config holds application configuration.
type Config struct {
	// Bind is the interface the web UI listens on.
	Bind string `json:"bind,omitempty"`

	// Port is the TCP port the web UI listens on.
	Port int `json:"port,omitempty"`

	// CatalogBaseURL is the root of the remote recipe catalog API.
	// search.php and random.php are resolved relative to it.
	CatalogBaseURL string `json:"catalog_base_url,omitempty"`

	// CatalogTimeoutSeconds bounds each catalog request. 0 means the default;
	// a negative value disables the timeout.
	CatalogTimeoutSeconds int `json:"catalog_timeout_seconds,omitempty"`

	// UserAgent is sent with every catalog request.
	UserAgent string `json:"user_agent,omitempty"`

	// DenyMediaLibrary refuses media library access, the same as a user
	// declining the permission prompt. Recipes can still be saved without an image.
	DenyMediaLibrary bool `json:"deny_media_library,omitempty"`

	// MaxUploadBytes caps the size of a picked image.
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty"`

	// AllowedOrigins lists origins permitted to call the JSON API cross-origin.
	// Empty means same-origin only.
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely.
	// Known types: "recipe", "catalog". Unknown type names are logged as warnings.
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bind:                  "127.0.0.1",
		Port:                  8420,
		CatalogBaseURL:        DefaultCatalogBaseURL,
		CatalogTimeoutSeconds: 15,
		UserAgent:             "hmchef/1.0",
		MaxUploadBytes:        5 << 20,
		LogLevel:              "info",
	}
}

// CatalogTimeout returns the per-request catalog timeout; zero means none.
func (c *Config) CatalogTimeout() time.Duration {
	if c.CatalogTimeoutSeconds < 0 {
		return 0
	}
	return time.Duration(c.CatalogTimeoutSeconds) * time.Second
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.hmchef.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.hmchef) and repo (.hmchef) directories.
// Repo config is found by walking upward from startDir to find the nearest .hmchef/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .hmchef/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".hmchef", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.Bind = firstString(overlay.Bind, base.Bind)
	result.CatalogBaseURL = strings.TrimRight(firstString(overlay.CatalogBaseURL, base.CatalogBaseURL), "/")
	result.UserAgent = firstString(overlay.UserAgent, base.UserAgent)
	result.LogLevel = firstString(overlay.LogLevel, base.LogLevel)

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.CatalogTimeoutSeconds = overlay.CatalogTimeoutSeconds
	if result.CatalogTimeoutSeconds == 0 {
		result.CatalogTimeoutSeconds = base.CatalogTimeoutSeconds
	}

	result.MaxUploadBytes = overlay.MaxUploadBytes
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = base.MaxUploadBytes
	}

	// Booleans: overlay wins if true, else base
	result.DenyMediaLibrary = base.DenyMediaLibrary || overlay.DenyMediaLibrary

	// Arrays: merge and deduplicate
	result.AllowedOrigins = mergeStringSlice(base.AllowedOrigins, overlay.AllowedOrigins)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func firstString(overlay, base string) string {
	if s := strings.TrimSpace(overlay); s != "" {
		return s
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
