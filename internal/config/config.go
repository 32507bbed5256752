package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the prdoc configuration. Reference and output selection
// live on the CLI; Config holds the pipeline tunables and filter tables.
type Config struct {
	MaxFileSize       int      `json:"maxFileSize"`
	ContextLines      int      `json:"contextLines"`
	MaxUnchanged      int      `json:"maxUnchanged"`
	Workers           int      `json:"workers"`
	IncludeExtensions []string `json:"includeExtensions,omitempty"`
	ExcludePatterns   []string `json:"excludePatterns"`
	LockfileNames     []string `json:"lockfileNames"`
	GeneratedSuffixes []string `json:"generatedSuffixes"`
	BinaryExtensions  []string `json:"binaryExtensions"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		MaxFileSize:  100000,
		ContextLines: 3,
		MaxUnchanged: 10,
		Workers:      4,
		ExcludePatterns: []string{
			"__pycache__", "*.pyc", "*.pyo", ".git", "node_modules",
			"*.min.js", "*.bundle.js", ".env", "uv.lock", "*.lock",
		},
		LockfileNames: []string{
			"uv.lock", "package-lock.json", "yarn.lock", "pipfile.lock",
			"poetry.lock", "pnpm-lock.yaml", "cargo.lock", "gemfile.lock",
			"composer.lock", "go.sum",
		},
		GeneratedSuffixes: []string{".min.js", ".min.css", ".map"},
		BinaryExtensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".ico", ".bmp",
			".woff", ".woff2", ".ttf", ".eot", ".otf",
			".pdf", ".zip", ".tar", ".gz", ".rar", ".7z",
			".exe", ".dll", ".so", ".dylib", ".a", ".lib",
			".mp3", ".mp4", ".avi", ".mov", ".wav",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for prdoc.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prdoc"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "prdoc"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "prdoc"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "prdoc"), nil
	default:
		return filepath.Join(home, ".config", "prdoc"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.MaxFileSize > 0 {
		dst.MaxFileSize = src.MaxFileSize
	}
	if src.ContextLines > 0 {
		dst.ContextLines = src.ContextLines
	}
	if src.MaxUnchanged > 0 {
		dst.MaxUnchanged = src.MaxUnchanged
	}
	if src.Workers > 0 {
		dst.Workers = src.Workers
	}
	if len(src.IncludeExtensions) > 0 {
		dst.IncludeExtensions = src.IncludeExtensions
	}
	if len(src.ExcludePatterns) > 0 {
		dst.ExcludePatterns = src.ExcludePatterns
	}
	if len(src.LockfileNames) > 0 {
		dst.LockfileNames = src.LockfileNames
	}
	if len(src.GeneratedSuffixes) > 0 {
		dst.GeneratedSuffixes = src.GeneratedSuffixes
	}
	if len(src.BinaryExtensions) > 0 {
		dst.BinaryExtensions = src.BinaryExtensions
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("PRDOC_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFileSize = n
		}
	}
	if v := os.Getenv("PRDOC_CONTEXT_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ContextLines = n
		}
	}
	if v := os.Getenv("PRDOC_MAX_UNCHANGED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxUnchanged = n
		}
	}
	if v := os.Getenv("PRDOC_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("PRDOC_INCLUDE_EXTENSIONS"); v != "" {
		cfg.IncludeExtensions = SplitList(v)
	}
	if v := os.Getenv("PRDOC_EXCLUDE_PATTERNS"); v != "" {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, SplitList(v)...)
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["maxFileSize"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFileSize = n
		}
	}
	if v, ok := overrides["contextLines"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ContextLines = n
		}
	}
	if v, ok := overrides["maxUnchanged"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxUnchanged = n
		}
	}
	if v, ok := overrides["workers"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v, ok := overrides["includeExtensions"]; ok && v != "" {
		cfg.IncludeExtensions = SplitList(v)
	}
	if v, ok := overrides["excludePatterns"]; ok && v != "" {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, SplitList(v)...)
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "maxFileSize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxFileSize must be an integer: %w", err)
		}
		cfg.MaxFileSize = n
	case "contextLines":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("contextLines must be an integer: %w", err)
		}
		cfg.ContextLines = n
	case "maxUnchanged":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxUnchanged must be an integer: %w", err)
		}
		cfg.MaxUnchanged = n
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("workers must be an integer: %w", err)
		}
		cfg.Workers = n
	case "includeExtensions":
		cfg.IncludeExtensions = SplitList(value)
	case "excludePatterns":
		cfg.ExcludePatterns = SplitList(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
