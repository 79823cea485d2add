package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/adapterkit/logger"
)

// FileSystem abstracts the file probes the loader performs so tests can run
// against a scripted layout.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem against the actual filesystem.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver locates the config.yml and .env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles holds the file paths the loader will read.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when set, otherwise searches the
// standard locations relative to the working directory.
func (r *Resolver) ResolveFiles(service string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.findConfigFile(service)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.findEnvFile(service)
	}
	return resolved
}

func (r *Resolver) findConfigFile(service string) string {
	searchPaths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", service),
		fmt.Sprintf("../cmd/%s/config.yml", service),
		fmt.Sprintf("../../cmd/%s/config.yml", service),
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	}
	for _, path := range searchPaths {
		if r.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

func (r *Resolver) findEnvFile(service string) string {
	envFiles := []string{fmt.Sprintf(".env.%s", service), ".env"}
	basePaths := []string{
		fmt.Sprintf("./cmd/%s", service),
		".",
		"..",
		"../..",
		"./config",
	}
	for _, envFile := range envFiles {
		for _, base := range basePaths {
			path := base + "/" + envFile
			if r.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// LoaderConfig holds the loader's dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// Option customizes a Load call.
type Option func(*LoaderConfig)

// WithFileSystem substitutes the filesystem used for probing and .env loading.
func WithFileSystem(fs FileSystem) Option {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path, skipping the search.
func WithConfigFile(path string) Option {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path, skipping the search.
func WithEnvFile(path string) Option {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load hydrates cfg for a service: YAML config first, then .env, then process
// environment variables, each layer overriding the previous one. Missing
// files are not errors; a service can run on environment variables alone.
func Load(service string, cfg any, opts ...Option) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(service, lc)
	return loadResolved(service, cfg, files, lc.FileSystem)
}

func loadResolved(service string, cfg any, files ResolvedFiles, fs FileSystem) error {
	log := logger.GetGlobalLogger().WithComponent("config")
	v := viper.New()

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("config file unreadable, continuing without it", logger.Fields(
				logger.FieldPath, files.ConfigFile,
				logger.FieldError, err.Error(),
			))
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			log.Warn("env file unreadable, continuing without it", logger.Fields(
				logger.FieldPath, files.EnvFile,
				logger.FieldError, err.Error(),
			))
		} else {
			// Pick up the variables the .env file just exported.
			bindEnvVars(v)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for %s: %w", service, err)
	}
	return nil
}

// bindEnvVars force-sets every process environment variable under all its
// nested key spellings, so ADAPTERS_DEFAULTS_CACHE_ENABLED reaches
// adapters.defaults.cache_enabled without per-key BindEnv calls.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants lowercases an environment key and expands it into the
// nested spellings viper may look up: the flat form, the fully dotted form,
// and every prefix split between dotted sections and an underscored field.
//
//	ADAPTERS_DEFAULTS_CACHE_ENABLED ->
//	  adapters_defaults_cache_enabled
//	  adapters.defaults.cache.enabled
//	  adapters.defaults_cache_enabled
//	  adapters.defaults.cache_enabled
func envKeyVariants(key string) []string {
	lower := strings.ToLower(key)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.ReplaceAll(lower, "_", ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
