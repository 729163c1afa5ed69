package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/moss-engine/moss/framework/validation"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig     `json:"app"`
	Log     LogConfig     `json:"log"`
	Inspect InspectConfig `json:"inspect"`
}

type AppConfig struct {
	Name  string `json:"name"`
	Env   string `json:"env"` // local | dev | production | testing
	Debug bool   `json:"debug"`
}

type LogConfig struct {
	Level  string `json:"level"`  // debug | info | warn | error
	Format string `json:"format"` // json | console
}

// InspectConfig configures the container inspection server.
type InspectConfig struct {
	Addr string `json:"addr"`
}

// sections are the top-level keys environment variables may set,
// e.g. LOG_LEVEL → log.level.
var sections = []string{"app", "log", "inspect"}

var rules = validation.Rules{
	"app.name":     "required",
	"app.env":      "required|in:local,dev,production,testing",
	"log.level":    "required|in:debug,info,warn,error",
	"log.format":   "required|in:json,console",
	"inspect.addr": "required|hostport",
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "Moss",
			Env:  "local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Inspect: InspectConfig{
			Addr: ":8000",
		},
	}
}

// Load builds a Config from, in increasing precedence: defaults, the file at
// path (YAML or JSON, skipped when path is empty) and the environment.
// envFiles (default ".env") are loaded into the environment first; missing
// ones are ignored, malformed ones are an error and variables already set are
// never overridden.
//
//	cfg, err := config.Load("config.yaml")
func Load(path string, envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// .env may not exist in production
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// envKey maps APP_NAME to app.name. Variables outside the known sections and
// empty values are skipped.
func envKey(name, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	section, field, ok := strings.Cut(strings.ToLower(name), "_")
	if !ok || field == "" {
		return "", nil
	}
	for _, s := range sections {
		if s == section {
			return section + "." + field, value
		}
	}
	return "", nil
}

// Validate checks every field against its rule.
func (c *Config) Validate() error {
	v := validation.Make(c.flatten(), rules)
	if v.Fails() {
		return v.Errors()
	}
	return nil
}

func (c *Config) flatten() map[string]string {
	return map[string]string{
		"app.name":     c.App.Name,
		"app.env":      c.App.Env,
		"app.debug":    strconv.FormatBool(c.App.Debug),
		"log.level":    c.Log.Level,
		"log.format":   c.Log.Format,
		"inspect.addr": c.Inspect.Addr,
	}
}
