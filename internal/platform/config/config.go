package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	fileName  = "pmdrill"
	fileType  = "toml"
	envPrefix = "PMDRILL"

	keyCatalogPath     = "catalog_path"
	keyMaxDuration     = "session.max_duration"
	keyQuestionCount   = "session.question_count"
	keyRandomize       = "session.randomize"
	keyCoachPlugin     = "coach.plugin"
	keyCoachCacheSize  = "coach.cache_size"
	keyLogLevel        = "log.level"
	defaultMaxDuration = 45 * time.Minute
)

type Config struct {
	DataDir        string
	CatalogPath    string
	ActiveSession  string
	HistoryPath    string
	DBPath         string
	ExportDir      string
	PluginsDir     string
	LogPath        string
	LogLevel       string
	MaxDuration    time.Duration
	QuestionCount  int
	Randomize      bool
	CoachPlugin    string
	CoachCacheSize int
}

// fileSchema mirrors the on-disk pmdrill.toml layout.
type fileSchema struct {
	CatalogPath string        `toml:"catalog_path,omitempty"`
	Session     sessionSchema `toml:"session"`
	Coach       coachSchema   `toml:"coach"`
	Log         logSchema     `toml:"log"`
}

type sessionSchema struct {
	MaxDuration   string `toml:"max_duration"`
	QuestionCount int    `toml:"question_count"`
	Randomize     bool   `toml:"randomize"`
}

type coachSchema struct {
	Plugin    string `toml:"plugin"`
	CacheSize int    `toml:"cache_size"`
}

type logSchema struct {
	Level string `toml:"level"`
}

// DefaultDataDir resolves $PMDRILL_DATA_DIR, then $XDG_DATA_HOME/pmdrill or
// ~/.local/share/pmdrill.
func DefaultDataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(envPrefix + "_DATA_DIR")); dir != "" {
		return dir, nil
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "pmdrill"), nil
}

func New(dataDir string) (Config, error) {
	return Load(viper.New(), dataDir)
}

// Load reads pmdrill.toml from dataDir (if present) and PMDRILL_* environment
// overrides into v. A missing config file is not an error.
func Load(v *viper.Viper, dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	if v == nil {
		v = viper.New()
	}

	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(dataDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyCatalogPath, "")
	v.SetDefault(keyMaxDuration, defaultMaxDuration.String())
	v.SetDefault(keyQuestionCount, 5)
	v.SetDefault(keyRandomize, true)
	v.SetDefault(keyCoachPlugin, "coach")
	v.SetDefault(keyCoachCacheSize, 128)
	v.SetDefault(keyLogLevel, "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	maxDuration, err := time.ParseDuration(v.GetString(keyMaxDuration))
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", keyMaxDuration, err)
	}
	if maxDuration <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", keyMaxDuration)
	}
	count := v.GetInt(keyQuestionCount)
	if count < 1 {
		return Config{}, fmt.Errorf("%s must be at least 1", keyQuestionCount)
	}

	catalogPath := v.GetString(keyCatalogPath)
	if catalogPath != "" && !filepath.IsAbs(catalogPath) {
		catalogPath = filepath.Join(dataDir, catalogPath)
	}

	return Config{
		DataDir:        dataDir,
		CatalogPath:    catalogPath,
		ActiveSession:  filepath.Join(dataDir, "active-session.json"),
		HistoryPath:    filepath.Join(dataDir, "history.json"),
		DBPath:         filepath.Join(dataDir, "pmdrill.db"),
		ExportDir:      filepath.Join(dataDir, "exports"),
		PluginsDir:     filepath.Join(dataDir, "plugins"),
		LogPath:        filepath.Join(dataDir, "pmdrill.log"),
		LogLevel:       v.GetString(keyLogLevel),
		MaxDuration:    maxDuration,
		QuestionCount:  count,
		Randomize:      v.GetBool(keyRandomize),
		CoachPlugin:    v.GetString(keyCoachPlugin),
		CoachCacheSize: v.GetInt(keyCoachCacheSize),
	}, nil
}

// WriteDefault writes a default pmdrill.toml into dataDir.
// An existing file is left untouched unless overwrite is set.
func WriteDefault(dataDir string, overwrite bool) (string, error) {
	path := filepath.Join(dataDir, fileName+"."+fileType)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("config already exists: %s", path)
		}
	}
	payload, err := toml.Marshal(fileSchema{
		Session: sessionSchema{
			MaxDuration:   defaultMaxDuration.String(),
			QuestionCount: 5,
			Randomize:     true,
		},
		Coach: coachSchema{Plugin: "coach", CacheSize: 128},
		Log:   logSchema{Level: "info"},
	})
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
