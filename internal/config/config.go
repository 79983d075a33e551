package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/hylla/tavla/internal/domain"
	"github.com/hylla/tavla/internal/i18n"
)

// LanguageAuto resolves the interface language from the environment locale.
const LanguageAuto = "auto"

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Board    BoardConfig    `toml:"board"`
	UI       UIConfig       `toml:"ui"`
	Keys     KeyConfig      `toml:"keys"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type BoardConfig struct {
	DefaultStatus   string `toml:"default_status"`
	ShowProgress    bool   `toml:"show_progress"`
	ShowLabels      bool   `toml:"show_labels"`
	ShowDescription bool   `toml:"show_description"`
}

type UIConfig struct {
	Language           string `toml:"language"` // auto | ja | en | zh
	Theme              string `toml:"theme"`
	CelebrationSeconds int    `toml:"celebration_seconds"`
	DeleteFadeMillis   int    `toml:"delete_fade_ms"`
}

// KeyConfig holds TUI key overrides. Blank values keep the defaults.
type KeyConfig struct {
	AddTask     string `toml:"add_task"`
	DeleteTask  string `toml:"delete_task"`
	CopyText    string `toml:"copy_text"`
	ActivityLog string `toml:"activity_log"`
	Language    string `toml:"language"`
	Theme       string `toml:"theme"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty uses the platform log dir
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Board: BoardConfig{
			DefaultStatus:   string(domain.StatusNotStarted),
			ShowProgress:    true,
			ShowLabels:      true,
			ShowDescription: false,
		},
		UI: UIConfig{
			Language:           LanguageAuto,
			Theme:              string(domain.ThemeLight),
			CelebrationSeconds: 3,
			DeleteFadeMillis:   300,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if _, err := domain.ParseStatus(c.Board.DefaultStatus); err != nil {
		return fmt.Errorf("invalid board.default_status: %q", c.Board.DefaultStatus)
	}

	lang := strings.TrimSpace(strings.ToLower(c.UI.Language))
	if lang != "" && lang != LanguageAuto {
		if _, err := domain.ParseLanguage(lang); err != nil {
			return fmt.Errorf("invalid ui.language: %q", c.UI.Language)
		}
	}
	if _, err := domain.ParseTheme(c.UI.Theme); err != nil {
		return fmt.Errorf("invalid ui.theme: %q", c.UI.Theme)
	}
	if c.UI.CelebrationSeconds < 0 {
		return errors.New("ui.celebration_seconds must be >= 0")
	}
	if c.UI.DeleteFadeMillis < 0 {
		return errors.New("ui.delete_fade_ms must be >= 0")
	}

	if err := c.Keys.validate(); err != nil {
		return err
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

// DefaultStatus returns the parsed board.default_status, falling back to not_started.
func (c Config) DefaultStatus() domain.Status {
	status, err := domain.ParseStatus(c.Board.DefaultStatus)
	if err != nil {
		return domain.StatusNotStarted
	}
	return status
}

// Preferences returns the startup language and theme. A language of "auto" is
// matched against locale, typically the LANG environment variable.
func (c Config) Preferences(locale string) domain.Preferences {
	prefs := domain.DefaultPreferences()
	lang := strings.TrimSpace(strings.ToLower(c.UI.Language))
	if lang == "" || lang == LanguageAuto {
		prefs.Language = i18n.Match(locale)
	} else if parsed, err := domain.ParseLanguage(lang); err == nil {
		prefs.Language = parsed
	}
	if theme, err := domain.ParseTheme(c.UI.Theme); err == nil {
		prefs.Theme = theme
	}
	return prefs
}

// CelebrationDuration returns how long the completion overlay stays up.
func (c Config) CelebrationDuration() time.Duration {
	return time.Duration(c.UI.CelebrationSeconds) * time.Second
}

// DeleteFade returns the cosmetic delay before a deleted task disappears.
func (c Config) DeleteFade() time.Duration {
	return time.Duration(c.UI.DeleteFadeMillis) * time.Millisecond
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteDefault writes cfg to path unless a file already exists there.
// It reports whether a file was written.
func WriteDefault(path string, cfg Config) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, errors.New("config path is required")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	if err := EnsureConfigDir(path); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

// validate rejects key overrides that collide with each other.
func (k KeyConfig) validate() error {
	seen := map[string]string{}
	for name, raw := range map[string]string{
		"keys.add_task":     k.AddTask,
		"keys.delete_task":  k.DeleteTask,
		"keys.copy_text":    k.CopyText,
		"keys.activity_log": k.ActivityLog,
		"keys.language":     k.Language,
		"keys.theme":        k.Theme,
	} {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if other, ok := seen[value]; ok {
			first, second := other, name
			if second < first {
				first, second = second, first
			}
			return fmt.Errorf("%s and %s both bind %q", first, second, value)
		}
		seen[value] = name
	}
	return nil
}
