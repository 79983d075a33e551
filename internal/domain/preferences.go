package domain

import (
	"slices"
	"strings"
)

// Language is a supported interface language.
type Language string

// Supported languages. Japanese is the default.
const (
	LanguageJapanese Language = "ja"
	LanguageEnglish  Language = "en"
	LanguageChinese  Language = "zh"
)

var supportedLanguages = []Language{LanguageJapanese, LanguageEnglish, LanguageChinese}

// Languages returns the supported languages in cycle order.
func Languages() []Language {
	return slices.Clone(supportedLanguages)
}

// ParseLanguage validates a language code.
func ParseLanguage(raw string) (Language, error) {
	lang := Language(strings.TrimSpace(strings.ToLower(raw)))
	if !slices.Contains(supportedLanguages, lang) {
		return "", ErrInvalidLanguage
	}
	return lang, nil
}

// Next returns the following language in cycle order.
func (l Language) Next() Language {
	idx := slices.Index(supportedLanguages, l)
	return supportedLanguages[(idx+1)%len(supportedLanguages)]
}

// Theme is the board color scheme.
type Theme string

// Theme values. Light is the default.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(raw string) (Theme, error) {
	switch Theme(strings.TrimSpace(strings.ToLower(raw))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", ErrInvalidTheme
	}
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences holds per-user presentation settings.
type Preferences struct {
	Language Language
	Theme    Theme
}

// DefaultPreferences returns the startup preferences when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{Language: LanguageJapanese, Theme: ThemeLight}
}
