package models

import "time"

// Theme is the console display theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether the theme is one of the supported values.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// BodyClass is the global presentation attribute applied for the theme.
func (t Theme) BodyClass() string {
	if t == ThemeDark {
		return "dark-mode"
	}
	return "light-mode"
}

// Persistent setting keys.
const (
	SettingToken        = "token"
	SettingSelectedTerm = "selectedTerm"
	SettingTheme        = "theme"
)

// ConsoleSettings is the snapshot of user-configurable settings.
type ConsoleSettings struct {
	Theme     Theme  `json:"theme"`
	BodyClass string `json:"body_class"`
	Term      string `json:"selected_term"`
	HasToken  bool   `json:"has_token"`
}

// SettingEntry represents a persisted key/value setting row.
type SettingEntry struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
