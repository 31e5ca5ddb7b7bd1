package ui

import (
	"sort"

	tint "github.com/lrstanley/bubbletint"
)

// DefaultTheme is used when the configured theme is empty or unknown
const DefaultTheme = "dracula"

// ThemeProvider holds the bubbletint registry the timesheet browser is colored from
type ThemeProvider struct {
	registry *tint.Registry
}

// NewThemeProvider selects name from the built-in tints.
// An empty or unknown name leaves DefaultTheme selected.
func NewThemeProvider(name string) *ThemeProvider {
	tints := tint.DefaultTints()

	fallback := findTint(tints, DefaultTheme)
	if fallback == nil && len(tints) > 0 {
		fallback = tints[0]
	}

	registry := tint.NewRegistry(fallback, tints...)
	if name != "" {
		registry.SetTintID(name)
	}
	return &ThemeProvider{registry: registry}
}

func findTint(tints []tint.Tint, id string) tint.Tint {
	for _, t := range tints {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// SetTheme reports whether name was known
func (tp *ThemeProvider) SetTheme(name string) bool {
	return tp.registry.SetTintID(name)
}

// NextTheme advances to the next tint and returns its id
func (tp *ThemeProvider) NextTheme() string {
	tp.registry.NextTint()
	return tp.registry.ID()
}

// PreviousTheme steps back one tint and returns its id
func (tp *ThemeProvider) PreviousTheme() string {
	tp.registry.PreviousTint()
	return tp.registry.ID()
}

// CurrentName returns the active tint id, the value accepted by SetTheme
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

func (tp *ThemeProvider) CurrentDisplayName() string {
	return tp.registry.DisplayName()
}

// AvailableThemes lists every tint id in sorted order
func (tp *ThemeProvider) AvailableThemes() []string {
	ids := tp.registry.TintIDs()
	sort.Strings(ids)
	return ids
}

// Styles derives the browser styles from the current tint
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
