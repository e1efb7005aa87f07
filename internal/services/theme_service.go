package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/connectiq/connectiq-tui/internal/config"
)

// themeKey is the persisted preference key for the theme choice
const themeKey = "connectiq_theme"

// Theme names understood by the client
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ThemeServiceImpl implements ThemeService
type ThemeServiceImpl struct {
	mu        sync.Mutex
	kv        KeyValue
	loader    *config.ThemeLoader
	logger    *log.Logger
	applyFunc func(*config.ColorsConfig) error
}

// NewThemeService creates a new theme service
func NewThemeService(kv KeyValue, themesDir string, logger *log.Logger) *ThemeServiceImpl {
	return &ThemeServiceImpl{
		kv:     kv,
		loader: config.NewThemeLoader(themesDir),
		logger: logger,
	}
}

// SetApplyFunc registers the function that pushes colors into the UI
func (s *ThemeServiceImpl) SetApplyFunc(fn func(*config.ColorsConfig) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyFunc = fn
}

// Current returns the persisted theme choice, defaulting to dark
func (s *ThemeServiceImpl) Current(ctx context.Context) string {
	if s.kv == nil {
		return ThemeDark
	}
	val, ok, err := s.kv.Get(ctx, themeKey)
	if err != nil || !ok {
		return ThemeDark
	}
	if val == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Colors resolves the color configuration for the current theme, preferring a
// yaml definition and falling back to the built-in palette
func (s *ThemeServiceImpl) Colors(ctx context.Context) *config.ColorsConfig {
	name := "connectiq-" + s.Current(ctx)
	return s.loader.LoadTheme(name)
}

// Toggle flips between dark and light, persists the choice immediately and
// re-applies colors to the UI. Returns the new theme name.
func (s *ThemeServiceImpl) Toggle(ctx context.Context) (string, error) {
	next := ThemeDark
	if s.Current(ctx) == ThemeDark {
		next = ThemeLight
	}
	if s.kv == nil {
		return "", ErrStoreUnavailable
	}
	if err := s.kv.Set(ctx, themeKey, next); err != nil {
		return "", fmt.Errorf("persist theme: %w", err)
	}

	s.mu.Lock()
	apply := s.applyFunc
	s.mu.Unlock()
	if apply != nil {
		if err := apply(s.loader.LoadTheme("connectiq-" + next)); err != nil {
			if s.logger != nil {
				s.logger.Printf("theme: apply %s: %v", next, err)
			}
			return next, err
		}
	}
	return next, nil
}
