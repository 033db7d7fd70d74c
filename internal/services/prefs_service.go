package services

import (
	"context"

	"thriftshop/internal/repos"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeSepia Theme = "sepia"
)

// Next is the theme the switcher moves to.
func (t Theme) Next() Theme {
	switch t {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeSepia
	default:
		return ThemeLight
	}
}

// PrefsService stores the theme choice and one-time banner dismissals.
type PrefsService struct {
	KV    repos.KV
	locks stripes
}

func NewPrefsService(kv repos.KV) *PrefsService { return &PrefsService{KV: kv} }

func (s *PrefsService) Theme(ctx context.Context, sessionID string) (Theme, error) {
	t := ThemeLight
	if _, err := repos.GetJSON(ctx, s.KV, NSTheme, sessionID, &t); err != nil {
		return ThemeLight, err
	}
	switch t {
	case ThemeLight, ThemeDark, ThemeSepia:
		return t, nil
	}
	return ThemeLight, nil
}

func (s *PrefsService) CycleTheme(ctx context.Context, sessionID string) (Theme, error) {
	defer s.locks.lock(sessionID)()
	t, err := s.Theme(ctx, sessionID)
	if err != nil {
		return t, err
	}
	next := t.Next()
	return next, repos.PutJSON(ctx, s.KV, NSTheme, sessionID, next)
}

func (s *PrefsService) Banners(ctx context.Context, sessionID string) (map[string]bool, error) {
	flags := map[string]bool{}
	if _, err := repos.GetJSON(ctx, s.KV, NSBanner, sessionID, &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

func (s *PrefsService) DismissBanner(ctx context.Context, sessionID, name string) error {
	defer s.locks.lock(sessionID)()
	flags, err := s.Banners(ctx, sessionID)
	if err != nil {
		return err
	}
	if flags[name] {
		return nil
	}
	flags[name] = true
	return repos.PutJSON(ctx, s.KV, NSBanner, sessionID, flags)
}
