package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/user/tubevibes/internal/model"
)

// DefaultSiteName is shown until an admin sets one
const DefaultSiteName = "TubeVibes"

// ErrInvalidGTMID is returned for container ids not shaped like GTM-XXXXXX
var ErrInvalidGTMID = errors.New("invalid GTM container id")

var gtmIDPattern = regexp.MustCompile(`^GTM-[A-Z0-9]+$`)

// Site is the resolved site customization
type Site struct {
	SiteName       string `json:"siteName"`
	CustomLogo     string `json:"customLogo,omitempty"`
	GTMID          string `json:"gtmId,omitempty"`
	CustomHeadCode string `json:"customHeadCode,omitempty"`
}

// Service reads and writes site settings
type Service struct {
	store Store
}

// NewService creates a settings service over store
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Site returns the current settings with defaults applied
func (s *Service) Site(ctx context.Context) (Site, error) {
	values, err := s.store.All(ctx)
	if err != nil {
		return Site{}, fmt.Errorf("failed to load settings: %w", err)
	}

	site := Site{
		SiteName:       values[model.SettingSiteName],
		CustomLogo:     values[model.SettingCustomLogo],
		GTMID:          values[model.SettingGTMID],
		CustomHeadCode: values[model.SettingCustomHeadCode],
	}
	if site.SiteName == "" {
		site.SiteName = DefaultSiteName
	}
	return site, nil
}

// Head renders the head fragments for the current settings
func (s *Service) Head(ctx context.Context) (Site, HeadFragments, error) {
	site, err := s.Site(ctx)
	if err != nil {
		return Site{}, HeadFragments{}, err
	}
	frag, err := RenderHead(site)
	if err != nil {
		return Site{}, HeadFragments{}, err
	}
	return site, frag, nil
}

// SetSiteName stores the site name; blank restores the default
func (s *Service) SetSiteName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.remove(ctx, model.SettingSiteName)
	}
	return s.set(ctx, model.SettingSiteName, name)
}

// SetGTM stores a GTM container id; blank removes tracking
func (s *Service) SetGTM(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return s.remove(ctx, model.SettingGTMID)
	}
	if !gtmIDPattern.MatchString(id) {
		return fmt.Errorf("failed to set GTM id %q: %w", id, ErrInvalidGTMID)
	}
	return s.set(ctx, model.SettingGTMID, id)
}

// SetHeadCode stores sanitized custom head code and returns what was kept
func (s *Service) SetHeadCode(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", s.remove(ctx, model.SettingCustomHeadCode)
	}
	clean, err := SanitizeHeadCode(code)
	if err != nil {
		return "", err
	}
	if clean == "" {
		return "", s.remove(ctx, model.SettingCustomHeadCode)
	}
	return clean, s.set(ctx, model.SettingCustomHeadCode, clean)
}

// SetLogo stores the logo URL and returns the previous one, if any
func (s *Service) SetLogo(ctx context.Context, url string) (string, error) {
	prev, _, err := s.store.Get(ctx, model.SettingCustomLogo)
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	if err := s.set(ctx, model.SettingCustomLogo, url); err != nil {
		return "", err
	}
	return prev, nil
}

// RemoveLogo clears the logo and returns the removed URL, if any
func (s *Service) RemoveLogo(ctx context.Context) (string, error) {
	prev, _, err := s.store.Get(ctx, model.SettingCustomLogo)
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	if err := s.remove(ctx, model.SettingCustomLogo); err != nil {
		return "", err
	}
	return prev, nil
}

// Logo returns the current logo URL, or "" when none is set
func (s *Service) Logo(ctx context.Context) (string, error) {
	v, _, err := s.store.Get(ctx, model.SettingCustomLogo)
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	return v, nil
}

func (s *Service) set(ctx context.Context, key model.SettingKey, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	log.Info().Str("key", string(key)).Msg("Setting updated")
	return nil
}

func (s *Service) remove(ctx context.Context, key model.SettingKey) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove setting: %w", err)
	}
	log.Info().Str("key", string(key)).Msg("Setting removed")
	return nil
}
