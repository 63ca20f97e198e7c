package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

const (
	stateToken   = "token"
	stateTheme   = "theme"
	stateBaseURL = "base_url"
)

// State is the persisted client state: the auth token, the theme flag
// and the last API base URL used at login.
type State struct {
	v    *viper.Viper
	path string
}

func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "deskctl.yaml"
	}
	return filepath.Join(home, ".order-desk", "deskctl.yaml")
}

// LoadState reads path when it exists; a missing file is an empty state.
func LoadState(path string) (*State, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(stateTheme, models.ThemeLight)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading state file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return &State{v: v, path: path}, nil
}

func (s *State) Token() string   { return s.v.GetString(stateToken) }
func (s *State) Theme() string   { return s.v.GetString(stateTheme) }
func (s *State) BaseURL() string { return s.v.GetString(stateBaseURL) }

func (s *State) SetToken(token string)  { s.v.Set(stateToken, token) }
func (s *State) SetBaseURL(url string) { s.v.Set(stateBaseURL, url) }

func (s *State) SetTheme(theme string) error {
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return fmt.Errorf("theme must be %s or %s", models.ThemeLight, models.ThemeDark)
	}
	s.v.Set(stateTheme, theme)
	return nil
}

func (s *State) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing state file %s: %w", s.path, err)
	}
	return os.Chmod(s.path, 0o600)
}
