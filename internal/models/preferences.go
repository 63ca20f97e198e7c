package models

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences is the per-operator panel state: the theme flag and
// whether the navigation drawer is collapsed.
type Preferences struct {
	UserID       int    `json:"-"`
	Theme        string `json:"theme"`
	NavCollapsed bool   `json:"nav_collapsed"`
}

func DefaultPreferences(userID int) Preferences {
	return Preferences{UserID: userID, Theme: ThemeLight}
}
