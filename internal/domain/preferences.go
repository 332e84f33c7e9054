package domain

// Theme values accepted for the theme preference
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences is the fully resolved preference set returned to clients
type Preferences struct {
	Theme              string `json:"theme"`
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
}

// DefaultPreferences are applied beneath whatever the user has stored
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              ThemeLight,
		EmailNotifications: true,
		PushNotifications:  false,
	}
}

// PreferenceSet is a sparse set of preferences; nil fields are unset.
// It is both the stored form and the shape of a partial update.
type PreferenceSet struct {
	Theme              *string `json:"theme,omitempty"`
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
	PushNotifications  *bool   `json:"push_notifications,omitempty"`
}

// Merge returns a copy of s with every field set in patch overriding it
func (s PreferenceSet) Merge(patch PreferenceSet) PreferenceSet {
	out := s
	if patch.Theme != nil {
		v := *patch.Theme
		out.Theme = &v
	}
	if patch.EmailNotifications != nil {
		v := *patch.EmailNotifications
		out.EmailNotifications = &v
	}
	if patch.PushNotifications != nil {
		v := *patch.PushNotifications
		out.PushNotifications = &v
	}
	return out
}

// Resolve fills every unset field from DefaultPreferences
func (s PreferenceSet) Resolve() Preferences {
	p := DefaultPreferences()
	if s.Theme != nil {
		p.Theme = *s.Theme
	}
	if s.EmailNotifications != nil {
		p.EmailNotifications = *s.EmailNotifications
	}
	if s.PushNotifications != nil {
		p.PushNotifications = *s.PushNotifications
	}
	return p
}

// IsValidTheme reports whether theme is one of the supported values
func IsValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}
