package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view. Bright is used for normal objects, Dim for
// ghosted ones.
type Theme struct {
	Name   string
	Bright lipgloss.Color
	Dim    lipgloss.Color
	Accent lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Bright: lipgloss.Color("#00ffff"),
		Dim:    lipgloss.Color("#443355"),
		Accent: lipgloss.Color("#ff00ff"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Bright: lipgloss.Color("#00ff00"),
		Dim:    lipgloss.Color("#005500"),
		Accent: lipgloss.Color("#88ff88"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Bright: lipgloss.Color("#6495ed"),
		Dim:    lipgloss.Color("#224466"),
		Accent: lipgloss.Color("#ffd700"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) styles() (bright, dim lipgloss.Style) {
	return lipgloss.NewStyle().Foreground(t.Bright), lipgloss.NewStyle().Foreground(t.Dim)
}
