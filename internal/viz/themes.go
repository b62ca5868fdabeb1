package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the explorer.
type Theme struct {
	Name   string
	Rays   lipgloss.Color
	Beam   lipgloss.Color
	Axis   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Error  lipgloss.Color
}

var (
	ThemeBench = Theme{
		Name:   "bench",
		Rays:   lipgloss.Color("#00ffff"),
		Beam:   lipgloss.Color("#ff00ff"),
		Axis:   lipgloss.Color("#444466"),
		Accent: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
		Error:  lipgloss.Color("#ff4444"),
	}

	// Red HeNe rays with green highlights.
	ThemeHeNe = Theme{
		Name:   "hene",
		Rays:   lipgloss.Color("#ff3030"),
		Beam:   lipgloss.Color("#ff9090"),
		Axis:   lipgloss.Color("#553333"),
		Accent: lipgloss.Color("#00ff00"),
		Text:   lipgloss.Color("#ffe0e0"),
		Muted:  lipgloss.Color("#885555"),
		Error:  lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Rays:   lipgloss.Color("#ffffff"),
		Beam:   lipgloss.Color("#aaaaaa"),
		Axis:   lipgloss.Color("#555555"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Error:  lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeBench, ThemeHeNe, ThemeMinimal}
)

// GetTheme returns the named theme, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
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
