// Package theme holds the color palettes of the rateio dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps color roles to concrete colors.
type Theme struct {
	Name          string
	Background    lipgloss.Color // app background
	Surface       lipgloss.Color // cards and panels
	SurfaceHover  lipgloss.Color // active tab, selected row
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderBright  lipgloss.Color
	BorderAccent  lipgloss.Color // focused card
	TextDim       lipgloss.Color // hints, empty bar segments
	TextMuted     lipgloss.Color // labels
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color
	AccentDim     lipgloss.Color
	Green         lipgloss.Color // BRL amounts, success
	GreenBright   lipgloss.Color
	Orange        lipgloss.Color // warnings, large shares
	Red           lipgloss.Color
	Blue          lipgloss.Color // USD amounts
	BlueBright    lipgloss.Color
	Yellow        lipgloss.Color
	Magenta       lipgloss.Color
	Cyan          lipgloss.Color
}

// Default is the theme name used when none is configured.
const Default = "flexoki-dark"

// Active is the theme every renderer reads from.
var Active = FlexokiDark

// FlexokiDark is the default warm dark palette.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderBright:  lipgloss.Color("#575653"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	AccentDim:     lipgloss.Color("#1A3533"),
	Green:         lipgloss.Color("#879A39"),
	GreenBright:   lipgloss.Color("#A3B859"),
	Orange:        lipgloss.Color("#DA702C"),
	Red:           lipgloss.Color("#D14D41"),
	Blue:          lipgloss.Color("#4385BE"),
	BlueBright:    lipgloss.Color("#6BA3D6"),
	Yellow:        lipgloss.Color("#D0A215"),
	Magenta:       lipgloss.Color("#CE5D97"),
	Cyan:          lipgloss.Color("#24837B"),
}

// FlexokiLight is the paper-colored counterpart of FlexokiDark.
var FlexokiLight = Theme{
	Name:          "flexoki-light",
	Background:    lipgloss.Color("#FFFCF0"),
	Surface:       lipgloss.Color("#F2F0E5"),
	SurfaceHover:  lipgloss.Color("#E6E4D9"),
	SurfaceBright: lipgloss.Color("#DAD8CE"),
	Border:        lipgloss.Color("#CECDC3"),
	BorderBright:  lipgloss.Color("#B7B5AC"),
	BorderAccent:  lipgloss.Color("#24837B"),
	TextDim:       lipgloss.Color("#B7B5AC"),
	TextMuted:     lipgloss.Color("#6F6E69"),
	TextPrimary:   lipgloss.Color("#100F0F"),
	Accent:        lipgloss.Color("#24837B"),
	AccentBright:  lipgloss.Color("#3AA99F"),
	AccentDim:     lipgloss.Color("#DDF1E4"),
	Green:         lipgloss.Color("#66800B"),
	GreenBright:   lipgloss.Color("#879A39"),
	Orange:        lipgloss.Color("#BC5215"),
	Red:           lipgloss.Color("#AF3029"),
	Blue:          lipgloss.Color("#205EA6"),
	BlueBright:    lipgloss.Color("#4385BE"),
	Yellow:        lipgloss.Color("#AD8301"),
	Magenta:       lipgloss.Color("#A02F6F"),
	Cyan:          lipgloss.Color("#24837B"),
}

// GruvboxDark is a retro, high-warmth palette.
var GruvboxDark = Theme{
	Name:          "gruvbox-dark",
	Background:    lipgloss.Color("#1D2021"),
	Surface:       lipgloss.Color("#282828"),
	SurfaceHover:  lipgloss.Color("#3C3836"),
	SurfaceBright: lipgloss.Color("#504945"),
	Border:        lipgloss.Color("#504945"),
	BorderBright:  lipgloss.Color("#665C54"),
	BorderAccent:  lipgloss.Color("#8EC07C"),
	TextDim:       lipgloss.Color("#665C54"),
	TextMuted:     lipgloss.Color("#A89984"),
	TextPrimary:   lipgloss.Color("#EBDBB2"),
	Accent:        lipgloss.Color("#8EC07C"),
	AccentBright:  lipgloss.Color("#B8E0A8"),
	AccentDim:     lipgloss.Color("#32402F"),
	Green:         lipgloss.Color("#98971A"),
	GreenBright:   lipgloss.Color("#B8BB26"),
	Orange:        lipgloss.Color("#FE8019"),
	Red:           lipgloss.Color("#FB4934"),
	Blue:          lipgloss.Color("#83A598"),
	BlueBright:    lipgloss.Color("#A3C5B8"),
	Yellow:        lipgloss.Color("#FABD2F"),
	Magenta:       lipgloss.Color("#D3869B"),
	Cyan:          lipgloss.Color("#689D6A"),
}

// Terminal sticks to the ANSI 16 colors.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderBright:  lipgloss.Color("7"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	AccentDim:     lipgloss.Color("0"),
	Green:         lipgloss.Color("2"),
	GreenBright:   lipgloss.Color("10"),
	Orange:        lipgloss.Color("3"),
	Red:           lipgloss.Color("1"),
	Blue:          lipgloss.Color("4"),
	BlueBright:    lipgloss.Color("12"),
	Yellow:        lipgloss.Color("11"),
	Magenta:       lipgloss.Color("5"),
	Cyan:          lipgloss.Color("6"),
}

// All lists the selectable themes in display order.
var All = []Theme{FlexokiDark, FlexokiLight, GruvboxDark, Terminal}

// Names returns the names of All.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Lookup finds a theme by name.
func Lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// ByName returns the named theme, falling back to FlexokiDark.
func ByName(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return FlexokiDark
}

// SetActive switches Active to the named theme and reports whether the name
// was known. Unknown names leave Active unchanged.
func SetActive(name string) bool {
	t, ok := Lookup(name)
	if ok {
		Active = t
	}
	return ok
}
