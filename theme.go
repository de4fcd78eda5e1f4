package cockpit

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg   int // user message accent
	Assistant int // assistant label and agent badge
	Error     int // error banners
	Success   int // success banners
	Info      int // informational banners and nudges
	Muted     int // status bar, timestamps, placeholders
	CodeBg    int // code block background
	Accent    int // headings, links, selected sidebar row
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Assistant: 5,
		Error:     1,
		Success:   2,
		Info:      6,
		Muted:     8,
		CodeBg:    0,
		Accent:    5,
	}
}
