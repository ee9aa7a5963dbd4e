package ui

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TableHeaderFg    tcell.Color
	TableCursorFg    tcell.Color
	TableCursorBg    tcell.Color
	UnreadColor      tcell.Color
	AvatarColor      tcell.Color
	TitleColor       tcell.Color
	PromptColor      tcell.Color
}

// DarkTheme is the default palette.
func DarkTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorCadetBlue,
		BorderColor:      tcell.ColorDodgerBlue,
		BorderFocusColor: tcell.ColorLightSkyBlue,
		TableHeaderFg:    tcell.ColorWhite,
		TableCursorFg:    tcell.ColorBlack,
		TableCursorBg:    tcell.ColorAqua,
		UnreadColor:      tcell.ColorOrange,
		AvatarColor:      tcell.ColorFuchsia,
		TitleColor:       tcell.ColorFuchsia,
		PromptColor:      tcell.ColorDodgerBlue,
	}
}

// LightTheme is used when the user picks the light theme.
func LightTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorWhite,
		FgColor:          tcell.ColorDarkSlateGray,
		BorderColor:      tcell.ColorSteelBlue,
		BorderFocusColor: tcell.ColorNavy,
		TableHeaderFg:    tcell.ColorBlack,
		TableCursorFg:    tcell.ColorWhite,
		TableCursorBg:    tcell.ColorSteelBlue,
		UnreadColor:      tcell.ColorDarkOrange,
		AvatarColor:      tcell.ColorPurple,
		TitleColor:       tcell.ColorPurple,
		PromptColor:      tcell.ColorSteelBlue,
	}
}

// ThemeFor maps a settings theme name to a palette. Anything but "light"
// gets the dark palette since terminals rarely report their background.
func ThemeFor(name string) *Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}
