package config

import (
	"fmt"

	"github.com/derailed/tcell/v2"
)

// Color represents a color in the application
type Color string

const (
	// DefaultColor represents a default color
	DefaultColor Color = "default"

	// TransparentColor represents the terminal bg color
	TransparentColor Color = "-"
)

// NewColor returns a new color
func NewColor(c string) Color {
	return Color(c)
}

// String returns color as string
func (c Color) String() string {
	if c.isHex() {
		return string(c)
	}
	if c == DefaultColor {
		return "-"
	}
	col := c.Color().TrueColor().Hex()
	if col < 0 {
		return "-"
	}
	return fmt.Sprintf("#%06x", col)
}

func (c Color) isHex() bool {
	return len(c) == 7 && c[0] == '#'
}

// Color returns a view color
func (c Color) Color() tcell.Color {
	if c == DefaultColor {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c)).TrueColor()
}

// BodyColors defines colors for body elements
type BodyColors struct {
	FgColor   Color `yaml:"fgColor"`
	BgColor   Color `yaml:"bgColor"`
	LogoColor Color `yaml:"logoColor"`
}

// FrameColors defines colors for UI frame elements
type FrameColors struct {
	Border struct {
		FgColor    Color `yaml:"fgColor"`
		FocusColor Color `yaml:"focusColor"`
	} `yaml:"border"`
	Title struct {
		FgColor        Color `yaml:"fgColor"`
		BgColor        Color `yaml:"bgColor"`
		HighlightColor Color `yaml:"highlightColor"`
		CounterColor   Color `yaml:"counterColor"`
		FilterColor    Color `yaml:"filterColor"`
	} `yaml:"title"`
}

// ListColors defines colors for the results list
type ListColors struct {
	FgColor       Color `yaml:"fgColor"`
	BgColor       Color `yaml:"bgColor"`
	SelectedFg    Color `yaml:"selectedFg"`
	SelectedBg    Color `yaml:"selectedBg"`
	SavedColor    Color `yaml:"savedColor"`
	TriggerColor  Color `yaml:"triggerColor"`
	HeaderFgColor Color `yaml:"headerFgColor"`
}

// ScoreColors defines colors for opportunity score bands
type ScoreColors struct {
	StrongColor   Color `yaml:"strongColor"`
	ModerateColor Color `yaml:"moderateColor"`
	NeutralColor  Color `yaml:"neutralColor"`
}

// StatusColors defines colors for status and flash messages
type StatusColors struct {
	InfoColor    Color `yaml:"infoColor"`
	SuccessColor Color `yaml:"successColor"`
	WarningColor Color `yaml:"warningColor"`
	ErrorColor   Color `yaml:"errorColor"`
}

// ColorsConfig defines the complete color configuration
type ColorsConfig struct {
	Body   BodyColors   `yaml:"body"`
	Frame  FrameColors  `yaml:"frame"`
	List   ListColors   `yaml:"list"`
	Score  ScoreColors  `yaml:"score"`
	Status StatusColors `yaml:"status"`
}

// DefaultDarkColors returns the built-in dark color configuration
func DefaultDarkColors() *ColorsConfig {
	c := &ColorsConfig{
		Body: BodyColors{
			FgColor:   NewColor("#f8f8f2"),
			BgColor:   NewColor("#282a36"),
			LogoColor: NewColor("#bd93f9"),
		},
		List: ListColors{
			FgColor:       NewColor("#f8f8f2"),
			BgColor:       NewColor("#282a36"),
			SelectedFg:    NewColor("#282a36"),
			SelectedBg:    NewColor("#8be9fd"),
			SavedColor:    NewColor("#ffb86c"),
			TriggerColor:  NewColor("#8be9fd"),
			HeaderFgColor: NewColor("#50fa7b"),
		},
		Score: ScoreColors{
			StrongColor:   NewColor("#50fa7b"),
			ModerateColor: NewColor("#f1fa8c"),
			NeutralColor:  NewColor("#6272a4"),
		},
		Status: StatusColors{
			InfoColor:    NewColor("#8be9fd"),
			SuccessColor: NewColor("#50fa7b"),
			WarningColor: NewColor("#ffb86c"),
			ErrorColor:   NewColor("#ff5555"),
		},
	}
	c.Frame.Border.FgColor = NewColor("#44475a")
	c.Frame.Border.FocusColor = NewColor("#6272a4")
	c.Frame.Title.FgColor = NewColor("#f8f8f2")
	c.Frame.Title.BgColor = NewColor("#282a36")
	c.Frame.Title.HighlightColor = NewColor("#f1fa8c")
	c.Frame.Title.CounterColor = NewColor("#50fa7b")
	c.Frame.Title.FilterColor = NewColor("#8be9fd")
	return c
}

// DefaultLightColors returns the built-in light color configuration
func DefaultLightColors() *ColorsConfig {
	c := &ColorsConfig{
		Body: BodyColors{
			FgColor:   NewColor("#282a36"),
			BgColor:   NewColor("#f8f8f2"),
			LogoColor: NewColor("#7c3aed"),
		},
		List: ListColors{
			FgColor:       NewColor("#282a36"),
			BgColor:       NewColor("#f8f8f2"),
			SelectedFg:    NewColor("#f8f8f2"),
			SelectedBg:    NewColor("#2563eb"),
			SavedColor:    NewColor("#b45309"),
			TriggerColor:  NewColor("#2563eb"),
			HeaderFgColor: NewColor("#15803d"),
		},
		Score: ScoreColors{
			StrongColor:   NewColor("#15803d"),
			ModerateColor: NewColor("#a16207"),
			NeutralColor:  NewColor("#6b7280"),
		},
		Status: StatusColors{
			InfoColor:    NewColor("#2563eb"),
			SuccessColor: NewColor("#15803d"),
			WarningColor: NewColor("#b45309"),
			ErrorColor:   NewColor("#dc2626"),
		},
	}
	c.Frame.Border.FgColor = NewColor("#d1d5db")
	c.Frame.Border.FocusColor = NewColor("#2563eb")
	c.Frame.Title.FgColor = NewColor("#282a36")
	c.Frame.Title.BgColor = NewColor("#f8f8f2")
	c.Frame.Title.HighlightColor = NewColor("#a16207")
	c.Frame.Title.CounterColor = NewColor("#15803d")
	c.Frame.Title.FilterColor = NewColor("#2563eb")
	return c
}

// DefaultColorsFor maps a theme name to its built-in colors
func DefaultColorsFor(theme string) *ColorsConfig {
	if theme == "connectiq-light" {
		return DefaultLightColors()
	}
	return DefaultDarkColors()
}
