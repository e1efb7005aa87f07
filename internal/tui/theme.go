package tui

import (
	"github.com/connectiq/connectiq-tui/internal/config"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// applyStyles pushes the current palette into tview's global styles. Must run
// before the first draw.
func (a *App) applyStyles() {
	c := a.colors
	tview.Styles.PrimitiveBackgroundColor = c.Body.BgColor.Color()
	tview.Styles.ContrastBackgroundColor = c.Body.BgColor.Color()
	tview.Styles.PrimaryTextColor = c.Body.FgColor.Color()
	tview.Styles.BorderColor = c.Frame.Border.FgColor.Color()
	tview.Styles.FocusColor = c.Frame.Border.FocusColor.Color()
	tview.Styles.TitleColor = c.Frame.Title.FgColor.Color()
}

// applyColors is registered with the theme service; it restyles live views
// when the theme toggles
func (a *App) applyColors(c *config.ColorsConfig) error {
	a.mu.Lock()
	a.colors = c
	a.mu.Unlock()

	a.applyStyles()

	for _, v := range []*tview.TextView{a.detailView, a.statusView, a.authStatus} {
		if v != nil {
			v.SetBackgroundColor(c.Body.BgColor.Color())
			v.SetTextColor(c.Body.FgColor.Color())
		}
	}
	if a.resultsList != nil {
		a.resultsList.SetBackgroundColor(c.List.BgColor.Color())
		a.resultsList.SetSelectedStyle(a.selectedStyle())
	}
	if a.intentInput != nil {
		a.intentInput.SetFieldBackgroundColor(c.Body.BgColor.Color())
		a.intentInput.SetFieldTextColor(c.Body.FgColor.Color())
		a.intentInput.SetBackgroundColor(c.Body.BgColor.Color())
	}
	if a.authForm != nil {
		a.authForm.SetBackgroundColor(c.Body.BgColor.Color())
		a.authForm.SetFieldBackgroundColor(c.Frame.Border.FgColor.Color())
		a.authForm.SetButtonBackgroundColor(c.Frame.Border.FocusColor.Color())
		a.authForm.SetLabelColor(c.Body.FgColor.Color())
	}

	// Re-render the list with the new band colors
	a.refreshResults()
	return nil
}

// selectedStyle builds the table selection style from the palette
func (a *App) selectedStyle() tcell.Style {
	return tcell.StyleDefault.
		Foreground(a.colors.List.SelectedFg.Color()).
		Background(a.colors.List.SelectedBg.Color())
}
