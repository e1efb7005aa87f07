package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/connectiq/connectiq-tui/internal/api"
	"github.com/connectiq/connectiq-tui/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/mattn/go-runewidth"
)

// exportFilename is the fixed name of the CSV artifact
const exportFilename = "connectiq_export.csv"

// initDashboard builds the main search/results page
func (a *App) initDashboard() {
	a.intentInput = tview.NewInputField().
		SetLabel(" Intent: ").
		SetPlaceholder("e.g. machine learning mentor")
	a.intentInput.SetBorder(true)
	a.intentInput.SetTitle(" Search ")
	a.intentInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.startSearch(a.intentInput.GetText())
		}
	})

	a.resultsList = tview.NewTable()
	a.resultsList.SetBorder(true)
	a.resultsList.SetTitle(" Results ")
	a.resultsList.SetSelectable(true, false)
	a.resultsList.SetFixed(1, 0)
	a.resultsList.SetSelectionChangedFunc(func(row, col int) {
		a.renderDetail(row - 1)
	})

	a.detailView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	a.detailView.SetBorder(true)
	a.detailView.SetTitle(" Profile ")

	a.statusView = tview.NewTextView().
		SetDynamicColors(true)

	body := tview.NewFlex().
		AddItem(a.resultsList, 0, 1, true).
		AddItem(a.detailView, 0, 1, false)

	page := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.intentInput, 3, 0, true).
		AddItem(body, 0, 1, false).
		AddItem(a.statusView, 1, 0, false)

	a.Pages.AddPage(pageDashboard, page, true, false)
}

// startSearch kicks off a recommendation fetch off the UI goroutine. The
// input stays enabled; the dashboard service itself discards stale responses.
func (a *App) startSearch(term string) {
	if strings.TrimSpace(term) == "" {
		return
	}
	a.statusView.SetText("Finding best matches...")

	go func() {
		err := a.Dashboard.Search(a.ctx, term)
		a.QueueUpdateDraw(func() {
			if err != nil && a.handleAPIFailure(err) {
				return
			}
			a.refreshResults()
		})
	}()
}

// refreshResults rebuilds the results table from the derived view
func (a *App) refreshResults() {
	visible := a.Dashboard.VisibleProfiles(a.ctx)

	a.resultsList.Clear()
	headers := []string{"", "Name", "Role", "Score"}
	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(a.colors.List.HeaderFgColor.Color()).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold)
		a.resultsList.SetCell(0, col, cell)
	}

	for i, p := range visible {
		marker := " "
		if saved, err := a.Saved.IsSaved(a.ctx, p.Name); err == nil && saved {
			marker = "*"
		}
		a.resultsList.SetCell(i+1, 0, tview.NewTableCell(marker).
			SetTextColor(a.colors.List.SavedColor.Color()))
		a.resultsList.SetCell(i+1, 1, tview.NewTableCell(truncate(p.Name, 24)).
			SetTextColor(a.colors.List.FgColor.Color()).
			SetExpansion(1))
		a.resultsList.SetCell(i+1, 2, tview.NewTableCell(truncate(p.Role, 28)).
			SetTextColor(a.colors.List.FgColor.Color()).
			SetExpansion(1))
		a.resultsList.SetCell(i+1, 3, tview.NewTableCell(fmt.Sprintf("%.0f", p.OpportunityScore)).
			SetTextColor(a.scoreColor(p.OpportunityScore)).
			SetAlign(tview.AlignRight))
	}

	title := fmt.Sprintf(" Results [%s] (%d) ", a.Dashboard.Filter(), len(visible))
	a.resultsList.SetTitle(title)

	if len(visible) > 0 {
		a.resultsList.Select(1, 0)
		a.renderDetail(0)
	} else {
		a.detailView.SetText(a.emptyDetailText())
	}

	a.statusView.SetText(a.statusBaseline())
}

// emptyDetailText explains an empty results pane
func (a *App) emptyDetailText() string {
	if msg := a.Dashboard.LastError(); msg != "" {
		return "[red]" + tview.Escape(msg) + "[-]"
	}
	if !a.Dashboard.HasSearched() {
		return "Enter an intent above and press Enter to find connections."
	}
	if a.Dashboard.Filter() == services.FilterSaved {
		return "No saved profiles yet. Press '" + a.Keys.Save + "' on a result to save it."
	}
	return "No matches for this view."
}

// renderDetail shows the full profile for the given visible index
func (a *App) renderDetail(idx int) {
	visible := a.Dashboard.VisibleProfiles(a.ctx)
	if idx < 0 || idx >= len(visible) {
		a.detailView.SetText(a.emptyDetailText())
		return
	}
	p := visible[idx]

	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[-:-:-]\n", tview.Escape(p.Name))
	fmt.Fprintf(&b, "%s\n\n", tview.Escape(p.Role))
	fmt.Fprintf(&b, "Score: [%s]%s[-]\n\n", a.scoreColorTag(p.OpportunityScore), formatScore(p.OpportunityScore))
	if p.Why != "" {
		fmt.Fprintf(&b, "%s\n\n", tview.Escape(p.Why))
	}
	if p.WhyNow != "" {
		fmt.Fprintf(&b, "[::i]%s[-:-:-]\n\n", tview.Escape(p.WhyNow))
	}
	if len(p.ContextualTriggers) > 0 {
		chips := make([]string, 0, len(p.ContextualTriggers))
		for _, t := range p.ContextualTriggers {
			chips = append(chips, "("+tview.Escape(t)+")")
		}
		fmt.Fprintf(&b, "%s\n\n", strings.Join(chips, " "))
	}
	if p.Starter != "" {
		fmt.Fprintf(&b, "Starter: %s\n\n", tview.Escape(p.Starter))
	}
	if p.ProfileURL != "" {
		fmt.Fprintf(&b, "[%s]%s[-]\n", a.colors.List.TriggerColor.String(), tview.Escape(p.ProfileURL))
	}

	a.detailView.SetText(b.String())
	a.detailView.ScrollToBeginning()
}

// selectedProfile returns the profile under the cursor, if any
func (a *App) selectedProfile() (api.Profile, bool) {
	row, _ := a.resultsList.GetSelection()
	visible := a.Dashboard.VisibleProfiles(a.ctx)
	idx := row - 1
	if idx < 0 || idx >= len(visible) {
		return api.Profile{}, false
	}
	return visible[idx], true
}

// toggleSaveSelected flips the saved state of the profile under the cursor
func (a *App) toggleSaveSelected() {
	p, ok := a.selectedProfile()
	if !ok {
		return
	}
	saved, err := a.Dashboard.ToggleSave(a.ctx, p)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not update saved profiles")
		return
	}
	if saved {
		a.errorHandler.ShowSuccess(a.ctx, "Saved "+p.Name)
	} else {
		a.errorHandler.ShowInfo(a.ctx, "Removed "+p.Name)
	}
	a.refreshResults()
}

// exportVisible writes the current derived view to the fixed CSV filename
func (a *App) exportVisible() {
	f, err := os.Create(exportFilename)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not create export file")
		return
	}
	defer f.Close()

	n, err := a.Dashboard.ExportCSV(a.ctx, f)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Export failed")
		return
	}
	if n == 0 {
		// Empty view exports nothing, and leaves no misleading artifact
		_ = os.Remove(exportFilename)
		a.errorHandler.ShowWarning(a.ctx, "Nothing to export")
		return
	}
	a.errorHandler.ShowSuccess(a.ctx, fmt.Sprintf("Exported %d profiles to %s", n, exportFilename))
}

// cycleFilter advances the derived view and re-renders
func (a *App) cycleFilter() {
	mode := a.Dashboard.CycleFilter()
	a.errorHandler.ShowInfo(a.ctx, "Filter: "+string(mode))
	a.refreshResults()
}

// openSelectedProfile opens the profile URL in the system browser
func (a *App) openSelectedProfile() {
	p, ok := a.selectedProfile()
	if !ok || p.ProfileURL == "" {
		a.errorHandler.ShowWarning(a.ctx, "No profile URL to open")
		return
	}
	if err := a.Links.OpenLink(a.ctx, p.ProfileURL); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not open profile URL")
	}
}

// runProbe calls the authenticated connectivity test
func (a *App) runProbe() {
	a.errorHandler.ShowInfo(a.ctx, "Probing API...")
	go func() {
		_, err := a.Dashboard.Probe(a.ctx)
		if err != nil {
			if a.Session.HandleAPIError(a.ctx, err) {
				a.QueueUpdateDraw(func() {
					a.showAuth("Session expired, please log in again")
				})
				return
			}
			a.errorHandler.ShowError(a.ctx, "Probe failed: unauthorized or unreachable")
			return
		}
		a.errorHandler.ShowSuccess(a.ctx, "API reachable, token accepted")
	}()
}

// toggleTheme flips dark/light; colors apply through the registered callback
func (a *App) toggleTheme() {
	name, err := a.Theme.Toggle(a.ctx)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not switch theme")
		return
	}
	a.errorHandler.ShowInfo(a.ctx, "Theme: "+name)
}

// logout clears the session and returns to the auth screen
func (a *App) logout() {
	if err := a.Session.Logout(a.ctx); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Logout failed")
		return
	}
	a.showAuth("Logged out")
}

// statusBaseline is the idle status line content
func (a *App) statusBaseline() string {
	parts := []string{"ConnectIQ"}
	if a.Dashboard.Loading() {
		parts = append(parts, "searching...")
	}
	if msg := a.Dashboard.LastError(); msg != "" {
		parts = append(parts, "[red]"+tview.Escape(msg)+"[-]")
	}
	if src := a.Dashboard.DataSources(); len(src) > 0 {
		parts = append(parts, "sources: "+strings.Join(src, ", "))
	}
	parts = append(parts, fmt.Sprintf("filter: %s", a.Dashboard.Filter()))
	parts = append(parts, a.Keys.Help+" help")
	return " " + strings.Join(parts, "  |  ")
}

// scoreColor maps an opportunity score to its band color
func (a *App) scoreColor(score float64) tcell.Color {
	switch {
	case score > 70:
		return a.colors.Score.StrongColor.Color()
	case score > 50:
		return a.colors.Score.ModerateColor.Color()
	default:
		return a.colors.Score.NeutralColor.Color()
	}
}

// scoreColorTag is the tview tag form of scoreColor
func (a *App) scoreColorTag(score float64) string {
	switch {
	case score > 70:
		return a.colors.Score.StrongColor.String()
	case score > 50:
		return a.colors.Score.ModerateColor.String()
	default:
		return a.colors.Score.NeutralColor.String()
	}
}

// formatScore renders a score without a trailing .0 for whole values
func formatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%.0f", score)
	}
	return fmt.Sprintf("%.2f", score)
}

// truncate shortens a string to the given display width
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
