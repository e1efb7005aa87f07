package tui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Modal page names
const (
	pageHistory       = "history"
	pageRemoteHistory = "remote-history"
	pageHelp          = "help"
)

// bindKeys wires the configurable shortcuts
func (a *App) bindKeys() {
	// Dashboard-wide keys act on the results list so typing an intent is
	// never intercepted
	a.resultsList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() != tcell.KeyRune {
			return event
		}
		switch string(event.Rune()) {
		case a.Keys.Search:
			a.SetFocus(a.intentInput)
		case a.Keys.Save:
			a.toggleSaveSelected()
		case a.Keys.Export:
			a.exportVisible()
		case a.Keys.CycleFilter:
			a.cycleFilter()
		case a.Keys.History:
			a.showHistoryPicker()
		case a.Keys.RemoteHistory:
			a.showRemoteHistory()
		case a.Keys.Probe:
			a.runProbe()
		case a.Keys.ThemeToggle:
			a.toggleTheme()
		case a.Keys.OpenProfile:
			a.openSelectedProfile()
		case a.Keys.Logout:
			a.logout()
		case a.Keys.Help:
			a.showHelp()
		case a.Keys.Quit:
			a.Stop()
		default:
			return event
		}
		return nil
	})

	// Escape and Tab move between the intent input and the results list
	a.intentInput.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyTab:
			a.SetFocus(a.resultsList)
			return nil
		}
		return event
	})

	a.Application.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}
		return event
	})
}

// showHistoryPicker lists the recent local search terms; selecting one
// re-runs the search
func (a *App) showHistoryPicker() {
	terms, err := a.History.All(a.ctx)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not load search history")
		return
	}
	if len(terms) == 0 {
		a.errorHandler.ShowInfo(a.ctx, "No search history yet")
		return
	}

	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true)
	list.SetTitle(" Recent searches ")
	for _, term := range terms {
		term := term
		list.AddItem(term, "", 0, func() {
			a.dismissModal(pageHistory)
			a.intentInput.SetText(term)
			a.startSearch(term)
		})
	}
	list.SetDoneFunc(func() {
		a.dismissModal(pageHistory)
	})

	a.showModal(pageHistory, list, 40, len(terms)+2)
}

// showRemoteHistory fetches and displays the server-side search history
func (a *App) showRemoteHistory() {
	a.errorHandler.ShowInfo(a.ctx, "Loading server history...")
	go func() {
		entries, err := a.Dashboard.RemoteHistory(a.ctx)
		if err != nil {
			if a.Session.HandleAPIError(a.ctx, err) {
				a.QueueUpdateDraw(func() {
					a.showAuth("Session expired, please log in again")
				})
				return
			}
			a.errorHandler.ShowError(a.ctx, "Could not load server history")
			return
		}
		a.QueueUpdateDraw(func() {
			var b strings.Builder
			if len(entries) == 0 {
				b.WriteString("No searches recorded on the server.")
			}
			for _, e := range entries {
				fmt.Fprintf(&b, "%s  %s\n", e.Timestamp, tview.Escape(e.Query))
			}
			view := tview.NewTextView().SetDynamicColors(true).SetText(b.String())
			view.SetBorder(true)
			view.SetTitle(" Server history (Esc to close) ")
			view.SetDoneFunc(func(key tcell.Key) {
				a.dismissModal(pageRemoteHistory)
			})
			a.showModal(pageRemoteHistory, view, 60, 14)
		})
	}()
}

// showHelp displays the shortcut reference
func (a *App) showHelp() {
	k := a.Keys
	text := fmt.Sprintf(`ConnectIQ shortcuts

  %s      focus intent input, Enter searches
  %s      save / unsave selected profile
  %s      cycle filter (all, high-score, saved, researcher)
  %s      export current view to %s
  %s      recent searches
  %s      server-side search history
  %s      open profile URL in browser
  %s      probe API connectivity
  %s      toggle dark/light theme
  %s      log out
  %s      quit

  Tab / Esc moves between the search box and the results list.
  Esc closes this help.`,
		k.Search, k.Save, k.CycleFilter, k.Export, exportFilename,
		k.History, k.RemoteHistory, k.OpenProfile, k.Probe,
		k.ThemeToggle, k.Logout, k.Quit)

	view := tview.NewTextView().SetText(text)
	view.SetBorder(true)
	view.SetTitle(" Help ")
	view.SetDoneFunc(func(key tcell.Key) {
		a.dismissModal(pageHelp)
	})
	a.showModal(pageHelp, view, 64, 20)
}

// showModal centers a primitive above the dashboard
func (a *App) showModal(name string, p tview.Primitive, width, height int) {
	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(p, height, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)
	wrapper := tview.NewFlex().
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(column, width, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)
	a.Pages.AddPage(name, wrapper, true, true)
	a.SetFocus(p)
}

// dismissModal removes a modal page and restores list focus
func (a *App) dismissModal(name string) {
	a.Pages.RemovePage(name)
	a.SetFocus(a.resultsList)
}
