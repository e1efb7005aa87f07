package tui

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/connectiq/connectiq-tui/internal/api"
	"github.com/connectiq/connectiq-tui/internal/config"
	"github.com/connectiq/connectiq-tui/internal/db"
	"github.com/connectiq/connectiq-tui/internal/services"
	"github.com/connectiq/connectiq-tui/pkg/auth"
	"github.com/derailed/tview"
)

// Page names for the root pages view
const (
	pageAuth      = "auth"
	pageDashboard = "dashboard"
)

// App encapsulates the terminal UI and the ConnectIQ services
type App struct {
	*tview.Application
	Pages  *tview.Pages
	Config *config.Config
	Keys   config.KeyBindings

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex

	// Services
	Session   services.SessionService
	Dashboard services.DashboardService
	History   services.HistoryService
	Saved     services.SavedService
	Theme     services.ThemeService
	Links     services.LinkService

	// Current colors, updated on theme toggle
	colors *config.ColorsConfig

	// Auth screen widgets
	authForm   *tview.Form
	authStatus *tview.TextView
	signupMode bool

	// Dashboard widgets
	intentInput *tview.InputField
	resultsList *tview.Table
	detailView  *tview.TextView
	statusView  *tview.TextView

	errorHandler *ErrorHandler

	// Debug logging
	logger  *log.Logger
	logFile *os.File
}

// NewApp wires services and builds the UI without drawing anything
func NewApp(cfg *config.Config, apiClient *api.Client, store *db.Store) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		Application: tview.NewApplication(),
		Pages:       tview.NewPages(),
		Config:      cfg,
		Keys:        cfg.Keys,
		ctx:         ctx,
		cancel:      cancel,
	}

	// Initialize file logger (logging.go)
	a.initLogger()
	if a.logger == nil {
		a.logger = log.New(os.Stderr, "[connectiq] ", log.LstdFlags)
	}

	apiClient.SetLogger(a.logger)

	prefs := db.NewPrefsStore(store)
	tokens := auth.NewTokenStore(prefs)
	authClient := auth.NewClient(apiClient)

	a.Session = services.NewSessionService(ctx, tokens, authClient, a.logger)
	a.History = services.NewHistoryService(prefs, a.logger)
	a.Saved = services.NewSavedService(prefs, a.logger)
	a.Theme = services.NewThemeService(prefs, config.DefaultThemesDir(), a.logger)
	a.Links = services.NewLinkService()
	a.Dashboard = services.NewDashboardService(apiClient, a.Session, a.History, a.Saved, a.logger)

	// Theme is resolved before the first draw so there is no flash of the
	// wrong palette on startup
	a.colors = a.Theme.Colors(ctx)
	a.Theme.SetApplyFunc(a.applyColors)
	a.applyStyles()

	a.initAuthScreen()
	a.initDashboard()
	a.errorHandler = NewErrorHandler(a.Application, a.statusView, a.logger)
	a.errorHandler.SetBaselineFunc(a.statusBaseline)
	a.bindKeys()

	return a
}

// Run starts the application on the screen matching the session state
func (a *App) Run() error {
	defer a.closeLogger()
	defer a.cancel()

	a.SetRoot(a.Pages, true)

	if a.Session.State() == services.Authenticated {
		a.showDashboard()
	} else {
		a.showAuth("")
	}

	return a.Application.Run()
}

// showAuth switches to the auth screen, optionally with a notice such as
// "session expired"
func (a *App) showAuth(notice string) {
	a.resetAuthForm()
	if notice != "" {
		a.authStatus.SetText(notice)
	}
	a.Pages.SwitchToPage(pageAuth)
	a.SetFocus(a.authForm)
}

// showDashboard switches to the dashboard screen
func (a *App) showDashboard() {
	a.Pages.SwitchToPage(pageDashboard)
	a.refreshResults()
	a.SetFocus(a.intentInput)
}

// handleAPIFailure routes an error through the session classifier; on an
// authentication-class failure the user lands back on the auth screen
func (a *App) handleAPIFailure(err error) bool {
	if !a.Session.HandleAPIError(a.ctx, err) {
		return false
	}
	a.showAuth("Session expired, please log in again")
	return true
}

// Stop tears down the application
func (a *App) Stop() {
	a.cancel()
	a.Application.Stop()
}
