package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/derailed/tview"
)

// LogLevel represents the severity of a message
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarning
	LogLevelError
	LogLevelSuccess
)

// ErrorHandler provides consistent error handling and user feedback
type ErrorHandler struct {
	mu         sync.Mutex
	app        *tview.Application
	statusView *tview.TextView
	logger     *log.Logger

	baselineFunc  func() string
	statusTimer   *time.Timer
	currentStatus string
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(app *tview.Application, statusView *tview.TextView, logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{
		app:        app,
		statusView: statusView,
		logger:     logger,
	}
}

// SetBaselineFunc registers the provider of the idle status line
func (eh *ErrorHandler) SetBaselineFunc(fn func() string) {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	eh.baselineFunc = fn
}

// HandleError handles an error and shows appropriate user feedback
func (eh *ErrorHandler) HandleError(ctx context.Context, err error, userMsg string) {
	if err == nil {
		return
	}

	if eh.logger != nil {
		eh.logger.Printf("ERROR: %v", err)
	}

	if userMsg == "" {
		userMsg = "An error occurred"
	}
	eh.ShowMessage(ctx, userMsg, LogLevelError)
}

// ShowMessage displays a message on the status line, auto-clearing back to
// the baseline after a few seconds
func (eh *ErrorHandler) ShowMessage(ctx context.Context, msg string, level LogLevel) {
	if strings.TrimSpace(msg) == "" {
		return
	}

	formatted := eh.formatMessage(msg, level)

	if eh.logger != nil {
		eh.logger.Printf("%s: %s", eh.levelToString(level), msg)
	}

	if eh.app != nil {
		eh.app.QueueUpdateDraw(func() {
			eh.updateStatusMessage(formatted)
		})
	}
}

// ShowInfo displays an informational message
func (eh *ErrorHandler) ShowInfo(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelInfo)
}

// ShowWarning displays a warning message
func (eh *ErrorHandler) ShowWarning(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelWarning)
}

// ShowError displays an error message
func (eh *ErrorHandler) ShowError(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelError)
}

// ShowSuccess displays a success message
func (eh *ErrorHandler) ShowSuccess(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelSuccess)
}

func (eh *ErrorHandler) formatMessage(msg string, level LogLevel) string {
	var prefix string
	switch level {
	case LogLevelWarning:
		prefix = "[yellow]"
	case LogLevelError:
		prefix = "[red]"
	case LogLevelSuccess:
		prefix = "[green]"
	default:
		prefix = "[blue]"
	}
	return fmt.Sprintf("%s%s[-]", prefix, tview.Escape(msg))
}

func (eh *ErrorHandler) levelToString(level LogLevel) string {
	switch level {
	case LogLevelWarning:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelSuccess:
		return "OK"
	default:
		return "INFO"
	}
}

// updateStatusMessage must run on the UI goroutine
func (eh *ErrorHandler) updateStatusMessage(msg string) {
	if eh.statusView == nil {
		return
	}

	eh.mu.Lock()
	if eh.statusTimer != nil {
		eh.statusTimer.Stop()
	}
	eh.currentStatus = msg
	eh.statusTimer = time.AfterFunc(5*time.Second, func() {
		eh.clearStatusSafely(msg)
	})
	eh.mu.Unlock()

	eh.statusView.SetText(msg)
}

// clearStatusSafely restores the baseline unless a newer message replaced ours
func (eh *ErrorHandler) clearStatusSafely(expectedMsg string) {
	if eh.app == nil || eh.statusView == nil {
		return
	}
	eh.app.QueueUpdateDraw(func() {
		eh.mu.Lock()
		stale := eh.currentStatus != expectedMsg
		baseline := eh.baselineFunc
		if !stale {
			eh.currentStatus = ""
		}
		eh.mu.Unlock()
		if stale {
			return
		}
		if baseline != nil {
			eh.statusView.SetText(baseline())
		} else {
			eh.statusView.SetText("")
		}
	})
}
