package tui

import (
	"log"
	"os"
	"path/filepath"

	"github.com/connectiq/connectiq-tui/internal/config"
)

// initLogger initializes a file logger under the user config dir if possible
func (a *App) initLogger() {
	if a.logger != nil && a.logFile != nil {
		return
	}
	logPath := a.Config.LogFile
	if logPath == "" {
		dir := config.DefaultLogDir()
		if dir == "" {
			return
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return
		}
		logPath = filepath.Join(dir, "connectiq.log")
	}
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		a.logFile = f
		a.logger = log.New(f, "[connectiq] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// closeLogger closes the log file if opened
func (a *App) closeLogger() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
