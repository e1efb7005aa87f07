package services

import (
	"context"
	"encoding/json"
	"io"

	"github.com/connectiq/connectiq-tui/internal/api"
	"github.com/connectiq/connectiq-tui/internal/config"
)

// KeyValue is the persistence surface the services need. The SQLite
// preferences store satisfies it; tests substitute an in-memory fake.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Gateway is the slice of the API client the dashboard consumes
type Gateway interface {
	Recommendations(ctx context.Context, intent, token string) (*api.RecommendationsResponse, error)
	ProtectedTest(ctx context.Context, token string) (json.RawMessage, error)
	SearchHistory(ctx context.Context, token string) ([]api.HistoryEntry, error)
}

// Authenticator performs the signup/login round-trips
type Authenticator interface {
	Signup(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
}

// SessionState is the authentication state of the application
type SessionState int

const (
	Unauthenticated SessionState = iota
	Authenticated
)

// SessionService owns the session state machine and the stored token
type SessionService interface {
	State() SessionState
	Token(ctx context.Context) string
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	// HandleAPIError reacts to a failed API call; it reports whether the
	// failure was authentication-class and forced a logout
	HandleAPIError(ctx context.Context, err error) bool
}

// FilterMode selects the derived view over fetched results
type FilterMode string

const (
	FilterAll        FilterMode = "all"
	FilterHighScore  FilterMode = "high-score"
	FilterSaved      FilterMode = "saved"
	FilterResearcher FilterMode = "researcher"
)

// DashboardService orchestrates search, the derived view, saving and export
type DashboardService interface {
	Search(ctx context.Context, term string) error
	Results() []api.Profile
	DataSources() []string
	Loading() bool
	LastError() string
	HasSearched() bool
	Filter() FilterMode
	SetFilter(mode FilterMode)
	CycleFilter() FilterMode
	VisibleProfiles(ctx context.Context) []api.Profile
	ToggleSave(ctx context.Context, p api.Profile) (saved bool, err error)
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
	Probe(ctx context.Context) (json.RawMessage, error)
	RemoteHistory(ctx context.Context) ([]api.HistoryEntry, error)
}

// HistoryService keeps the most recent distinct search terms
type HistoryService interface {
	Record(ctx context.Context, term string) error
	All(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// SavedService keeps the set of saved profiles, keyed by name
type SavedService interface {
	Toggle(ctx context.Context, p api.Profile) (saved bool, err error)
	All(ctx context.Context) ([]api.Profile, error)
	IsSaved(ctx context.Context, name string) (bool, error)
}

// LinkService opens profile URLs in the system browser
type LinkService interface {
	OpenLink(ctx context.Context, url string) error
	ValidateURL(url string) error
}

// ThemeService persists and resolves the color theme
type ThemeService interface {
	Current(ctx context.Context) string
	Colors(ctx context.Context) *config.ColorsConfig
	Toggle(ctx context.Context) (string, error)
	SetApplyFunc(fn func(*config.ColorsConfig) error)
}
