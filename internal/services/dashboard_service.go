package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/connectiq/connectiq-tui/internal/api"
)

// highScoreThreshold is the cutoff for the high-score derived view
const highScoreThreshold = 30

// searchFailedMessage is the generic user-facing message for any failed search
const searchFailedMessage = "Failed to fetch recommendations"

// DashboardServiceImpl implements DashboardService. The fetched result list
// is replaced wholesale on each search; derived views never mutate it.
type DashboardServiceImpl struct {
	mu sync.RWMutex

	gateway Gateway
	session SessionService
	history HistoryService
	saved   SavedService
	logger  *log.Logger

	// seq orders searches so a stale in-flight response cannot overwrite a
	// newer one's results
	seq uint64

	results     []api.Profile
	dataSources []string
	loading     bool
	lastError   string
	hasSearched bool
	filter      FilterMode
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(gateway Gateway, session SessionService, history HistoryService, saved SavedService, logger *log.Logger) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		gateway: gateway,
		session: session,
		history: history,
		saved:   saved,
		logger:  logger,
		filter:  FilterAll,
	}
}

// Search fetches recommendations for the trimmed term. An empty or
// whitespace-only term is a no-op with no state change. The loading flag is
// cleared exactly once on every completion path of the newest search.
func (s *DashboardServiceImpl) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading = true
	s.lastError = ""
	s.results = nil
	s.dataSources = nil
	s.hasSearched = true
	s.filter = FilterAll
	s.mu.Unlock()

	if err := s.history.Record(ctx, term); err != nil && s.logger != nil {
		s.logger.Printf("dashboard: record history %q: %v", term, err)
	}

	resp, err := s.gateway.Recommendations(ctx, term, s.session.Token(ctx))

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		// A newer search owns the dashboard state now
		return nil
	}
	s.loading = false
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("dashboard: search %q: %v", term, err)
		}
		s.lastError = searchFailedMessage
		s.results = nil
		s.dataSources = nil
		return err
	}
	s.results = resp.Recommendations
	s.dataSources = resp.DataSources
	return nil
}

// Results returns the fetched recommendation list
func (s *DashboardServiceImpl) Results() []api.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// DataSources returns the source tags reported by the last search
func (s *DashboardServiceImpl) DataSources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataSources
}

// Loading reports whether a search is in flight
func (s *DashboardServiceImpl) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the user-facing message of the last failed search
func (s *DashboardServiceImpl) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// HasSearched reports whether a search has occurred this session
func (s *DashboardServiceImpl) HasSearched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasSearched
}

// Filter returns the active view filter mode
func (s *DashboardServiceImpl) Filter() FilterMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter selects the derived view
func (s *DashboardServiceImpl) SetFilter(mode FilterMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case FilterAll, FilterHighScore, FilterSaved, FilterResearcher:
		s.filter = mode
	default:
		s.filter = FilterAll
	}
}

// CycleFilter advances to the next filter mode and returns it
func (s *DashboardServiceImpl) CycleFilter() FilterMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.filter {
	case FilterAll:
		s.filter = FilterHighScore
	case FilterHighScore:
		s.filter = FilterSaved
	case FilterSaved:
		s.filter = FilterResearcher
	default:
		s.filter = FilterAll
	}
	return s.filter
}

// VisibleProfiles computes the derived view: saved mode returns the saved set
// verbatim, high-score keeps results above the threshold in original order,
// researcher keeps research roles, all returns the results unfiltered.
func (s *DashboardServiceImpl) VisibleProfiles(ctx context.Context) []api.Profile {
	s.mu.RLock()
	mode := s.filter
	results := s.results
	s.mu.RUnlock()

	switch mode {
	case FilterSaved:
		profiles, err := s.saved.All(ctx)
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("dashboard: load saved set: %v", err)
			}
			return nil
		}
		return profiles
	case FilterHighScore:
		out := make([]api.Profile, 0, len(results))
		for _, p := range results {
			if p.OpportunityScore > highScoreThreshold {
				out = append(out, p)
			}
		}
		return out
	case FilterResearcher:
		out := make([]api.Profile, 0, len(results))
		for _, p := range results {
			role := strings.ToLower(p.Role)
			if strings.Contains(role, "researcher") || strings.Contains(role, "professor") {
				out = append(out, p)
			}
		}
		return out
	default:
		return results
	}
}

// ToggleSave flips the saved state of a profile
func (s *DashboardServiceImpl) ToggleSave(ctx context.Context, p api.Profile) (bool, error) {
	return s.saved.Toggle(ctx, p)
}

// ExportCSV writes the current derived view as CSV and returns the number of
// rows written. An empty view writes nothing.
//
// Fields are double-quote-wrapped without escaping embedded quotes or commas.
// Existing export files have this exact shape, so it is kept byte-for-byte,
// corruption included.
func (s *DashboardServiceImpl) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	visible := s.VisibleProfiles(ctx)
	if len(visible) == 0 {
		return 0, nil
	}

	lines := make([]string, 0, len(visible)+1)
	lines = append(lines, "Name,Role,Score,Why")
	for _, p := range visible {
		score := strconv.FormatFloat(p.OpportunityScore, 'f', -1, 64)
		lines = append(lines, `"`+p.Name+`","`+p.Role+`",`+score+`,"`+p.Why+`"`)
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	return len(visible), nil
}

// Probe calls the authenticated connectivity test endpoint
func (s *DashboardServiceImpl) Probe(ctx context.Context) (json.RawMessage, error) {
	return s.gateway.ProtectedTest(ctx, s.session.Token(ctx))
}

// RemoteHistory fetches the server-side search history
func (s *DashboardServiceImpl) RemoteHistory(ctx context.Context) ([]api.HistoryEntry, error) {
	return s.gateway.SearchHistory(ctx, s.session.Token(ctx))
}
