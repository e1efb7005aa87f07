package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectiq/connectiq-tui/internal/api"
	"github.com/connectiq/connectiq-tui/pkg/auth"
)

func newTestDashboard(t *testing.T, g *fakeGateway) (*DashboardServiceImpl, *fakeKV) {
	t.Helper()
	ctx := context.Background()
	kv := newFakeKV()
	require.NoError(t, kv.Set(ctx, "access_token", "tok123"))

	session := NewSessionService(ctx, auth.NewTokenStore(kv), &fakeAuthenticator{}, nil)
	history := NewHistoryService(kv, nil)
	saved := NewSavedService(kv, nil)
	return NewDashboardService(g, session, history, saved, nil), kv
}

func TestDashboardService_SearchReplacesResults(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		return &api.RecommendationsResponse{
			Recommendations: []api.Profile{profile("Alice", 80), profile("Bob", 20)},
			DataSources:     []string{"github", "scholar"},
		}, nil
	}}
	svc, _ := newTestDashboard(t, g)

	require.NoError(t, svc.Search(ctx, "golang mentor"))

	assert.Equal(t, 1, g.callCount())
	assert.Equal(t, []string{"golang mentor"}, g.calls)
	assert.Equal(t, []string{"tok123"}, g.tokens)
	require.Len(t, svc.Results(), 2)
	assert.Equal(t, "Alice", svc.Results()[0].Name)
	assert.Equal(t, []string{"github", "scholar"}, svc.DataSources())
	assert.True(t, svc.HasSearched())
	assert.False(t, svc.Loading())
	assert.Empty(t, svc.LastError())
}

func TestDashboardService_EmptyTermIsNoOp(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{}
	svc, _ := newTestDashboard(t, g)

	require.NoError(t, svc.Search(ctx, ""))
	require.NoError(t, svc.Search(ctx, "   \t  "))

	assert.Equal(t, 0, g.callCount())
	assert.False(t, svc.HasSearched())
	assert.False(t, svc.Loading())
}

func TestDashboardService_SearchTrimsAndRecordsHistory(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{}
	svc, kv := newTestDashboard(t, g)

	require.NoError(t, svc.Search(ctx, "  golang mentor  "))

	assert.Equal(t, []string{"golang mentor"}, g.calls)
	raw, ok, err := kv.Get(ctx, "connectiq_history")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["golang mentor"]`, raw)
}

func TestDashboardService_SearchFailureShowsGenericMessage(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	svc, _ := newTestDashboard(t, g)

	err := svc.Search(ctx, "golang mentor")
	require.Error(t, err)

	assert.Equal(t, "Failed to fetch recommendations", svc.LastError())
	assert.Empty(t, svc.Results())
	assert.False(t, svc.Loading())
	assert.True(t, svc.HasSearched())
}

func TestDashboardService_SearchResetsFilterAndError(t *testing.T) {
	ctx := context.Background()
	fail := true
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return &api.RecommendationsResponse{Recommendations: []api.Profile{profile("Alice", 80)}}, nil
	}}
	svc, _ := newTestDashboard(t, g)

	require.Error(t, svc.Search(ctx, "first"))
	svc.SetFilter(FilterSaved)

	fail = false
	require.NoError(t, svc.Search(ctx, "second"))

	assert.Equal(t, FilterAll, svc.Filter())
	assert.Empty(t, svc.LastError())
	require.Len(t, svc.Results(), 1)
}

func TestDashboardService_LoadingDuringFlight(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		close(entered)
		<-release
		return &api.RecommendationsResponse{}, nil
	}}
	svc, _ := newTestDashboard(t, g)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = svc.Search(ctx, "golang mentor")
	}()

	<-entered
	assert.True(t, svc.Loading())
	close(release)
	wg.Wait()
	assert.False(t, svc.Loading())
}

func TestDashboardService_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	firstEntered := make(chan struct{})
	firstRelease := make(chan struct{})
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		if intent == "first" {
			close(firstEntered)
			<-firstRelease
			return &api.RecommendationsResponse{Recommendations: []api.Profile{profile("Stale", 10)}}, nil
		}
		return &api.RecommendationsResponse{Recommendations: []api.Profile{profile("Fresh", 90)}}, nil
	}}
	svc, _ := newTestDashboard(t, g)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = svc.Search(ctx, "first")
	}()
	<-firstEntered

	require.NoError(t, svc.Search(ctx, "second"))
	require.Len(t, svc.Results(), 1)
	assert.Equal(t, "Fresh", svc.Results()[0].Name)

	close(firstRelease)
	wg.Wait()

	// The late response must not overwrite the newer search's state
	require.Len(t, svc.Results(), 1)
	assert.Equal(t, "Fresh", svc.Results()[0].Name)
	assert.False(t, svc.Loading())
	assert.Empty(t, svc.LastError())
}

func TestDashboardService_StaleFailureDiscarded(t *testing.T) {
	ctx := context.Background()
	firstEntered := make(chan struct{})
	firstRelease := make(chan struct{})
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		if intent == "first" {
			close(firstEntered)
			<-firstRelease
			return nil, errors.New("timeout")
		}
		return &api.RecommendationsResponse{Recommendations: []api.Profile{profile("Fresh", 90)}}, nil
	}}
	svc, _ := newTestDashboard(t, g)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = svc.Search(ctx, "first")
	}()
	<-firstEntered

	require.NoError(t, svc.Search(ctx, "second"))
	close(firstRelease)
	wg.Wait()

	assert.Empty(t, svc.LastError())
	require.Len(t, svc.Results(), 1)
	assert.Equal(t, "Fresh", svc.Results()[0].Name)
}

func TestDashboardService_HighScoreFilter(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		return &api.RecommendationsResponse{Recommendations: []api.Profile{
			profile("Low", 10),
			profile("Boundary", 30),
			profile("High", 31),
			profile("Top", 95),
		}}, nil
	}}
	svc, _ := newTestDashboard(t, g)
	require.NoError(t, svc.Search(ctx, "golang mentor"))

	svc.SetFilter(FilterHighScore)
	visible := svc.VisibleProfiles(ctx)

	// Strictly above the threshold, original order preserved
	require.Len(t, visible, 2)
	assert.Equal(t, "High", visible[0].Name)
	assert.Equal(t, "Top", visible[1].Name)
}

func TestDashboardService_SavedFilterReturnsSavedSetVerbatim(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		return &api.RecommendationsResponse{Recommendations: []api.Profile{profile("Current", 50)}}, nil
	}}
	svc, kv := newTestDashboard(t, g)
	require.NoError(t, svc.Search(ctx, "golang mentor"))

	// Saved earlier, absent from the current result list
	saved := NewSavedService(kv, nil)
	_, err := saved.Toggle(ctx, profile("Earlier", 5))
	require.NoError(t, err)

	svc.SetFilter(FilterSaved)
	visible := svc.VisibleProfiles(ctx)

	require.Len(t, visible, 1)
	assert.Equal(t, "Earlier", visible[0].Name)
}

func TestDashboardService_ResearcherFilter(t *testing.T) {
	ctx := context.Background()
	mk := func(name, role string) api.Profile {
		p := profile(name, 50)
		p.Role = role
		return p
	}
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		return &api.RecommendationsResponse{Recommendations: []api.Profile{
			mk("Alice", "Senior AI Researcher"),
			mk("Bob", "Software Engineer"),
			mk("Carol", "Professor of Computer Science"),
			mk("Dave", "research assistant"),
		}}, nil
	}}
	svc, _ := newTestDashboard(t, g)
	require.NoError(t, svc.Search(ctx, "golang mentor"))

	svc.SetFilter(FilterResearcher)
	visible := svc.VisibleProfiles(ctx)

	require.Len(t, visible, 2)
	assert.Equal(t, "Alice", visible[0].Name)
	assert.Equal(t, "Carol", visible[1].Name)
}

func TestDashboardService_CycleFilter(t *testing.T) {
	g := &fakeGateway{}
	svc, _ := newTestDashboard(t, g)

	assert.Equal(t, FilterAll, svc.Filter())
	assert.Equal(t, FilterHighScore, svc.CycleFilter())
	assert.Equal(t, FilterSaved, svc.CycleFilter())
	assert.Equal(t, FilterResearcher, svc.CycleFilter())
	assert.Equal(t, FilterAll, svc.CycleFilter())
}

func TestDashboardService_SetFilterUnknownFallsBackToAll(t *testing.T) {
	g := &fakeGateway{}
	svc, _ := newTestDashboard(t, g)

	svc.SetFilter(FilterSaved)
	svc.SetFilter(FilterMode("bogus"))
	assert.Equal(t, FilterAll, svc.Filter())
}

func TestDashboardService_ToggleSave(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{}
	svc, kv := newTestDashboard(t, g)

	saved, err := svc.ToggleSave(ctx, profile("Alice", 80))
	require.NoError(t, err)
	assert.True(t, saved)

	raw, ok, err := kv.Get(ctx, "connectiq_saved")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "Alice")

	saved, err = svc.ToggleSave(ctx, profile("Alice", 80))
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestDashboardService_ExportCSVQuoting(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		return &api.RecommendationsResponse{Recommendations: []api.Profile{{
			Name:             "A,B",
			Role:             "R",
			OpportunityScore: 5,
			Why:              `Has "quotes"`,
		}}}, nil
	}}
	svc, _ := newTestDashboard(t, g)
	require.NoError(t, svc.Search(ctx, "golang mentor"))

	var sb strings.Builder
	n, err := svc.ExportCSV(ctx, &sb)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Fields are quote-wrapped without escaping, matching files produced by
	// earlier versions of the exporter
	want := "Name,Role,Score,Why\n" + `"A,B","R",5,"Has "quotes""`
	assert.Equal(t, want, sb.String())
}

func TestDashboardService_ExportCSVScoreFormatting(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		return &api.RecommendationsResponse{Recommendations: []api.Profile{
			profile("Whole", 80),
			profile("Fraction", 72.5),
		}}, nil
	}}
	svc, _ := newTestDashboard(t, g)
	require.NoError(t, svc.Search(ctx, "golang mentor"))

	var sb strings.Builder
	n, err := svc.ExportCSV(ctx, &sb)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(sb.String(), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], ",80,")
	assert.Contains(t, lines[2], ",72.5,")
}

func TestDashboardService_ExportCSVEmptyViewWritesNothing(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{}
	svc, _ := newTestDashboard(t, g)

	var sb strings.Builder
	n, err := svc.ExportCSV(ctx, &sb)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, sb.String())
}

func TestDashboardService_ExportCSVFollowsActiveFilter(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		return &api.RecommendationsResponse{Recommendations: []api.Profile{
			profile("Low", 10),
			profile("High", 90),
		}}, nil
	}}
	svc, _ := newTestDashboard(t, g)
	require.NoError(t, svc.Search(ctx, "golang mentor"))

	svc.SetFilter(FilterHighScore)
	var sb strings.Builder
	n, err := svc.ExportCSV(ctx, &sb)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, sb.String(), "High")
	assert.NotContains(t, sb.String(), "Low")
}

func TestDashboardService_ProbeAndRemoteHistoryUseSessionToken(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{}
	svc, _ := newTestDashboard(t, g)

	raw, err := svc.Probe(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))

	entries, err := svc.RemoteHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "golang mentor", entries[0].Query)
}

// Concurrent searches must settle on the newest term's outcome without racing
func TestDashboardService_ConcurrentSearches(t *testing.T) {
	ctx := context.Background()
	g := &fakeGateway{respond: func(intent string) (*api.RecommendationsResponse, error) {
		time.Sleep(time.Millisecond)
		return &api.RecommendationsResponse{Recommendations: []api.Profile{profile(intent, 50)}}, nil
	}}
	svc, _ := newTestDashboard(t, g)

	var wg sync.WaitGroup
	for _, term := range []string{"one", "two", "three"} {
		wg.Add(1)
		go func(term string) {
			defer wg.Done()
			_ = svc.Search(ctx, term)
		}(term)
	}
	wg.Wait()

	assert.False(t, svc.Loading())
	assert.Len(t, svc.Results(), 1)
}