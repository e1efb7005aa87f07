package api

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// profileNamespace seeds deterministic profile keys so the same profile maps
// to the same key across searches and restarts.
var profileNamespace = uuid.MustParse("8aa8f6f2-1c3e-4a8e-9c59-1d22e5a6c301")

// Profile is a single professional-connection recommendation returned by the
// remote service. Immutable once received.
type Profile struct {
	Name               string   `json:"name"`
	Role               string   `json:"role"`
	OpportunityScore   float64  `json:"opportunity_score"`
	Why                string   `json:"why"`
	WhyNow             string   `json:"why_now,omitempty"`
	Starter            string   `json:"starter,omitempty"`
	ContextualTriggers []string `json:"contextual_triggers,omitempty"`
	ProfileURL         string   `json:"profile_url"`
}

// Key returns a deterministic identifier for the profile. The service supplies
// no stable id, so one is synthesized from name, role and profile URL.
func (p Profile) Key() string {
	return uuid.NewSHA1(profileNamespace, []byte(p.Name+"|"+p.Role+"|"+p.ProfileURL)).String()
}

// RecommendationsResponse is the validated shape of POST /recommendations
type RecommendationsResponse struct {
	Recommendations []Profile `json:"recommendations"`
	DataSources     []string  `json:"data_sources,omitempty"`
}

// HistoryEntry is one row of the server-side search history
type HistoryEntry struct {
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
}

// parseRecommendations validates and defaults a raw /recommendations payload.
// A missing recommendations field yields an empty slice; entries without a
// name are dropped rather than propagated.
func parseRecommendations(raw json.RawMessage) (*RecommendationsResponse, []int, error) {
	var resp RecommendationsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, nil, err
	}
	valid := make([]Profile, 0, len(resp.Recommendations))
	var dropped []int
	for i, p := range resp.Recommendations {
		if strings.TrimSpace(p.Name) == "" {
			dropped = append(dropped, i)
			continue
		}
		valid = append(valid, p)
	}
	resp.Recommendations = valid
	return &resp, dropped, nil
}
