// Package dialogue holds the short-lived per-conversation memory that
// lets the engine resolve follow-up queries ("and what about
// Bangalore?"). One State per session, threaded explicitly through the
// orchestrator — never a process-wide singleton.
package dialogue

import "github.com/rentpulse/rentpulse-assistant-go/internal/domain"

// State is the conversational memory of one session. Best-effort, not
// transactional: it is mutated only by the orchestrator after a turn
// completes and is never rolled back.
type State struct {
	LastCity   string
	LastIntent domain.IntentKind

	// LastTrend is the signed percent change computed by the most
	// recent historical rendering; nil until one has run. Demand
	// forecasts for the same city contrast against it.
	LastTrend *float64

	// History is the ordered list of raw queries this session.
	History []string

	// UserName is learned from a self-introduction during greeting.
	UserName string
}

// New returns an empty session state.
func New() *State {
	return &State{}
}

// HasContext reports whether enough context exists for follow-up
// classification.
func (s *State) HasContext() bool {
	return s != nil && s.LastCity != "" && s.LastIntent != ""
}

// Remember records the resolved city and intent of a completed turn.
func (s *State) Remember(city string, intent domain.IntentKind) {
	s.LastCity = city
	s.LastIntent = intent
}

// SetTrend stores the trend percentage computed from a historical
// series rendering.
func (s *State) SetTrend(pct float64) {
	s.LastTrend = &pct
}

// Turns returns how many queries this session has seen.
func (s *State) Turns() int {
	return len(s.History)
}
