package service_test

import (
	"testing"
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"
	"github.com/rentpulse/rentpulse-assistant-go/internal/service"

	"go.uber.org/zap"
)

func newSessions(t *testing.T, ttl time.Duration) *service.SessionManager {
	t.Helper()
	return service.NewSessionManager(ttl, observability.NewMetrics(), zap.NewNop())
}

func TestSessionManager_MintsAndResolves(t *testing.T) {
	m := newSessions(t, time.Minute)

	id, st, release := m.Acquire("")
	if id == "" {
		t.Fatal("empty session id minted")
	}
	st.Remember("Mumbai", domain.IntentDemandForecast)
	release()

	id2, st2, release2 := m.Acquire(id)
	defer release2()
	if id2 != id {
		t.Fatalf("id changed: %s vs %s", id2, id)
	}
	if st2.LastCity != "Mumbai" {
		t.Fatalf("state not retained: %+v", st2)
	}
}

func TestSessionManager_UnknownIDMintsFresh(t *testing.T) {
	m := newSessions(t, time.Minute)

	id, st, release := m.Acquire("not-a-real-session")
	defer release()
	if id == "not-a-real-session" {
		t.Fatal("unknown id should be replaced")
	}
	if st.LastCity != "" || len(st.History) != 0 {
		t.Fatalf("fresh state expected: %+v", st)
	}
}

func TestSessionManager_Drop(t *testing.T) {
	m := newSessions(t, time.Minute)

	id, st, release := m.Acquire("")
	st.UserName = "Priya"
	release()

	m.Drop(id)

	id2, st2, release2 := m.Acquire(id)
	defer release2()
	if id2 == id {
		t.Fatal("dropped session should not resolve")
	}
	if st2.UserName != "" {
		t.Fatalf("state survived drop: %+v", st2)
	}
}

func TestSessionManager_Expiry(t *testing.T) {
	m := newSessions(t, 10*time.Millisecond)

	id, _, release := m.Acquire("")
	release()

	time.Sleep(30 * time.Millisecond)

	id2, _, release2 := m.Acquire(id)
	defer release2()
	if id2 == id {
		t.Fatal("expired session should not resolve")
	}
}
