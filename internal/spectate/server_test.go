package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/session"
)

type stubRuns struct {
	runs   []model.RunRecord
	err    error
	filter model.HistoryFilter
}

func (s *stubRuns) ListRuns(_ context.Context, filter model.HistoryFilter) ([]model.RunRecord, error) {
	s.filter = filter
	return s.runs, s.err
}

func TestStateNotFoundBeforeFirstSnapshot(t *testing.T) {
	srv := New(nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStateReturnsLatestSnapshot(t *testing.T) {
	srv := New(nil)
	srv.Observe(session.Snapshot{Status: model.StatusMenu, Level: 1})
	srv.Observe(session.Snapshot{Status: model.StatusPlaying, Level: 3, Score: 420})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "PLAYING" || got["level"] != float64(3) || got["score"] != float64(420) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestStateRejectsPost(t *testing.T) {
	srv := New(nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/state", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRunsAppliesFilter(t *testing.T) {
	runs := &stubRuns{runs: []model.RunRecord{{ID: "a", Score: 900, Outcome: model.OutcomeVictory}}}
	srv := New(runs)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?difficulty=hard&last=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if runs.filter.Difficulty == nil || *runs.filter.Difficulty != model.DifficultyHard || runs.filter.Last != 5 {
		t.Fatalf("unexpected filter: %+v", runs.filter)
	}
	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "a" || got[0]["outcome"] != "victory" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRunsErrors(t *testing.T) {
	cases := []struct {
		name string
		srv  *Server
		url  string
		want int
	}{
		{"disabled", New(nil), "/api/runs", http.StatusNotFound},
		{"bad difficulty", New(&stubRuns{}), "/api/runs?difficulty=extreme", http.StatusBadRequest},
		{"bad last", New(&stubRuns{}), "/api/runs?last=-1", http.StatusBadRequest},
		{"store failure", New(&stubRuns{err: errors.New("boom")}), "/api/runs", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		tc.srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}

func TestRunsEmptyIsArray(t *testing.T) {
	srv := New(&stubRuns{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, srv *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for srv.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, srv.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readSnapshot(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]any
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	return got
}

func TestWebsocketStreamsSnapshots(t *testing.T) {
	srv := New(nil)
	srv.Observe(session.Snapshot{Status: model.StatusStory, Level: 1})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	if got := readSnapshot(t, conn); got["status"] != "STORY" {
		t.Fatalf("expected initial STORY snapshot, got %v", got["status"])
	}
	waitClients(t, srv, 1)

	srv.Observe(session.Snapshot{Status: model.StatusPlaying, Level: 1, Combo: 2})
	got := readSnapshot(t, conn)
	if got["status"] != "PLAYING" || got["combo"] != float64(2) {
		t.Fatalf("unexpected snapshot: %v", got)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	srv := New(nil)
	slow := &client{id: 7, out: make(chan session.Snapshot, clientBuffer)}
	srv.clients[slow.id] = slow
	for i := 0; i < clientBuffer; i++ {
		slow.out <- session.Snapshot{}
	}

	done := make(chan struct{})
	go func() {
		srv.Observe(session.Snapshot{Status: model.StatusPlaying})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Observe blocked on a slow client")
	}
	if srv.Clients() != 0 {
		t.Fatalf("expected slow client to be dropped")
	}
	n := 0
	for range slow.out {
		n++
	}
	if n != clientBuffer {
		t.Fatalf("expected queued snapshots to drain, got %d", n)
	}
}

func TestShutdownClosesClients(t *testing.T) {
	srv := New(nil)
	addr, err := srv.Start("127.0.0.1:0")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitClients(t, srv, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if srv.Clients() != 0 {
		t.Fatalf("expected no clients after shutdown")
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected connection to close")
	}
}
