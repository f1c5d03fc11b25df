package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuimorse/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuimorse.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertSession(t *testing.T, st *Store, endedAt time.Time, chars []model.CharStats) int64 {
	t.Helper()
	stats := model.SessionStats{
		StartedAt:   endedAt.Add(-20 * time.Second),
		EndedAt:     endedAt,
		Target:      "CQ DX",
		Decoded:     "CQ DX",
		ThresholdMs: 300,
		LetterGapMs: 500,
		WordGapMs:   1000,
		Presses:     12,
		Correct:     4,
		Incorrect:   1,
		Unknown:     1,
		DurationMs:  20000,
	}
	id, err := st.InsertSession(context.Background(), stats, chars)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := insertSession(t, st, base, nil)
	second := insertSession(t, st, base.Add(time.Hour), []model.CharStats{{Char: "C", Correct: 1}})

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != first || sessions[1].SessionID != second {
		t.Fatalf("unexpected order: %+v", sessions)
	}
	if sessions[0].Target != "CQ DX" || sessions[0].Unknown != 1 {
		t.Fatalf("unexpected session fields: %+v", sessions[0])
	}

	since := base.Add(30 * time.Minute)
	filtered, err := st.ListSessions(context.Background(), model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list filtered sessions: %v", err)
	}
	if len(filtered) != 1 || filtered[0].SessionID != second {
		t.Fatalf("unexpected filtered sessions: %+v", filtered)
	}
}

func TestGetWeakCharsUsesRecentWindow(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	insertSession(t, st, base, []model.CharStats{{Char: "Q", Correct: 0, Incorrect: 5}})
	insertSession(t, st, base.Add(time.Minute), []model.CharStats{{Char: "K", Correct: 3, Incorrect: 2}})

	aggs, err := st.GetWeakChars(context.Background(), 1)
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	if len(aggs) != 1 || aggs[0].Char != "K" || aggs[0].Incorrect != 2 {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}

	none, err := st.GetWeakChars(context.Background(), 0)
	if err != nil || none != nil {
		t.Fatalf("expected no aggregates for empty window, got %+v, %v", none, err)
	}
}

func TestListCharStatsForSessions(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id := insertSession(t, st, base, []model.CharStats{
		{Char: "C", Correct: 2, LatencySumMs: 900, LatencyCount: 2},
		{Char: "Q", Incorrect: 1},
	})
	perSession, err := st.ListCharStatsForSessions(context.Background(), []int64{id}, []string{"C"})
	if err != nil {
		t.Fatalf("char stats: %v", err)
	}
	agg, ok := perSession[id]["C"]
	if !ok || agg.Correct != 2 || agg.LatencySumMs != 900 {
		t.Fatalf("unexpected char stats: %+v", perSession)
	}
	if _, ok := perSession[id]["Q"]; ok {
		t.Fatalf("expected Q to be filtered out")
	}
}
