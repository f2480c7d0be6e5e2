package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/typedrift/retype/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "retype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load empty snapshot: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot before first save, got %+v", snap)
	}

	want := model.Snapshot{
		SentenceIndex: 3,
		TotalWords:    42,
		History: []model.SentenceRecord{
			{WPM: 30.5, CorrectChars: 18, TotalChars: 20, DurationMin: 0.1, Words: 3},
			{WPM: 45, CorrectChars: 22, TotalChars: 22, DurationMin: 0.08, Words: 4},
		},
	}
	if err := s.SaveSnapshot(ctx, want); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	got, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if got == nil {
		t.Fatalf("expected snapshot after save")
	}
	if got.SentenceIndex != want.SentenceIndex || got.TotalWords != want.TotalWords {
		t.Fatalf("scalar fields mismatch: got %+v", got)
	}
	if len(got.History) != len(want.History) {
		t.Fatalf("expected %d history records, got %d", len(want.History), len(got.History))
	}
	for i := range want.History {
		if got.History[i] != want.History[i] {
			t.Errorf("record %d mismatch: got %+v, want %+v", i, got.History[i], want.History[i])
		}
	}
}

func TestSaveSnapshotOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := model.Snapshot{
		SentenceIndex: 1,
		TotalWords:    10,
		History: []model.SentenceRecord{
			{WPM: 20, CorrectChars: 5, TotalChars: 5, DurationMin: 0.1, Words: 1},
			{WPM: 25, CorrectChars: 5, TotalChars: 6, DurationMin: 0.1, Words: 1},
		},
	}
	if err := s.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}

	second := model.Snapshot{
		SentenceIndex: 2,
		TotalWords:    11,
		History: []model.SentenceRecord{
			{WPM: 30, CorrectChars: 5, TotalChars: 5, DurationMin: 0.1, Words: 1},
		},
	}
	if err := s.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}

	got, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if got.SentenceIndex != 2 || got.TotalWords != 11 {
		t.Fatalf("expected second snapshot scalars, got %+v", got)
	}
	if len(got.History) != 1 || got.History[0].WPM != 30 {
		t.Fatalf("stale history rows survived overwrite: %+v", got.History)
	}
}

func TestClearSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := model.Snapshot{
		SentenceIndex: 1,
		TotalWords:    5,
		History:       []model.SentenceRecord{{WPM: 20, CorrectChars: 5, TotalChars: 5, DurationMin: 0.1, Words: 1}},
	}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := s.ClearSnapshot(ctx); err != nil {
		t.Fatalf("clear snapshot: %v", err)
	}
	got, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil snapshot after clear, got %+v", got)
	}
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := model.Snapshot{
		SentenceIndex: 2,
		TotalWords:    9,
		History:       []model.SentenceRecord{{WPM: 40, CorrectChars: 9, TotalChars: 10, DurationMin: 0.1, Words: 2}},
	}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := s.AddTotalTime(ctx, 300); err != nil {
		t.Fatalf("add total time: %v", err)
	}
	if err := s.IncrementTestsStarted(ctx); err != nil {
		t.Fatalf("increment started: %v", err)
	}
	if err := s.IncrementTestsCompleted(ctx); err != nil {
		t.Fatalf("increment completed: %v", err)
	}
	if err := s.SetStreak(ctx, 3, 6, "2026-09-01"); err != nil {
		t.Fatalf("set streak: %v", err)
	}
	if err := s.SetMilestoneNotified(ctx); err != nil {
		t.Fatalf("set milestone: %v", err)
	}
	if err := s.LogActivity(ctx, "2026-09-01"); err != nil {
		t.Fatalf("log activity: %v", err)
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	got, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if got != nil {
		t.Errorf("snapshot survived clear: %+v", got)
	}
	prof, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if prof != (model.Profile{}) {
		t.Errorf("profile survived clear: %+v", prof)
	}
	log, err := s.ActivityLog(ctx)
	if err != nil {
		t.Fatalf("activity log: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("activity survived clear: %v", log)
	}
}

func TestProfileDefaultsAndUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.TotalTimeSeconds != 0 || p.StreakCurrent != 0 || p.TestsStarted != 0 || p.MilestoneNotified {
		t.Fatalf("expected zero-value profile, got %+v", p)
	}

	if err := s.AddTotalTime(ctx, 90); err != nil {
		t.Fatalf("add total time: %v", err)
	}
	if err := s.AddTotalTime(ctx, 30); err != nil {
		t.Fatalf("add total time: %v", err)
	}
	if err := s.IncrementTestsStarted(ctx); err != nil {
		t.Fatalf("increment started: %v", err)
	}
	if err := s.IncrementTestsCompleted(ctx); err != nil {
		t.Fatalf("increment completed: %v", err)
	}
	if err := s.SetStreak(ctx, 2, 5, "2026-09-01"); err != nil {
		t.Fatalf("set streak: %v", err)
	}
	if err := s.SetMilestoneNotified(ctx); err != nil {
		t.Fatalf("set milestone: %v", err)
	}

	p, err = s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.TotalTimeSeconds != 120 {
		t.Errorf("expected 120 total seconds, got %d", p.TotalTimeSeconds)
	}
	if p.TestsStarted != 1 || p.TestsCompleted != 1 {
		t.Errorf("expected 1/1 counters, got %d/%d", p.TestsStarted, p.TestsCompleted)
	}
	if p.StreakCurrent != 2 || p.StreakBest != 5 || p.LastActiveDay != "2026-09-01" {
		t.Errorf("streak fields mismatch: %+v", p)
	}
	if !p.MilestoneNotified {
		t.Errorf("expected milestone notified")
	}
}

func TestActivityLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.LogActivity(ctx, "2026-09-01"); err != nil {
			t.Fatalf("log activity: %v", err)
		}
	}
	if err := s.LogActivity(ctx, "2026-09-02"); err != nil {
		t.Fatalf("log activity: %v", err)
	}

	log, err := s.ActivityLog(ctx)
	if err != nil {
		t.Fatalf("activity log: %v", err)
	}
	if log["2026-09-01"] != 3 || log["2026-09-02"] != 1 {
		t.Fatalf("unexpected activity counts: %v", log)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retype.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	snap := model.Snapshot{SentenceIndex: 4, TotalWords: 7}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	}()
	got, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if got == nil || got.SentenceIndex != 4 || got.TotalWords != 7 {
		t.Fatalf("snapshot did not survive reopen: %+v", got)
	}
}
