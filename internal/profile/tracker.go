// Package profile tracks lifetime typing statistics.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/typedrift/retype/internal/model"
	"github.com/typedrift/retype/internal/store"
)

// DefaultMilestoneWPM is the one-shot personal-best notification threshold.
const DefaultMilestoneWPM = 67

const dayFormat = "2006-01-02"

// Tracker records lifetime stats (active time, streaks, per-day activity,
// sentence counters) and owns the one-shot WPM milestone.
type Tracker struct {
	store        *store.Store
	now          func() time.Time
	milestoneWPM int

	// notified caches the persisted milestone flag once known, so the
	// per-keystroke threshold check does not touch the database.
	notified      bool
	notifiedKnown bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the tracker clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker builds a tracker over the store. A milestoneWPM of 0 falls back
// to DefaultMilestoneWPM.
func NewTracker(st *store.Store, milestoneWPM int, opts ...Option) *Tracker {
	if milestoneWPM <= 0 {
		milestoneWPM = DefaultMilestoneWPM
	}
	t := &Tracker{
		store:        st,
		now:          time.Now,
		milestoneWPM: milestoneWPM,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SentenceStarted bumps the started-sentences counter. Called when a sentence
// timer first starts.
func (t *Tracker) SentenceStarted() error {
	return t.store.IncrementTestsStarted(context.Background())
}

// SentenceCompleted folds a finished sentence into the lifetime stats and
// reports whether the WPM milestone fired for the first time.
func (t *Tracker) SentenceCompleted(rec model.SentenceRecord, wpm int) (milestone bool, err error) {
	ctx := context.Background()
	seconds := int64(rec.DurationMin * 60)
	if err := t.store.AddTotalTime(ctx, seconds); err != nil {
		return false, fmt.Errorf("failed to add session time: %w", err)
	}
	if err := t.store.IncrementTestsCompleted(ctx); err != nil {
		return false, fmt.Errorf("failed to count completion: %w", err)
	}

	today := t.now().Format(dayFormat)
	prof, err := t.store.GetProfile(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load profile: %w", err)
	}
	if err := t.updateStreak(ctx, prof, today); err != nil {
		return false, err
	}
	if err := t.store.LogActivity(ctx, today); err != nil {
		return false, fmt.Errorf("failed to log activity: %w", err)
	}

	return t.ObserveWPM(wpm)
}

// ObserveWPM checks a freshly recomputed WPM estimate against the milestone
// threshold and reports whether the one-shot milestone fired. Called after
// every keystroke, so a live estimate crossing the threshold mid-sentence
// fires even when the history average later lands below it.
func (t *Tracker) ObserveWPM(wpm int) (bool, error) {
	if wpm < t.milestoneWPM {
		return false, nil
	}
	ctx := context.Background()
	if !t.notifiedKnown {
		prof, err := t.store.GetProfile(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to load profile: %w", err)
		}
		t.notified = prof.MilestoneNotified
		t.notifiedKnown = true
	}
	if t.notified {
		return false, nil
	}
	if err := t.store.SetMilestoneNotified(ctx); err != nil {
		return false, fmt.Errorf("failed to mark milestone: %w", err)
	}
	t.notified = true
	return true, nil
}

// updateStreak advances the day streak: unchanged when today already counted,
// incremented after a consecutive day, restarted to 1 otherwise.
func (t *Tracker) updateStreak(ctx context.Context, prof model.Profile, today string) error {
	if prof.LastActiveDay == today {
		return nil
	}
	streak := 1
	if prof.LastActiveDay != "" {
		last, err := time.Parse(dayFormat, prof.LastActiveDay)
		if err == nil {
			cur, _ := time.Parse(dayFormat, today)
			if int(cur.Sub(last).Hours()/24) == 1 {
				streak = prof.StreakCurrent + 1
			}
		}
	}
	best := prof.StreakBest
	if streak > best {
		best = streak
	}
	if err := t.store.SetStreak(ctx, streak, best, today); err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}

// Summary returns the lifetime profile.
func (t *Tracker) Summary() (model.Profile, error) {
	return t.store.GetProfile(context.Background())
}

// MilestoneWPM returns the configured milestone threshold.
func (t *Tracker) MilestoneWPM() int {
	return t.milestoneWPM
}
