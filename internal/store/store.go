// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/typedrift/retype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for progress snapshots and the lifetime profile.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			sentence_index INTEGER NOT NULL,
			total_words INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot_history (
			pos INTEGER PRIMARY KEY,
			wpm REAL NOT NULL,
			correct_chars INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			duration_min REAL NOT NULL,
			words INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_time_seconds INTEGER NOT NULL,
			streak_current INTEGER NOT NULL,
			streak_best INTEGER NOT NULL,
			last_active_day TEXT NOT NULL,
			tests_started INTEGER NOT NULL,
			tests_completed INTEGER NOT NULL,
			milestone_notified INTEGER NOT NULL
		);`,
		`INSERT OR IGNORE INTO profile (id, total_time_seconds, streak_current, streak_best, last_active_day, tests_started, tests_completed, milestone_notified)
			VALUES (1, 0, 0, 0, '', 0, 0, 0);`,
		`CREATE TABLE IF NOT EXISTS activity (
			day TEXT PRIMARY KEY,
			completed INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadSnapshot returns the persisted progress snapshot, or nil when none
// has been saved yet.
func (s *Store) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT sentence_index, total_words FROM snapshot WHERE id = 1`,
	).Scan(&snap.SentenceIndex, &snap.TotalWords)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT wpm, correct_chars, total_chars, duration_min, words
		 FROM snapshot_history ORDER BY pos ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var rec model.SentenceRecord
		if err := rows.Scan(&rec.WPM, &rec.CorrectChars, &rec.TotalChars, &rec.DurationMin, &rec.Words); err != nil {
			return nil, err
		}
		snap.History = append(snap.History, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SaveSnapshot overwrites the full snapshot in one transaction. There are no
// partial-field writes: the history rows are rewritten wholesale.
func (s *Store) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshot (id, sentence_index, total_words) VALUES (1, ?, ?)`,
		snap.SentenceIndex, snap.TotalWords,
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshot_history`); err != nil {
		return err
	}
	if len(snap.History) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO snapshot_history (pos, wpm, correct_chars, total_chars, duration_min, words)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, rec := range snap.History {
			if _, err = stmt.ExecContext(ctx, i, rec.WPM, rec.CorrectChars, rec.TotalChars, rec.DurationMin, rec.Words); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// ClearSnapshot removes the persisted progress.
func (s *Store) ClearSnapshot(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshot`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshot_history`); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// ClearAll wipes every piece of persisted progress: the snapshot, its history
// rows, the activity log, and the lifetime profile.
func (s *Store) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	stmts := []string{
		`DELETE FROM snapshot`,
		`DELETE FROM snapshot_history`,
		`DELETE FROM activity`,
		`UPDATE profile SET total_time_seconds = 0, streak_current = 0, streak_best = 0,
			last_active_day = '', tests_started = 0, tests_completed = 0, milestone_notified = 0
		 WHERE id = 1`,
	}
	for _, stmt := range stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

// GetProfile reads the lifetime profile row.
func (s *Store) GetProfile(ctx context.Context) (model.Profile, error) {
	var p model.Profile
	var notified int
	err := s.db.QueryRowContext(ctx,
		`SELECT total_time_seconds, streak_current, streak_best, last_active_day, tests_started, tests_completed, milestone_notified
		 FROM profile WHERE id = 1`,
	).Scan(&p.TotalTimeSeconds, &p.StreakCurrent, &p.StreakBest, &p.LastActiveDay, &p.TestsStarted, &p.TestsCompleted, &notified)
	if err != nil {
		return model.Profile{}, err
	}
	p.MilestoneNotified = notified != 0
	return p, nil
}

// AddTotalTime adds active typing seconds to the lifetime total.
func (s *Store) AddTotalTime(ctx context.Context, seconds int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profile SET total_time_seconds = total_time_seconds + ? WHERE id = 1`, seconds)
	return err
}

// IncrementTestsStarted bumps the started-sentences counter.
func (s *Store) IncrementTestsStarted(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profile SET tests_started = tests_started + 1 WHERE id = 1`)
	return err
}

// IncrementTestsCompleted bumps the completed-sentences counter.
func (s *Store) IncrementTestsCompleted(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profile SET tests_completed = tests_completed + 1 WHERE id = 1`)
	return err
}

// SetStreak stores the current and best day streaks and the last active day.
func (s *Store) SetStreak(ctx context.Context, current, best int, day string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profile SET streak_current = ?, streak_best = ?, last_active_day = ? WHERE id = 1`,
		current, best, day)
	return err
}

// SetMilestoneNotified marks the one-shot WPM milestone as fired.
func (s *Store) SetMilestoneNotified(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profile SET milestone_notified = 1 WHERE id = 1`)
	return err
}

// LogActivity increments the completion count for the given day.
func (s *Store) LogActivity(ctx context.Context, day string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (day, completed) VALUES (?, 1)
		 ON CONFLICT(day) DO UPDATE SET completed = completed + 1`, day)
	return err
}

// ActivityLog returns per-day completion counts.
func (s *Store) ActivityLog(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day, completed FROM activity`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	out := map[string]int{}
	for rows.Next() {
		var day string
		var completed int
		if err := rows.Scan(&day, &completed); err != nil {
			return nil, err
		}
		out[day] = completed
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
