package session

import (
	"fmt"
	"time"

	"github.com/typedrift/retype/internal/model"
	"github.com/typedrift/retype/internal/text"
)

// Source supplies the ordered, pre-normalized sentences a session types through.
type Source interface {
	Sentence(i int) string
	Len() int
}

// Persister stores and restores progress snapshots. Load returns nil when no
// snapshot exists.
type Persister interface {
	Load() (*model.Snapshot, error)
	Save(model.Snapshot) error
}

// Outcome classifies a single keystroke.
type Outcome int

// Keystroke outcomes.
const (
	OutcomeIgnored Outcome = iota
	OutcomeCorrect
	OutcomeIncorrect
)

// KeyResult reports the effect of one keystroke.
type KeyResult struct {
	Outcome         Outcome
	SentenceStarted bool
	Completed       *model.SentenceRecord
	WPM             int
	Accuracy        int
	// Err carries a snapshot-write failure from sentence completion. The
	// session keeps running; callers log it.
	Err error
}

// Session owns the typing state machine: cursor, per-sentence counters,
// rolling history, and derived WPM/accuracy. All methods are single-threaded.
type Session struct {
	source  Source
	persist Persister
	now     func() time.Time

	sentenceIndex   int
	sentence        []rune
	cursor          int
	sentenceStart   time.Time
	sentenceCorrect int
	sentenceTotal   int

	totalWords   int
	history      History
	sessionStart time.Time
	generation   uint64

	wpm      int
	accuracy int
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the session clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New builds a session over the source, restoring any persisted snapshot.
// A restored history is truncated to the newest HistoryCap records; the
// cursor, timers, and live counters always start fresh.
func New(source Source, persist Persister, opts ...Option) (*Session, error) {
	if source == nil || source.Len() == 0 {
		return nil, fmt.Errorf("text source is empty")
	}
	s := &Session{
		source:  source,
		persist: persist,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	snap, err := persist.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snap != nil {
		if snap.SentenceIndex >= 0 && snap.SentenceIndex < source.Len() {
			s.sentenceIndex = snap.SentenceIndex
		}
		if snap.TotalWords > 0 {
			s.totalWords = snap.TotalWords
		}
		s.history.Restore(snap.History)
	}
	s.loadSentence()
	s.wpm, s.accuracy = s.Recompute()
	return s, nil
}

// HandleKey judges one typed rune against the expected character at the
// cursor. The zero rune is ignored without any state change. A correct rune
// that reaches the sentence end completes the sentence, persists the snapshot
// before and after the advance, and rotates to the next sentence in the same
// call.
func (s *Session) HandleKey(r rune) KeyResult {
	if r == 0 {
		return KeyResult{Outcome: OutcomeIgnored, WPM: s.wpm, Accuracy: s.accuracy}
	}
	res := KeyResult{}
	if s.sessionStart.IsZero() {
		s.sessionStart = s.now()
	}
	if s.sentenceStart.IsZero() {
		s.sentenceStart = s.now()
		res.SentenceStarted = true
	}
	if s.cursor >= len(s.sentence) {
		// Sentence already finished, awaiting transition.
		res.Outcome = OutcomeIgnored
		res.WPM, res.Accuracy = s.wpm, s.accuracy
		return res
	}

	s.sentenceTotal++
	if r == s.sentence[s.cursor] {
		res.Outcome = OutcomeCorrect
		s.sentenceCorrect++
		s.cursor++
		if s.cursor >= len(s.sentence) {
			rec, err := s.completeSentence()
			res.Completed = &rec
			res.Err = err
		}
	} else {
		// Cursor holds; the same character must be retyped.
		res.Outcome = OutcomeIncorrect
	}

	s.wpm, s.accuracy = s.Recompute()
	res.WPM, res.Accuracy = s.wpm, s.accuracy
	return res
}

// completeSentence finalizes the current sentence into a record, pushes it
// onto the history, and advances to the next sentence. The snapshot is saved
// both before and after the advance so a crash in between leaves at most a
// one-sentence-old snapshot.
func (s *Session) completeSentence() (model.SentenceRecord, error) {
	words := text.CountWords(string(s.sentence))

	var durationMin float64
	if !s.sentenceStart.IsZero() {
		durationMin = float64(s.now().Sub(s.sentenceStart).Milliseconds()) / msPerMinute
	}
	wpm := 0.0
	if durationMin > 0 {
		wpm = float64(words) / durationMin
	}
	rec := model.SentenceRecord{
		WPM:          wpm,
		CorrectChars: s.sentenceCorrect,
		TotalChars:   s.sentenceTotal,
		DurationMin:  durationMin,
		Words:        words,
	}
	s.history.Push(rec)
	s.totalWords += words

	err := s.persist.Save(s.Snapshot())
	s.advance()
	if serr := s.persist.Save(s.Snapshot()); err == nil {
		err = serr
	}
	return rec, err
}

func (s *Session) advance() {
	s.sentenceIndex++
	if s.sentenceIndex >= s.source.Len() {
		s.sentenceIndex = 0
	}
	s.loadSentence()
}

func (s *Session) loadSentence() {
	s.sentence = []rune(s.source.Sentence(s.sentenceIndex))
	s.cursor = 0
	s.sentenceStart = time.Time{}
	s.sentenceCorrect = 0
	s.sentenceTotal = 0
	s.generation++
}

// Reset clears all progress: history, lifetime word count, sentence index,
// and live counters. The cleared snapshot is persisted immediately.
func (s *Session) Reset() error {
	s.sentenceIndex = 0
	s.totalWords = 0
	s.history.Reset()
	s.sessionStart = time.Time{}
	s.loadSentence()
	s.wpm, s.accuracy = s.Recompute()
	if err := s.persist.Save(s.Snapshot()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the persisted subset of the session state.
func (s *Session) Snapshot() model.Snapshot {
	return model.Snapshot{
		SentenceIndex: s.sentenceIndex,
		TotalWords:    s.totalWords,
		History:       s.history.Records(),
	}
}

// CurrentSentence returns the sentence the session is measured against.
func (s *Session) CurrentSentence() string {
	return string(s.sentence)
}

// SentenceIndex returns the index of the current sentence.
func (s *Session) SentenceIndex() int {
	return s.sentenceIndex
}

// Cursor returns the position of the next expected character.
func (s *Session) Cursor() int {
	return s.cursor
}

// TotalWords returns the lifetime word count.
func (s *Session) TotalWords() int {
	return s.totalWords
}

// WPM returns the last recomputed words-per-minute estimate.
func (s *Session) WPM() int {
	return s.wpm
}

// Accuracy returns the last recomputed accuracy percentage.
func (s *Session) Accuracy() int {
	return s.accuracy
}

// HistoryRecords returns the rolling history in completion order.
func (s *Session) HistoryRecords() []model.SentenceRecord {
	return s.history.Records()
}

// Generation increments on every sentence change. Timers scheduled against an
// older generation must treat their firing as a no-op.
func (s *Session) Generation() uint64 {
	return s.generation
}
