// Package model defines shared data structures.
package model

// SentenceRecord captures one completed sentence. Immutable once created.
type SentenceRecord struct {
	WPM          float64
	CorrectChars int
	TotalChars   int
	DurationMin  float64
	Words        int
}

// Accuracy returns the record's correct/total ratio, 1.0 when empty.
func (r SentenceRecord) Accuracy() float64 {
	if r.TotalChars == 0 {
		return 1.0
	}
	return float64(r.CorrectChars) / float64(r.TotalChars)
}

// Snapshot is the persisted subset of session state needed to resume.
type Snapshot struct {
	SentenceIndex int
	TotalWords    int
	History       []SentenceRecord
}

// Profile holds lifetime typing statistics.
type Profile struct {
	TotalTimeSeconds  int64
	StreakCurrent     int
	StreakBest        int
	LastActiveDay     string
	TestsStarted      int
	TestsCompleted    int
	MilestoneNotified bool
}

// Config defines practice settings.
type Config struct {
	PassagePath  string
	MilestoneWPM int
}
