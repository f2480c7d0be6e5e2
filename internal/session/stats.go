package session

import "math"

// Estimator constants. The 4-record WPM window keeps speed reactive to recent
// sentences while accuracy smooths over the full history; the 70/30 blend and
// 5-chars-per-word convention are part of the behavioral contract.
const (
	wpmWindow     = 4
	historyWeight = 0.7
	liveWeight    = 0.3
	charsPerWord  = 5.0
	msPerMinute   = 60000.0
)

// Recompute derives the blended WPM and accuracy from the rolling history and
// the in-progress sentence counters. It is a pure function of that state plus
// the clock and is invoked after every keystroke and every completion.
func (s *Session) Recompute() (wpm, accuracy int) {
	inProgress := !s.sentenceStart.IsZero() && s.cursor > 0
	currentWPM := 0.0
	if inProgress {
		durationMin := float64(s.now().Sub(s.sentenceStart).Milliseconds()) / msPerMinute
		if durationMin > 0 {
			currentWPM = (float64(s.cursor) / charsPerWord) / durationMin
		}
	}

	switch {
	case s.history.Len() > 0:
		avg := 0.0
		last := s.history.Last(wpmWindow)
		for _, rec := range last {
			avg += rec.WPM
		}
		avg /= float64(len(last))
		if inProgress {
			wpm = int(math.Round(avg*historyWeight + currentWPM*liveWeight))
		} else {
			wpm = int(math.Round(avg))
		}
	case inProgress:
		wpm = int(math.Round(currentWPM))
	}

	correct, total := s.history.CharTotals()
	correct += s.sentenceCorrect
	total += s.sentenceTotal
	if total > 0 {
		accuracy = int(math.Round(float64(correct) / float64(total) * 100))
	} else {
		accuracy = 100
	}
	return wpm, accuracy
}
