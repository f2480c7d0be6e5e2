// Package session implements the typing-session scoring engine.
package session

import "github.com/typedrift/retype/internal/model"

// HistoryCap bounds the rolling history of completed sentences.
const HistoryCap = 25

// History is a bounded FIFO of completed sentence records, oldest first.
type History struct {
	records []model.SentenceRecord
}

// Push appends a record, evicting the oldest when over capacity.
func (h *History) Push(rec model.SentenceRecord) {
	h.records = append(h.records, rec)
	if len(h.records) > HistoryCap {
		h.records = append(h.records[:0:0], h.records[len(h.records)-HistoryCap:]...)
	}
}

// Restore replaces the history with the newest HistoryCap records of recs.
func (h *History) Restore(recs []model.SentenceRecord) {
	if len(recs) > HistoryCap {
		recs = recs[len(recs)-HistoryCap:]
	}
	h.records = append([]model.SentenceRecord(nil), recs...)
}

// Reset discards all records.
func (h *History) Reset() {
	h.records = nil
}

// Len returns the number of stored records.
func (h *History) Len() int {
	return len(h.records)
}

// Records returns a copy of the stored records in completion order.
func (h *History) Records() []model.SentenceRecord {
	return append([]model.SentenceRecord(nil), h.records...)
}

// Last returns the newest n records (fewer if the history is shorter).
func (h *History) Last(n int) []model.SentenceRecord {
	if n <= 0 || len(h.records) == 0 {
		return nil
	}
	if n > len(h.records) {
		n = len(h.records)
	}
	return h.records[len(h.records)-n:]
}

// CharTotals sums correct and total characters over the whole history.
func (h *History) CharTotals() (correct, total int) {
	for _, rec := range h.records {
		correct += rec.CorrectChars
		total += rec.TotalChars
	}
	return correct, total
}
