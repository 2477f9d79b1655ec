package sim

import "github.com/pthm-cable/meadow/components"

// ActionRecord is one entry of the optional action history.
type ActionRecord struct {
	AnimalID components.AnimalID `csv:"animal_id"`
	Tick     uint64              `csv:"tick"`
	Action   string              `csv:"action"`
	Detail   string              `csv:"detail"`
}

// ActionSink receives one record per animal per executed tick.
type ActionSink interface {
	Record(rec ActionRecord)
}

// HistoryRecorder is a bounded in-memory ActionSink. When the limit is
// reached the oldest records are dropped.
type HistoryRecorder struct {
	limit   int
	records []ActionRecord
}

// NewHistoryRecorder creates a recorder keeping at most limit records.
// A non-positive limit keeps everything.
func NewHistoryRecorder(limit int) *HistoryRecorder {
	return &HistoryRecorder{limit: limit}
}

// Record implements ActionSink.
func (h *HistoryRecorder) Record(rec ActionRecord) {
	h.records = append(h.records, rec)
	if h.limit > 0 && len(h.records) > h.limit {
		h.records = h.records[len(h.records)-h.limit:]
	}
}

// Records returns the retained records in order.
func (h *HistoryRecorder) Records() []ActionRecord {
	return h.records
}
