package chat

import "time"

// DateLayout is the calendar-date key format used by the by-date views.
const DateLayout = "2006-01-02"

// Message is one logical chat entry, possibly reassembled from several
// physical lines. Immutable once emitted by the parser.
type Message struct {
	Seq       int       // position in the transcript, 0..N-1
	Timestamp time.Time // zero only for the headerless fallback
	Sender    string    // empty for system notices
	Body      string    // never empty; may contain newlines
	Line      int       // 1-based line number of the header in the source
}

// HasTimestamp reports whether the message carried a parsable header
// timestamp. False only for headerless preamble/fallback messages.
func (m Message) HasTimestamp() bool {
	return !m.Timestamp.IsZero()
}

// IsSystem reports whether the message is a system notice (no sender).
func (m Message) IsSystem() bool {
	return m.Sender == ""
}

// Date returns the calendar-date key for the by-date grouping.
func (m Message) Date() string {
	return m.Timestamp.Format(DateLayout)
}
