package chat

// Store owns the ordered message sequence for one transcript and exposes
// derived read-only views over it. Stores are built once by the parser and
// never mutated afterwards, so every view is safe to read concurrently.
type Store struct {
	messages []Message

	senders  []string // first-appearance order, system notices excluded
	bySender map[string][]int

	dates  []string // ascending
	byDate map[string][]int
}

func newStore(msgs []Message) *Store {
	s := &Store{
		messages: msgs,
		bySender: make(map[string][]int),
		byDate:   make(map[string][]int),
	}
	for i, m := range msgs {
		if !m.IsSystem() {
			if _, ok := s.bySender[m.Sender]; !ok {
				s.senders = append(s.senders, m.Sender)
			}
			s.bySender[m.Sender] = append(s.bySender[m.Sender], i)
		}
		d := m.Date()
		if _, ok := s.byDate[d]; !ok {
			s.dates = append(s.dates, d)
		}
		s.byDate[d] = append(s.byDate[d], i)
	}
	// transcripts are chronological, so date keys arrive nearly sorted;
	// insertion sort keeps the common case cheap
	for i := 1; i < len(s.dates); i++ {
		for j := i; j > 0 && s.dates[j] < s.dates[j-1]; j-- {
			s.dates[j], s.dates[j-1] = s.dates[j-1], s.dates[j]
		}
	}
	return s
}

// Len returns the number of messages.
func (s *Store) Len() int { return len(s.messages) }

// At returns the message at sequence index i.
func (s *Store) At(i int) Message { return s.messages[i] }

// Messages returns the full ordered sequence. Callers must not modify the
// returned slice.
func (s *Store) Messages() []Message { return s.messages }

// Senders lists senders in order of first appearance. System notices are
// not senders.
func (s *Store) Senders() []string { return s.senders }

// BySender returns the sender's messages in transcript order.
func (s *Store) BySender(name string) []Message {
	return s.collect(s.bySender[name])
}

// Dates lists the calendar dates present in the transcript, ascending.
func (s *Store) Dates() []string { return s.dates }

// ByDate returns the messages of one calendar date in transcript order.
func (s *Store) ByDate(date string) []Message {
	return s.collect(s.byDate[date])
}

func (s *Store) collect(idx []int) []Message {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Message, len(idx))
	for i, j := range idx {
		out[i] = s.messages[j]
	}
	return out
}
