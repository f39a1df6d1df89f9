package chat

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/nicelgueta/whatsapp-utility/internal/grammar"
)

// ErrEmptyTranscript is returned when the input yields no messages at all.
var ErrEmptyTranscript = errors.New("chat: transcript contains no messages")

const maxLineSize = 1 * 1024 * 1024 // single physical line cap

// Parser turns raw transcript lines into an ordered message sequence using
// one grammar profile. A Parser is stateless across Parse calls; the
// message accumulator is local to each call.
type Parser struct {
	profile *grammar.Profile
}

func NewParser(profile *grammar.Profile) *Parser {
	return &Parser{profile: profile}
}

// accumulator holds the message currently being assembled.
type accumulator struct {
	ts     time.Time
	sender string
	lines  []string
	line   int // header line number
	open   bool
}

// Parse consumes the transcript in a single pass and returns the frozen
// store. The input is consumed; re-parsing requires re-acquiring the
// source. Individual malformed lines never fail the parse: a line that
// matches no header pattern continues the previous message, and leading
// headerless lines accumulate into an undated message. Only an input that
// produces no messages at all returns ErrEmptyTranscript.
func (p *Parser) Parse(r io.Reader) (*Store, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var msgs []Message
	var acc accumulator
	seq := 0
	lineNum := 0

	flush := func() {
		if !acc.open {
			return
		}
		body := strings.Join(acc.lines, "\n")
		if strings.TrimSpace(body) == "" {
			// empty body: no message, but the accumulator stays open so
			// later continuations still attach to this header
			return
		}
		msgs = append(msgs, Message{
			Seq:       seq,
			Timestamp: acc.ts,
			Sender:    acc.sender,
			Body:      body,
			Line:      acc.line,
		})
		seq++
		acc = accumulator{}
	}

	for scanner.Scan() {
		lineNum++
		c := p.profile.Classify(scanner.Text())

		switch c.Kind {
		case grammar.KindHeader:
			flush()
			acc = accumulator{ts: c.Timestamp, sender: c.Sender, lines: []string{c.Text}, line: lineNum, open: true}

		case grammar.KindSystem:
			flush()
			acc = accumulator{ts: c.Timestamp, lines: []string{c.Text}, line: lineNum, open: true}

		case grammar.KindContinuation:
			if !acc.open {
				// headerless start of transcript
				acc = accumulator{lines: nil, line: lineNum, open: true}
			}
			acc.lines = append(acc.lines, c.Text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(msgs) == 0 {
		return nil, ErrEmptyTranscript
	}
	return newStore(msgs), nil
}

// ParseLines is a convenience wrapper over Parse for pre-split input.
func (p *Parser) ParseLines(lines []string) (*Store, error) {
	return p.Parse(strings.NewReader(strings.Join(lines, "\n")))
}
