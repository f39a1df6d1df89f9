package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/nicelgueta/whatsapp-utility/internal/index"
)

type Result struct {
	ChatKey string
	Seq     int
	Ts      string
	Sender  string
	Senders string // all senders of the chat
	LastTS  string
	Snippet string
	Rank    float64
}

type Options struct {
	Query  string
	Sender string // "" = all
	Since  string // "" = no filter, e.g. "2024-01-01"
	Chat   string // "" = all chats
	Dedup  bool   // keep only the best hit per chat
	Limit  int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	// find rune position of idx
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// Search runs a full-text query over the indexed messages. Queries that
// contain CJK fall back to substring matching, since the unicode61 FTS
// tokenizer does not segment those scripts.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	var (
		results []Result
		err     error
	)
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}
	if opts.Dedup {
		results = dedupByChat(results)
	}
	return results, nil
}

// dedupByChat keeps the first (best-ranked) result per chat, preserving
// the original ranking order.
func dedupByChat(results []Result) []Result {
	seen := make(map[string]struct{}, len(results))
	out := results[:0]
	for _, r := range results {
		if _, ok := seen[r.ChatKey]; ok {
			continue
		}
		seen[r.ChatKey] = struct{}{}
		out = append(out, r)
	}
	return out
}

func filterConditions(opts Options) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	}
	if opts.Since != "" {
		conditions = append(conditions, "m.date >= ?")
		args = append(args, opts.Since)
	}
	if opts.Chat != "" {
		conditions = append(conditions, "m.chat_key = ?")
		args = append(args, opts.Chat)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"messages_fts MATCH ?"}
	args := []interface{}{opts.Query}

	fc, fa := filterConditions(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			m.seq,
			m.ts,
			m.sender,
			c.senders,
			c.last_ts,
			snippet(messages_fts, 0, '>>>', '<<<', '...', 40) as snip,
			bm25(messages_fts, 1.0) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"m.body LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}

	fc, fa := filterConditions(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			m.seq,
			m.ts,
			m.sender,
			c.senders,
			c.last_ts,
			m.body
		FROM messages m
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY m.ts DESC
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(
			&r.ChatKey, &r.Seq, &r.Ts, &r.Sender,
			&r.Senders, &r.LastTS, &fullText,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		r.Rank = 0
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.ChatKey, &r.Seq, &r.Ts, &r.Sender,
			&r.Senders, &r.LastTS, &r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListChats returns one row per indexed chat, most recently active first.
// A non-empty filter substring-matches the chat key and sender list.
func ListChats(db *index.DB, filter string, limit int) ([]Result, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	if filter != "" {
		conditions = append(conditions, "(c.chat_key LIKE ? OR c.senders LIKE ?)")
		pat := "%" + filter + "%"
		args = append(args, pat, pat)
	}
	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT c.chat_key, c.senders, c.last_ts, c.message_count
		FROM chats c
		WHERE %s
		ORDER BY c.last_ts DESC
	`, where)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var count int
		if err := rows.Scan(&r.ChatKey, &r.Senders, &r.LastTS, &count); err != nil {
			return nil, err
		}
		r.Seq = -1
		r.Ts = r.LastTS
		r.Snippet = fmt.Sprintf("%d messages · %s", count, r.Senders)
		results = append(results, r)
	}
	return results, rows.Err()
}
