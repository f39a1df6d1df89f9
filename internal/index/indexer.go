package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/scan"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll scans the export root and (re-)indexes every transcript whose
// mtime or size changed since the last run. Chats whose export file
// disappeared are pruned. A transcript that fails to parse is reported
// and skipped; it never aborts the run.
func IndexAll(db *DB, root string, parser *chat.Parser, profileName string) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoot(root)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		chatKey := keyFor(root, fi.Path)
		seenKeys[chatKey] = struct{}{}

		needs, err := needsUpdate(db, chatKey, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		store, err := parseTranscript(parser, fi.Path)
		if err != nil {
			stats.Errors++
			fmt.Fprintf(os.Stderr, "  WARN: parse %s: %v\n", fi.Path, err)
			delete(seenKeys, chatKey)
			continue
		}

		if err := indexChat(db, chatKey, fi, profileName, store); err != nil {
			stats.Errors++
			fmt.Fprintf(os.Stderr, "  WARN: index %s: %v\n", fi.Path, err)
			continue
		}
		stats.Updated++
	}

	// prune chats whose export files no longer exist
	pruned, err := pruneChats(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

// keyFor derives a stable chat key from the export path relative to the
// root, e.g. "family/WhatsApp Chat with Mum".
func keyFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".txt")
}

func parseTranscript(parser *chat.Parser, path string) (*chat.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.Parse(f)
}

func needsUpdate(db *DB, chatKey string, mtime, size int64) (bool, error) {
	info, err := db.GetChatInfo(chatKey)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new chat
	}
	return info.Mtime != mtime || info.Size != size, nil
}

const tsLayout = "2006-01-02T15:04:05Z"

func indexChat(db *DB, chatKey string, fi scan.FileInfo, profileName string, store *chat.Store) error {
	// delete old data first
	if err := db.DeleteChat(chatKey); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	first := store.At(0)
	last := store.At(store.Len() - 1)

	_, err = tx.Exec(
		`INSERT INTO chats (chat_key, file_path, profile, first_ts, last_ts, senders, message_count, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chatKey,
		fi.Path,
		profileName,
		first.Timestamp.Format(tsLayout),
		last.Timestamp.Format(tsLayout),
		strings.Join(store.Senders(), ", "),
		store.Len(),
		fi.Mtime,
		fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (chat_key, seq, ts, date, sender, body, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range store.Messages() {
		_, err := stmt.Exec(
			chatKey,
			m.Seq,
			m.Timestamp.Format(tsLayout),
			m.Date(),
			m.Sender,
			m.Body,
			m.Line,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneChats(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllChatKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteChat(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
