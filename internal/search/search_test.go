package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/grammar"
	"github.com/nicelgueta/whatsapp-utility/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mumExport = `1/1/23, 10:00 - Alice: we should order pizza tonight
1/1/23, 10:05 - Bob: great idea
2/1/23, 09:00 - Alice: 你好 from holiday
2/1/23, 09:05 - Bob: tonight works for me too
`

const teamExport = `5/3/23, 08:00 - Carol: standup moved to nine tonight
5/3/23, 08:05 - Dave: thanks for the heads up
`

func indexedDB(t *testing.T) *index.DB {
	t.Helper()

	root := t.TempDir()
	for rel, content := range map[string]string{
		"family/mum.txt": mumExport,
		"work/team.txt":  teamExport,
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	profile, err := grammar.Lookup("android-eu")
	require.NoError(t, err)

	db, err := index.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = index.IndexAll(db, root, chat.NewParser(profile), "android-eu")
	require.NoError(t, err)
	return db
}

func TestSearchFTS(t *testing.T) {
	db := indexedDB(t)

	results, err := Search(db, Options{Query: "pizza"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "family/mum", r.ChatKey)
	assert.Equal(t, 0, r.Seq)
	assert.Equal(t, "Alice", r.Sender)
	assert.Equal(t, "Alice, Bob", r.Senders)
	assert.Contains(t, r.Snippet, ">>>pizza<<<")
}

func TestSearchNoResults(t *testing.T) {
	db := indexedDB(t)

	results, err := Search(db, Options{Query: "nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSenderFilter(t *testing.T) {
	db := indexedDB(t)

	results, err := Search(db, Options{Query: "pizza", Sender: "Alice"})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = Search(db, Options{Query: "pizza", Sender: "Bob"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSinceFilter(t *testing.T) {
	db := indexedDB(t)

	results, err := Search(db, Options{Query: "idea", Since: "2023-01-01"})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = Search(db, Options{Query: "idea", Since: "2023-01-02"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchChatFilter(t *testing.T) {
	db := indexedDB(t)

	results, err := Search(db, Options{Query: "thanks", Chat: "work/team"})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = Search(db, Options{Query: "thanks", Chat: "family/mum"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLimit(t *testing.T) {
	db := indexedDB(t)

	// "tonight" matches three messages across the two chats
	results, err := Search(db, Options{Query: "tonight", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = Search(db, Options{Query: "tonight"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchDedupKeepsOneHitPerChat(t *testing.T) {
	db := indexedDB(t)

	// "tonight" hits twice in family/mum; dedup keeps the better hit
	results, err := Search(db, Options{Query: "tonight", Dedup: true})
	require.NoError(t, err)
	require.Len(t, results, 2)

	chats := map[string]int{}
	for _, r := range results {
		chats[r.ChatKey]++
	}
	assert.Equal(t, map[string]int{"family/mum": 1, "work/team": 1}, chats)
}

func TestSearchCJKFallsBackToSubstring(t *testing.T) {
	db := indexedDB(t)

	results, err := Search(db, Options{Query: "你好"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "family/mum", results[0].ChatKey)
	assert.Equal(t, 2, results[0].Seq)
	assert.Contains(t, results[0].Snippet, ">>>你好<<<")
}

func TestListChats(t *testing.T) {
	db := indexedDB(t)

	results, err := ListChats(db, "", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// most recently active first
	assert.Equal(t, "work/team", results[0].ChatKey)
	assert.Equal(t, "family/mum", results[1].ChatKey)

	for _, r := range results {
		assert.Equal(t, -1, r.Seq)
		assert.Contains(t, r.Snippet, "messages")
	}
}

func TestListChatsFilter(t *testing.T) {
	db := indexedDB(t)

	results, err := ListChats(db, "mum", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "family/mum", results[0].ChatKey)

	// filter also matches sender names
	results, err = ListChats(db, "Carol", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "work/team", results[0].ChatKey)

	results, err = ListChats(db, "zzz", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMakeSnippet(t *testing.T) {
	got := makeSnippet("aaaa match bbbb", "match", 3)
	assert.Equal(t, "...aa >>>match<<< bb...", got)

	// no occurrence returns the head
	got = makeSnippet("short text", "zzz", 30)
	assert.Equal(t, "short text", got)
}

func TestContainsCJK(t *testing.T) {
	assert.True(t, containsCJK("找 something"))
	assert.False(t, containsCJK("plain ascii"))
	assert.False(t, containsCJK("émojis 🎉"))
}
