package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nicelgueta/whatsapp-utility/internal/chat"
	"github.com/nicelgueta/whatsapp-utility/internal/grammar"
	"github.com/nicelgueta/whatsapp-utility/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("order Pizza now", "pizza")
	assert.Equal(t, "order "+colorBoldRed+"Pizza"+colorReset+" now", got)

	// FTS operators are not highlighted
	got = highlightKeywords("this AND that", "AND")
	assert.Equal(t, "this AND that", got)

	assert.Equal(t, "text", highlightKeywords("text", ""))
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, "  a\n  b", indentLines("a\nb", "  "))
	assert.Equal(t, "> x", indentLines("x", "> "))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcd", "efg"}, wrapLine("abcdefg", 4))
	assert.Equal(t, []string{"short"}, wrapLine("short", 10))
	assert.Equal(t, []string{"nowrap"}, wrapLine("nowrap", 0))
	assert.Equal(t, []string{""}, wrapLine("", 4))
}

func TestWrapLineSkipsANSI(t *testing.T) {
	// the escape sequence occupies zero visible columns
	line := colorDim + "abcd" + colorReset + "ef"
	got := wrapLine(line, 4)
	require.Len(t, got, 2)
	assert.Equal(t, colorDim+"abcd"+colorReset, got[0])
	assert.Equal(t, "ef", got[1])
}

func TestSenderColor(t *testing.T) {
	senders := "Alice, Bob"
	assert.Equal(t, senderPalette[0], senderColor("Alice", senders))
	assert.Equal(t, senderPalette[1], senderColor("Bob", senders))
	assert.Equal(t, colorSystem, senderColor("", senders))
	assert.Equal(t, colorDim, senderColor("Eve", senders))
}

func renderTestDB(t *testing.T) *index.DB {
	t.Helper()

	root := t.TempDir()
	content := `1/1/23, 10:00 - Alice: we should order pizza tonight
1/1/23, 10:05 - Bob: great idea
1/1/23, 10:06 - Bob: with extra cheese
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "mum.txt"), []byte(content), 0o644))

	profile, err := grammar.Lookup("android-eu")
	require.NoError(t, err)

	db, err := index.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = index.IndexAll(db, root, chat.NewParser(profile), "android-eu")
	require.NoError(t, err)
	return db
}

func TestRenderChat(t *testing.T) {
	db := renderTestDB(t)

	out, hitLine, err := RenderChat(db, "mum", Options{HitSeq: 1, Context: 5, Query: "idea"})
	require.NoError(t, err)

	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "pizza tonight")
	assert.Contains(t, out, colorBoldRed+"idea"+colorReset)
	assert.Contains(t, out, colorHit)

	// the hit line points at the highlighted header
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), hitLine)
	assert.Contains(t, lines[hitLine], ">> Bob")
}

func TestRenderChatWindowMarkers(t *testing.T) {
	db := renderTestDB(t)

	out, _, err := RenderChat(db, "mum", Options{HitSeq: 2, Context: -1})
	require.NoError(t, err)
	assert.NotContains(t, out, "messages before")

	out, _, err = RenderChat(db, "mum", Options{HitSeq: 2, Context: 1})
	require.NoError(t, err)
	assert.Contains(t, out, "(1 messages before)")
}

func TestRenderChatUnknownChat(t *testing.T) {
	db := renderTestDB(t)

	_, _, err := RenderChat(db, "nope", Options{})
	assert.Error(t, err)
}
