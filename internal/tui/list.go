package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/nicelgueta/whatsapp-utility/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: search results list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// styledSender renders a sender name in the chat's stable palette color.
func styledSender(sender, senders string) string {
	if sender == "" {
		return styleSystem.Render("system")
	}
	for i, s := range strings.Split(senders, ", ") {
		if s == sender {
			return senderStyles[i%len(senderStyles)].Render(sender)
		}
	}
	return sender
}

// formatResultLine formats a single search result as two lines:
//
//	line 1: [>] sender  date  chat
//	line 2:    snippet (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	// Chat rows from list mode have no message-level sender
	label := styledSender(r.Sender, r.Senders)
	if r.Seq < 0 {
		label = styleListSelected.Render(chatBase(r.ChatKey))
	}

	// Extract short date from the timestamp (e.g. "2021-04-27" -> "04-27")
	date := r.Ts
	if len(date) >= 10 {
		date = date[5:10] // MM-DD
	}

	// Truncate the chat name to fit width: leave room for prefix and date
	chatName := chatBase(r.ChatKey)
	if r.Seq < 0 {
		chatName = r.Senders
	}
	nameMax := width - 2 - runewidth.StringWidth(stripName(r)) - 6 - 2
	if nameMax < 0 {
		nameMax = 0
	}
	if runewidth.StringWidth(chatName) > nameMax {
		chatName = runewidth.Truncate(chatName, nameMax, "")
	}

	// Line 1: sender date chat
	line1 := fmt.Sprintf("%s %s %s", label, date, chatName)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	// Line 2: snippet (dimmed, indented)
	snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippet = strings.ReplaceAll(snippet, ">>>", "")
	snippet = strings.ReplaceAll(snippet, "<<<", "")
	snippetMax := width - 4 // indent
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// chatBase returns the last path element of a chat key.
func chatBase(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

// stripName returns the uncolored label text, for width math.
func stripName(r search.Result) string {
	if r.Seq < 0 {
		return chatBase(r.ChatKey)
	}
	if r.Sender == "" {
		return "system"
	}
	return r.Sender
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
