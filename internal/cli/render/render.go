// Package render prints command output as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Table writes rows under headers. An empty rows slice prints empty
// instead of a bare header.
func Table(w io.Writer, headers []string, rows [][]string, empty string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(empty))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

// Pending prints one page of pending interactions
func Pending(w io.Writer, records []models.Interaction) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			partner(r),
			r.Unit,
			r.Classification,
			r.Status,
			orDash(r.ChannelName),
			orDash(r.ExtraTrigger),
		})
	}
	Table(w, []string{"ID", "Partner", "Unit", "Class", "Status", "Channel", "Trigger"}, rows, "No pending interactions.")
}

// Today prints the interactions registered today
func Today(w io.Writer, records []models.Interaction) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			partner(r),
			r.Type.Label(),
			Timestamp(r.Timestamp),
			orDash(r.Consultant),
			orDash(r.ChannelName),
		})
	}
	Table(w, []string{"ID", "Partner", "Type", "When", "Consultant", "Channel"}, rows, "No interactions registered today.")
}

// History prints a partner's past interactions
func History(w io.Writer, entries []models.HistoryEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		t := e.Timestamp
		rows = append(rows, []string{Timestamp(&t), e.Type.Label(), orDash(e.Username)})
	}
	Table(w, []string{"When", "Type", "User"}, rows, "No interactions recorded for this partner.")
}

// Activity prints the local activity journal
func Activity(w io.Writer, entries []models.Activity) {
	rows := make([][]string, 0, len(entries))
	for _, a := range entries {
		t := a.CreatedAt
		rows = append(rows, []string{Timestamp(&t), a.Kind, a.Summary})
	}
	Table(w, []string{"When", "Kind", "Summary"}, rows, "No activity recorded yet.")
}

// Quota prints the daily goal with a text progress bar
func Quota(w io.Writer, q models.Quota) {
	const width = 30
	filled := int(q.Percent() / 100 * width)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
	fmt.Fprintf(w, "Daily goal: %d/%d [%s] %.0f%%\n", q.Current, q.Target, bar, q.Percent())
	if left := q.Remaining(); left > 0 {
		fmt.Fprintf(w, "%d interaction(s) left today\n", left)
	} else {
		fmt.Fprintln(w, "Goal reached")
	}
}

// Pager prints the page position under a paged list
func Pager(w io.Writer, page, pages, total int) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("page %d of %d · %d records", page, pages, total)))
}

// Timestamp renders an optional timestamp in local time
func Timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(constants.DateTimeFormat)
}

func partner(r models.Interaction) string {
	if r.PartnerName == "" {
		return strconv.Itoa(r.PartnerID)
	}
	return fmt.Sprintf("%s (%d)", r.PartnerName, r.PartnerID)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
