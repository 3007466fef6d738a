package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StatePending:
		content = m.viewList(m.pending.View(), m.view.PendingPage, m.view.PendingPages, m.view.PendingTotal)
	case constants.StateToday:
		content = m.viewList(m.today.View(), m.view.TodayPage, m.view.TodayPages, m.view.TodayTotal)
	default:
		if m.form != nil {
			content = docStyle.Render(m.form.View())
		}
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewTabs(),
		m.viewFilters(),
		m.viewBanner(),
		content,
		m.help.View(m),
	)
	return ui
}

func (m Model) viewHeader() string {
	title := titleStyle.Render(constants.AppName)
	user := mutedStyle.Render(fmt.Sprintf("%s (%s)", m.profile.Username, m.profile.Role))

	var status string
	if m.snapshot.Loading.Any() {
		status = m.spinner.View() + mutedStyle.Render(" loading")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", user, "  ", m.viewQuota(), "  ", status)
}

func (m Model) viewQuota() string {
	if m.snapshot.Loading[constants.ConcernQuota] || !m.snapshot.Initialized {
		return mutedStyle.Render("daily goal: -")
	}
	return renderQuota(m.snapshot.Static.Quota, 20)
}

// renderQuota draws the daily goal as a bar of width cells
func renderQuota(q models.Quota, width int) string {
	filled := int(q.Percent() / 100 * float64(width))
	bar := quotaFilled.Render(strings.Repeat("█", filled)) + quotaEmpty.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("daily goal %d/%d %s %.0f%%", q.Current, q.Target, bar, q.Percent())
}

func (m Model) viewTabs() string {
	active := m.state
	if active != constants.StateToday {
		active = constants.StatePending
	}
	if m.form != nil {
		active = m.previous
	}
	tabs := []struct {
		state constants.SessionState
		title string
	}{
		{constants.StatePending, fmt.Sprintf("Pending (%d)", m.view.PendingTotal)},
		{constants.StateToday, fmt.Sprintf("Today (%d)", m.view.TodayTotal)},
	}
	var out []string
	for _, tab := range tabs {
		if tab.state == active {
			out = append(out, activeTabStyle.Render(tab.title))
		} else {
			out = append(out, inactiveTabStyle.Render(tab.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) viewFilters() string {
	if m.searching {
		return m.search.View()
	}
	f := m.snapshot.Filters
	var parts []string
	if f.Partner != "" {
		name, ok := models.PartnerName(m.snapshot.Static.Partners, atoi(f.Partner))
		if !ok {
			name = "#" + f.Partner
		}
		parts = append(parts, "partner: "+name)
	}
	if f.Channel != "" {
		name, ok := models.ChannelName(m.snapshot.Static.Channels, atoi(f.Channel))
		if !ok {
			name = "#" + f.Channel
		}
		parts = append(parts, "channel: "+name)
	}
	if f.Seller != "" {
		name := "#" + f.Seller
		for _, s := range m.snapshot.Sellers {
			if strconv.Itoa(s.ID) == f.Seller {
				name = s.Name
			}
		}
		parts = append(parts, "seller: "+name)
	}
	if f.Status != "" {
		parts = append(parts, "status: "+f.Status)
	}
	if f.Trigger != "" {
		parts = append(parts, "trigger: "+f.Trigger)
	}
	if len(parts) == 0 {
		return mutedStyle.Render("no filters")
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}

func (m Model) viewBanner() string {
	switch {
	case m.snapshot.Message != "":
		return dangerStyle.Render("⚠ "+m.snapshot.Message) + mutedStyle.Render("  [x] dismiss")
	case m.formErr != "":
		return warningStyle.Render(m.formErr)
	case m.snapshot.LastUpload != nil:
		u := m.snapshot.LastUpload
		text := fmt.Sprintf("Upload: %d created, %d updated", u.Created, u.Updated)
		if len(u.Errors) > 0 {
			text += fmt.Sprintf(", %d rejected", len(u.Errors))
		}
		return successStyle.Render(text)
	}
	return ""
}

func (m Model) viewList(table string, page, pages, total int) string {
	if pages == 0 {
		pages = 1
	}
	pager := mutedStyle.Render(fmt.Sprintf("page %d of %d · %d records", page, pages, total))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, table, "", pager))
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
