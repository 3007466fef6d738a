package interactions

import (
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

// ViewModel is what the interactions screen renders
type ViewModel struct {
	Pending      []models.Interaction
	PendingTotal int
	PendingPage  int
	PendingPages int

	// Today is the current page of the partner-filtered list
	Today      []models.Interaction
	TodayTotal int
	TodayPage  int
	TodayPages int
}

// Derive builds the view model. Both lists are filtered by exact partner
// id. Pending rows are already a server page and are shown in full; the
// today list is sliced locally into pages of PageSize. todayPage below 1
// is treated as 1.
func Derive(pending, today []models.Interaction, partnerFilter string, todayPage int) ViewModel {
	if todayPage < 1 {
		todayPage = 1
	}

	filtered := byPartner(today, partnerFilter)

	start := (todayPage - 1) * constants.PageSize
	end := start + constants.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return ViewModel{
		Pending:    byPartner(pending, partnerFilter),
		Today:      filtered[start:end:end],
		TodayTotal: len(filtered),
		TodayPage:  todayPage,
		TodayPages: models.PageCount(len(filtered)),
	}
}

func byPartner(records []models.Interaction, partnerID string) []models.Interaction {
	out := make([]models.Interaction, 0, len(records))
	for _, rec := range records {
		if rec.MatchesPartner(partnerID) {
			out = append(out, rec)
		}
	}
	return out
}

// View derives the view model of the current state
func (c *Controller) View() ViewModel {
	return ViewOf(c.State())
}

// ViewOf derives the view model of a snapshot
func ViewOf(s State) ViewModel {
	vm := Derive(s.Dynamic.Pending, s.Dynamic.Today, s.Filters.Partner, s.Pages.Today)
	vm.PendingTotal = s.Dynamic.PendingTotal
	vm.PendingPage = s.Pages.Pending
	vm.PendingPages = models.PageCount(s.Dynamic.PendingTotal)
	return vm
}
