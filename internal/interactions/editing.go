package interactions

import (
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

// Expand opens the inline form of row, collapsing any other. The value
// and note drafts carry over only between rows of the same partner.
func (c *Controller) Expand(row int) {
	c.update(func(s *State) {
		e := s.Editing
		if e.draftRow != 0 && e.draftRow != row && !samePartner(s.Dynamic, e.draftRow, row) {
			e.Value = ""
			e.Note = ""
		}
		e.Expanded = row
		e.draftRow = row
		s.Editing = e
	})
}

// Collapse closes the open row and discards its drafts. The chosen
// interaction type is kept.
func (c *Controller) Collapse() {
	c.update(func(s *State) {
		s.Editing = s.Editing.cleared()
	})
}

func (e Editing) cleared() Editing {
	e.Expanded = 0
	e.Value = ""
	e.Note = ""
	e.draftRow = 0
	return e
}

// SetTypeDraft records the interaction type chosen for row
func (c *Controller) SetTypeDraft(row int, t constants.InteractionType) {
	c.update(func(s *State) {
		types := make(map[int]constants.InteractionType, len(s.Editing.Types)+1)
		for k, v := range s.Editing.Types {
			types[k] = v
		}
		if t == "" {
			delete(types, row)
		} else {
			types[row] = t
		}
		s.Editing.Types = types
	})
}

// SetValueDraft records the opportunity value as typed
func (c *Controller) SetValueDraft(v string) {
	c.update(func(s *State) { s.Editing.Value = v })
}

// SetNoteDraft records the opportunity note
func (c *Controller) SetNoteDraft(note string) {
	c.update(func(s *State) { s.Editing.Note = note })
}

// SetTriggerPartner selects the partner of the manual trigger form
func (c *Controller) SetTriggerPartner(partnerID string) {
	c.update(func(s *State) { s.Trigger.PartnerID = partnerID })
}

// SetTriggerDescription sets the manual trigger description
func (c *Controller) SetTriggerDescription(desc string) {
	c.update(func(s *State) { s.Trigger.Description = desc })
}

// findRow looks a row up in the pending list, then the today list
func findRow(d Dynamic, id int) (models.Interaction, bool) {
	for _, list := range [][]models.Interaction{d.Pending, d.Today} {
		for _, rec := range list {
			if rec.ID == id {
				return rec, true
			}
		}
	}
	return models.Interaction{}, false
}

func samePartner(d Dynamic, a, b int) bool {
	ra, okA := findRow(d, a)
	rb, okB := findRow(d, b)
	return okA && okB && ra.PartnerID == rb.PartnerID
}
