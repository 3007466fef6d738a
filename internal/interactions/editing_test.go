package interactions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/salesops/internal/constants"
)

func TestExpandCollapse(t *testing.T) {
	h := started(t, newBackend())
	c := h.ctrl

	c.Expand(1)
	c.SetValueDraft("500")
	c.SetNoteDraft("ligar amanhã")
	assert.Equal(t, 1, c.State().Editing.Expanded)

	// rows 1 and 2 share a partner
	c.Expand(2)
	e := c.State().Editing
	assert.Equal(t, 2, e.Expanded)
	assert.Equal(t, "500", e.Value)
	assert.Equal(t, "ligar amanhã", e.Note)

	// row 3 belongs to another partner
	c.Expand(3)
	e = c.State().Editing
	assert.Equal(t, 3, e.Expanded)
	assert.Empty(t, e.Value)
	assert.Empty(t, e.Note)

	c.SetTypeDraft(3, constants.InteractionVisit)
	c.SetValueDraft("7")
	c.Collapse()
	e = c.State().Editing
	assert.Zero(t, e.Expanded)
	assert.Empty(t, e.Value)
	assert.Equal(t, constants.InteractionVisit, e.TypeFor(3))
}

func TestTypeDraftsAreCopied(t *testing.T) {
	h := started(t, newBackend())

	h.ctrl.SetTypeDraft(1, constants.InteractionEmail)
	before := h.ctrl.State()
	h.ctrl.SetTypeDraft(2, constants.InteractionCall)
	h.ctrl.SetTypeDraft(1, "")

	assert.Equal(t, constants.InteractionEmail, before.Editing.TypeFor(1), "published snapshots never change")
	assert.Empty(t, before.Editing.TypeFor(2))

	after := h.ctrl.State().Editing
	assert.Empty(t, after.TypeFor(1))
	assert.Equal(t, constants.InteractionCall, after.TypeFor(2))
}
