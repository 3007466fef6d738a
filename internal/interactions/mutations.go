package interactions

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/retry"
)

// mutation describes one write: its loading concern, the request, what
// a success does to the state and what goes into the journal
type mutation struct {
	concern   constants.Concern
	failure   string
	run       func(ctx context.Context) error
	onSuccess func(s *State)
	onFailure func(s *State)
	activity  func() models.Activity
}

// RegisterInteraction records the interaction typed into row. With an
// opportunity the value draft is parsed as a localized amount and sent
// along with the note; without one no value is sent at all.
func (c *Controller) RegisterInteraction(ctx context.Context, row int, withOpportunity bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	rec, ok := findRow(c.state.Dynamic, row)
	if !ok {
		return c.rejectLocked(invalid("row", constants.MsgUnknownRow))
	}
	kind := c.state.Editing.TypeFor(row)
	if kind == "" {
		return c.rejectLocked(invalid("type", constants.MsgMissingType))
	}
	req := models.InteractionRequest{PartnerID: rec.PartnerID, Type: kind}
	if withOpportunity {
		value, err := models.ParseAmount(c.state.Editing.Value)
		if err != nil {
			return c.rejectLocked(invalid("value", constants.MsgInvalidValue))
		}
		req.Opportunity = true
		req.Value = &value
		req.Note = strings.TrimSpace(c.state.Editing.Note)
	}
	c.mu.Unlock()

	activity := models.Activity{
		Kind:      constants.ActivityInteraction,
		PartnerID: rec.PartnerID,
		Summary:   fmt.Sprintf("%s with %s", kind.Label(), rec.PartnerName),
	}
	if req.Opportunity {
		activity.Kind = constants.ActivityOpportunity
		activity.Summary = fmt.Sprintf("%s with %s, opportunity %s", kind.Label(), rec.PartnerName, models.FormatAmount(*req.Value))
	}

	return c.mutate(ctx, mutation{
		concern: constants.ConcernInteraction,
		failure: constants.MsgInteractionFailed,
		run: func(ctx context.Context) error {
			return c.backend.RegisterInteraction(ctx, req)
		},
		onSuccess: func(s *State) {
			s.Editing = s.Editing.cleared()
		},
		onFailure: func(s *State) {
			// the drafts stay for a retry from the same row
			s.Editing.Expanded = 0
		},
		activity: func() models.Activity { return activity },
	})
}

// CreateManualTrigger attaches the trigger form's description to its
// partner
func (c *Controller) CreateManualTrigger(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	form := c.state.Trigger
	partnerID, err := strconv.Atoi(strings.TrimSpace(form.PartnerID))
	if err != nil || partnerID <= 0 {
		return c.rejectLocked(invalid("partner", constants.MsgMissingPartner))
	}
	desc := strings.TrimSpace(form.Description)
	if desc == "" {
		return c.rejectLocked(invalid("description", constants.MsgMissingDescription))
	}
	name, _ := models.PartnerName(c.state.Static.Partners, partnerID)
	c.mu.Unlock()

	req := models.TriggerRequest{PartnerID: partnerID, Description: desc}
	return c.mutate(ctx, mutation{
		concern: constants.ConcernTrigger,
		failure: constants.MsgTriggerFailed,
		run: func(ctx context.Context) error {
			return c.backend.CreateTrigger(ctx, req)
		},
		onSuccess: func(s *State) {
			s.Trigger = TriggerForm{}
		},
		activity: func() models.Activity {
			summary := desc
			if name != "" {
				summary = fmt.Sprintf("%s: %s", name, desc)
			}
			return models.Activity{Kind: constants.ActivityTrigger, PartnerID: partnerID, Summary: summary}
		},
	})
}

// UploadTriggers sends a spreadsheet of triggers. The server's summary
// is kept in State.LastUpload.
func (c *Controller) UploadTriggers(ctx context.Context, name string, content []byte) error {
	if strings.TrimSpace(name) == "" || len(content) == 0 {
		c.mu.Lock()
		return c.rejectLocked(invalid("file", constants.MsgMissingFile))
	}

	var result models.UploadResult
	return c.mutate(ctx, mutation{
		concern: constants.ConcernUpload,
		failure: constants.MsgUploadFailed,
		run: func(ctx context.Context) error {
			var err error
			result, err = c.backend.UploadTriggers(ctx, name, content)
			return err
		},
		onSuccess: func(s *State) {
			r := result
			s.LastUpload = &r
		},
		activity: func() models.Activity {
			return models.Activity{
				Kind:    constants.ActivityUpload,
				Summary: fmt.Sprintf("%s: %d created, %d updated", name, result.Created, result.Updated),
			}
		},
	})
}

// rejectLocked surfaces a validation failure. It must be called with the
// lock held and releases it.
func (c *Controller) rejectLocked(err *ValidationError) error {
	c.state.Message = err.Message
	c.unlockAndEmit()
	return err
}

func (c *Controller) mutate(ctx context.Context, m mutation) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Loading[m.concern] {
		c.mu.Unlock()
		return ErrBusy
	}
	cycle := c.mutations[m.concern].BeginWithin(ctx)
	c.setLoadingLocked(m.concern, true)
	c.unlockAndEmit()

	err := retry.Do(cycle.Context(), c.policy, m.run)

	c.mu.Lock()
	c.setLoadingLocked(m.concern, false)
	if err != nil {
		if retry.IsCancelled(err) {
			c.unlockAndEmit()
			return cancelledErr(cycle.Context(), err)
		}
		log.Error("mutation failed", "concern", m.concern, "error", err)
		c.state.Message = m.failure
		if m.onFailure != nil {
			m.onFailure(&c.state)
		}
		c.unlockAndEmit()
		return err
	}
	if m.onSuccess != nil {
		m.onSuccess(&c.state)
	}
	c.unlockAndEmit()

	log.Info("mutation succeeded", "concern", m.concern)
	c.record(m.activity())

	if err := c.LoadDynamic(ctx); err != nil && !retry.IsCancelled(err) {
		log.Debug("reload after mutation failed", "concern", m.concern, "error", err)
	}
	return nil
}

func (c *Controller) record(a models.Activity) {
	if c.opts.Journal == nil {
		return
	}
	a.CreatedAt = c.opts.Clock.Now()
	if err := c.opts.Journal.RecordActivity(a); err != nil {
		log.Warn("failed to record activity", "kind", a.Kind, "error", err)
	}
}
