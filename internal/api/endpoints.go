package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

const (
	pathPending     = "interacoes/pendentes/"
	pathToday       = "interacoes/hoje/"
	pathQuota       = "interacoes/pendentes/metas/"
	pathHistory     = "interacoes/historico/"
	pathPartners    = "parceiros-list/"
	pathSellers     = "usuarios-por-canal/"
	pathRegister    = "interacoes/registrar/"
	pathOpportunity = "oportunidades/registrar/"
	pathTrigger     = "criar-gatilho-manual/"
	pathUpload      = "upload-gatilhos/"
	pathLogin       = "login/"
)

// PendingQuery selects one page of pending interactions
type PendingQuery struct {
	Page    int
	Filters models.Filters
}

func (q PendingQuery) values() url.Values {
	page := q.Page
	if page < 1 {
		page = 1
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("page_size", strconv.Itoa(constants.PageSize))
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("parceiro_id", q.Filters.Partner)
	set("canal_id", q.Filters.Channel)
	set("consultor", q.Filters.Seller)
	set("status", q.Filters.Status)
	set("gatilho", q.Filters.Trigger)
	return v
}

func (c *Client) Pending(ctx context.Context, q PendingQuery) (models.PendingPage, error) {
	var dto pendingDTO
	if err := c.get(ctx, pathPending, q.values(), &dto); err != nil {
		return models.PendingPage{}, err
	}
	return models.PendingPage{
		Records:  interactionModels(dto.Results),
		Total:    dto.Count,
		Statuses: dto.Statuses,
		Triggers: dto.Triggers,
	}, nil
}

// Today returns every interaction registered today, unpaginated
func (c *Client) Today(ctx context.Context) ([]models.Interaction, error) {
	var dto []interactionDTO
	if err := c.get(ctx, pathToday, nil, &dto); err != nil {
		return nil, err
	}
	return interactionModels(dto), nil
}

func (c *Client) Partners(ctx context.Context) ([]models.Partner, error) {
	var dto []partnerDTO
	if err := c.get(ctx, pathPartners, nil, &dto); err != nil {
		return nil, err
	}
	out := make([]models.Partner, 0, len(dto))
	for _, p := range dto {
		out = append(out, models.Partner{ID: int(p.ID), Name: p.Name})
	}
	return out, nil
}

func (c *Client) Quota(ctx context.Context) (models.Quota, error) {
	var dto quotaDTO
	if err := c.get(ctx, pathQuota, nil, &dto); err != nil {
		return models.Quota{}, err
	}
	return models.Quota{Current: dto.Done, Target: dto.Target}, nil
}

// Sellers lists the consultants of one channel
func (c *Client) Sellers(ctx context.Context, channelID string) ([]models.Seller, error) {
	if channelID == "" {
		return nil, errors.New("channel id is required")
	}
	var dto []sellerDTO
	if err := c.get(ctx, pathSellers, url.Values{"canal_id": {channelID}}, &dto); err != nil {
		return nil, err
	}
	out := make([]models.Seller, 0, len(dto))
	for _, s := range dto {
		name := s.Name
		if name == "" {
			name = s.Username
		}
		out = append(out, models.Seller{ID: int(s.ID), Name: name})
	}
	return out, nil
}

// RegisterInteraction records an interaction. With Opportunity set the
// opportunity endpoint is used and the value and note travel with it.
func (c *Client) RegisterInteraction(ctx context.Context, req models.InteractionRequest) error {
	if !req.Opportunity {
		return c.post(ctx, pathRegister, interactionPayload{
			PartnerID: req.PartnerID,
			Type:      string(req.Type),
		}, nil)
	}
	var value float64
	if req.Value != nil {
		value = *req.Value
	}
	return c.post(ctx, pathOpportunity, opportunityPayload{
		PartnerID: req.PartnerID,
		Type:      string(req.Type),
		Value:     value,
		Note:      req.Note,
	}, nil)
}

func (c *Client) CreateTrigger(ctx context.Context, req models.TriggerRequest) error {
	return c.post(ctx, pathTrigger, triggerPayload{
		PartnerID:   req.PartnerID,
		Description: req.Description,
	}, nil)
}

// UploadTriggers sends a spreadsheet of triggers as multipart form data.
// The content is held in memory so the request can be replayed.
func (c *Client) UploadTriggers(ctx context.Context, name string, content []byte) (models.UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.UploadResult{}, fmt.Errorf("failed to build upload: %w", err)
	}

	var dto uploadDTO
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        pathUpload,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, &dto)
	if err != nil {
		return models.UploadResult{}, err
	}
	return models.UploadResult{
		Message: dto.Message,
		Created: dto.Created,
		Updated: dto.Updated,
		Errors:  dto.Errors,
	}, nil
}

// History lists past interactions with one partner, newest first
func (c *Client) History(ctx context.Context, partnerID int) ([]models.HistoryEntry, error) {
	var dto []historyDTO
	q := url.Values{"parceiro_id": {strconv.Itoa(partnerID)}}
	if err := c.get(ctx, pathHistory, q, &dto); err != nil {
		return nil, err
	}
	out := make([]models.HistoryEntry, 0, len(dto))
	for _, h := range dto {
		out = append(out, models.HistoryEntry{
			Timestamp: h.Timestamp.Time,
			Type:      constants.InteractionType(h.Type),
			Username:  h.User.Username,
		})
	}
	return out, nil
}

// Credentials is the result of a successful login
type Credentials struct {
	Access  string
	Refresh string
	Profile models.Profile
}

// Login exchanges a username, email or seller id plus password for a
// token pair. It never sends the stored token.
func (c *Client) Login(ctx context.Context, identifier, password string) (Credentials, error) {
	body, err := jsonBody(credentialsPayload{Identifier: identifier, Password: password})
	if err != nil {
		return Credentials{}, err
	}
	var dto loginDTO
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        pathLogin,
		body:        body,
		contentType: "application/json",
		anonymous:   true,
	}, &dto)
	if err != nil {
		return Credentials{}, err
	}
	if dto.Access == "" {
		return Credentials{}, fmt.Errorf("%w: login response has no access token", ErrMalformed)
	}
	profile := dto.User.model()
	profile.APIURL = c.BaseURL()
	return Credentials{Access: dto.Access, Refresh: dto.Refresh, Profile: profile}, nil
}

// Ping checks that the backend answers. Any HTTP response counts, even
// an error status: only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodGet, anonymous: true}, nil)
	var se *StatusError
	if errors.As(err, &se) {
		return nil
	}
	return err
}
