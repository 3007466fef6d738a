package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// timestamp accepts the handful of layouts the backend emits, with and
// without a zone
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// flexID accepts ids sent as numbers or numeric strings
type flexID int

func (f *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*f = flexID(n)
	return nil
}

type interactionDTO struct {
	ID             flexID     `json:"id"`
	PartnerID      flexID     `json:"parceiro_id"`
	Partner        string     `json:"parceiro"`
	PartnerName    string     `json:"parceiro_nome"`
	Unit           string     `json:"unidade"`
	Classification string     `json:"classificacao"`
	Status         string     `json:"status"`
	Contacted      *bool      `json:"entrou_em_contato"`
	Timestamp      *timestamp `json:"data_interacao"`
	Type           string     `json:"tipo"`
	ChannelID      flexID     `json:"canal_id"`
	ChannelType    string     `json:"canal_tipo"`
	ExtraTrigger   string     `json:"gatilho_extra"`
	Consultant     string     `json:"consultor"`
}

func (d interactionDTO) model() models.Interaction {
	m := models.Interaction{
		ID:             int(d.ID),
		PartnerID:      int(d.PartnerID),
		PartnerName:    d.PartnerName,
		Unit:           d.Unit,
		Classification: d.Classification,
		Status:         d.Status,
		Contacted:      d.Contacted,
		Type:           constants.InteractionType(d.Type),
		ChannelID:      int(d.ChannelID),
		ChannelType:    d.ChannelType,
		ExtraTrigger:   d.ExtraTrigger,
		Consultant:     d.Consultant,
	}
	// pending rows are partners, so the row id doubles as the partner id
	if m.PartnerID == 0 {
		m.PartnerID = m.ID
	}
	if m.PartnerName == "" {
		m.PartnerName = d.Partner
	}
	if d.Timestamp != nil && !d.Timestamp.IsZero() {
		ts := d.Timestamp.Time
		m.Timestamp = &ts
	}
	return m
}

func interactionModels(in []interactionDTO) []models.Interaction {
	out := make([]models.Interaction, 0, len(in))
	for _, d := range in {
		out = append(out, d.model())
	}
	return out
}

type pendingDTO struct {
	Count    int              `json:"count"`
	Results  []interactionDTO `json:"results"`
	Statuses []string         `json:"status_disponiveis"`
	Triggers []string         `json:"gatilhos_disponiveis"`
}

type partnerDTO struct {
	ID   flexID `json:"id"`
	Name string `json:"parceiro"`
}

type quotaDTO struct {
	Done   int `json:"interacoes_realizadas"`
	Target int `json:"meta_diaria"`
}

type sellerDTO struct {
	ID       flexID `json:"id"`
	Name     string `json:"nome"`
	Username string `json:"username"`
}

// channelDTO is either a bare channel name or an {id, nome} object
type channelDTO struct {
	ID   flexID `json:"id"`
	Name string `json:"nome"`
}

func (c *channelDTO) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		c.Name = name
		return nil
	}
	type plain channelDTO
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = channelDTO(p)
	return nil
}

type profileDTO struct {
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Role        string       `json:"tipo_user"`
	Channels    []channelDTO `json:"canais_venda"`
	SellerID    *flexID      `json:"id_vendedor"`
	FirstAccess bool         `json:"primeiro_acesso"`
}

func (p profileDTO) model() models.Profile {
	m := models.Profile{
		Username:    p.Username,
		Email:       p.Email,
		Role:        constants.Role(p.Role),
		FirstAccess: p.FirstAccess,
	}
	for _, c := range p.Channels {
		m.Channels = append(m.Channels, models.Channel{ID: int(c.ID), Name: c.Name})
	}
	if p.SellerID != nil && *p.SellerID != 0 {
		m.SellerID = strconv.Itoa(int(*p.SellerID))
	}
	return m
}

type loginDTO struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	User    profileDTO `json:"usuario"`
}

// userRef is a history author, sent either as a username or an object
type userRef struct {
	Username string `json:"username"`
}

func (u *userRef) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		u.Username = name
		return nil
	}
	type plain userRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*u = userRef(p)
	return nil
}

type historyDTO struct {
	Timestamp timestamp `json:"data_interacao"`
	Type      string    `json:"tipo"`
	User      userRef   `json:"usuario"`
}

type interactionPayload struct {
	PartnerID int    `json:"parceiro_id"`
	Type      string `json:"tipo"`
}

type opportunityPayload struct {
	PartnerID int     `json:"parceiro_id"`
	Type      string  `json:"tipo"`
	Value     float64 `json:"valor"`
	Note      string  `json:"observacao"`
}

type triggerPayload struct {
	PartnerID   int    `json:"parceiro_id"`
	Description string `json:"descricao"`
}

type uploadDTO struct {
	Message string   `json:"mensagem"`
	Created int      `json:"criadas"`
	Updated int      `json:"atualizadas"`
	Errors  []string `json:"erros"`
}

type credentialsPayload struct {
	Identifier string `json:"identificador"`
	Password   string `json:"senha"`
}
