package models

// Partner is a selectable partner reference
type Partner struct {
	ID   int
	Name string
}

// Channel is a sales channel reference
type Channel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Seller is a consultant attached to a sales channel
type Seller struct {
	ID   int
	Name string
}

// Quota is the daily interaction target
type Quota struct {
	Current int
	Target  int
}

// Remaining returns how many interactions are left to hit the target
func (q Quota) Remaining() int {
	if q.Current >= q.Target {
		return 0
	}
	return q.Target - q.Current
}

// Percent returns progress towards the target, capped at 100
func (q Quota) Percent() float64 {
	if q.Target <= 0 {
		return 0
	}
	p := float64(q.Current) / float64(q.Target) * 100
	if p > 100 {
		return 100
	}
	return p
}

// PartnerName looks up a partner's display name by id
func PartnerName(partners []Partner, id int) (string, bool) {
	for _, p := range partners {
		if p.ID == id {
			return p.Name, true
		}
	}
	return "", false
}

// ChannelName looks up a channel's display name by id
func ChannelName(channels []Channel, id int) (string, bool) {
	for _, c := range channels {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}
