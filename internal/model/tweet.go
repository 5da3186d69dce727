package model

import "time"

type Tweet struct {
	ID        string        `json:"_id"`
	OwnerID   string        `json:"-"`
	Owner     *OwnerSummary `json:"owner,omitempty"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (t Tweet) OwnedBy() string { return t.OwnerID }
