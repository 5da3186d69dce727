package model

import "time"

type Comment struct {
	ID        string        `json:"_id"`
	VideoID   string        `json:"video"`
	OwnerID   string        `json:"-"`
	Owner     *OwnerSummary `json:"owner,omitempty"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (c Comment) OwnedBy() string { return c.OwnerID }
