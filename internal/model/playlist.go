package model

import "time"

type Playlist struct {
	ID          string        `json:"_id"`
	OwnerID     string        `json:"-"`
	Owner       *OwnerSummary `json:"owner,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Thumbnail   string        `json:"thumbnail"`
	VideoCount  int           `json:"totalVideos"`
	Videos      []Video       `json:"videos,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (p Playlist) OwnedBy() string { return p.OwnerID }

type CreatePlaylistInput struct {
	Name          string
	Description   string
	ThumbnailPath string
}

type UpdatePlaylistInput struct {
	Name        *string
	Description *string
}
