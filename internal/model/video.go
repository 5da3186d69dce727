package model

import "time"

type Video struct {
	ID          string        `json:"_id"`
	OwnerID     string        `json:"-"`
	Owner       *OwnerSummary `json:"owner,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	VideoURL    string        `json:"videoFile"`
	Thumbnail   string        `json:"thumbnail"`
	Views       int64         `json:"views"`
	IsPublished bool          `json:"isPublished"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (v Video) OwnedBy() string { return v.OwnerID }

type VideoFilter struct {
	ListQuery
	OwnerID            string
	IncludeUnpublished bool
}

type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

type UpdateVideoInput struct {
	Title         *string
	Description   *string
	ThumbnailPath string
}

type WatchHistoryEntry struct {
	Video     Video     `json:"video"`
	WatchedAt time.Time `json:"watchedAt"`
}
