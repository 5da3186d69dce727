package model

import "time"

type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

type Like struct {
	ID        string     `json:"_id"`
	UserID    string     `json:"likedBy"`
	Target    LikeTarget `json:"target"`
	TargetID  string     `json:"targetId"`
	CreatedAt time.Time  `json:"createdAt"`
}

type LikeToggleResult struct {
	IsLiked bool `json:"isLiked"`
}
