package model

type ChannelStats struct {
	TotalSubscribers        int     `json:"totalSubscribers"`
	TotalVideos             int     `json:"totalVideos"`
	TotalViews              int64   `json:"totalViews"`
	TotalLikes              int     `json:"totalLikes"`
	NewSubscribersThisMonth int     `json:"newSubscribersThisMonth"`
	AverageViewsPerVideo    float64 `json:"averageViewsPerVideo"`
}
