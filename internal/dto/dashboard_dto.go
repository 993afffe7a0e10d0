package dto

type DashboardStatisticsResponse struct {
	CommunitiesJoined int64 `json:"communities_joined"`
	PostsCreated      int64 `json:"posts_created"`
	CommentsPosted    int64 `json:"comments_posted"`
	LikesReceived     int64 `json:"likes_received"`
	LikesGiven        int64 `json:"likes_given"`
	ActiveDays        int64 `json:"active_days"`

	CommunitiesGrowth int `json:"communities_growth"`
	PostsGrowth       int `json:"posts_growth"`
	EngagementGrowth  int `json:"engagement_growth"`
	ActivityGrowth    int `json:"activity_growth"`

	JoinDate            string  `json:"join_date"`
	FavoriteHobbyName   string  `json:"favorite_hobby_name,omitempty"`
	MostActiveHobbyName string  `json:"most_active_hobby_name,omitempty"`
	TotalEngagement     int64   `json:"total_engagement"`
	EngagementRate      float64 `json:"engagement_rate"`
}

type EngagementSummaryResponse struct {
	RecentPosts    []PostResponse `json:"recent_posts"`
	RecentLikes    int64          `json:"recent_likes"`
	RecentComments int64          `json:"recent_comments"`
}
