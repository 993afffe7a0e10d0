package dto

type PlatformStatsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	TotalHobbies     int64 `json:"total_hobbies"`
	TotalCommunities int64 `json:"total_communities"`
	TotalPosts       int64 `json:"total_posts"`
}
