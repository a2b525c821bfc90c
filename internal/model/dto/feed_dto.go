package dto

// Feed sources reported in metadata.
const (
	FeedSourceML     = "ml_recommendations"
	FeedSourceRandom = "random"
)

// FeedRequest carries feed pagination. Values outside the allowed range
// are rejected, not clamped.
type FeedRequest struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// FeedMetadata describes how a feed page was assembled.
type FeedMetadata struct {
	Total        int    `json:"total"`
	Offset       int    `json:"offset"`
	Limit        int    `json:"limit"`
	Source       string `json:"source"`
	ModelVersion string `json:"model_version,omitempty"`
	GeneratedAt  string `json:"generated_at"`
}

// FeedResponse is a page of ranked posts plus assembly metadata.
type FeedResponse struct {
	Posts    []*PostItem   `json:"posts"`
	Metadata *FeedMetadata `json:"metadata"`
}

// FeedStats summarizes a viewer's recent feed activity.
type FeedStats struct {
	TotalPosts        int64            `json:"total_posts"`
	TotalUsers        int64            `json:"total_users"`
	TotalInteractions int64            `json:"total_interactions"`
	ByType            map[string]int64 `json:"by_type"`
}
