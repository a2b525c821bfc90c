package dto

// PageRequest is the shared limit/offset query binding for list endpoints.
type PageRequest struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// CreatePostRequest is the new-post payload.
type CreatePostRequest struct {
	Content   string   `json:"content" binding:"required,max=500"`
	MediaURLs []string `json:"media_urls,omitempty" binding:"omitempty,max=4"`
}

// AuthorInfo is the embedded author block on posts and comments.
type AuthorInfo struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// PostItem is a post as rendered in feeds and lists. The Is* flags are
// relative to the requesting viewer and false for anonymous requests.
type PostItem struct {
	ID             string      `json:"id"`
	Content        string      `json:"content"`
	MediaURLs      []string    `json:"media_urls"`
	Author         *AuthorInfo `json:"author"`
	OriginalPostID string      `json:"original_post_id,omitempty"`
	OriginalPost   *PostItem   `json:"original_post,omitempty"`
	LikeCount      int64       `json:"like_count"`
	RepostCount    int64       `json:"repost_count"`
	CommentCount   int64       `json:"comment_count"`
	IsLiked        bool        `json:"is_liked"`
	IsReposted     bool        `json:"is_reposted"`
	CreatedAt      string      `json:"created_at"`
}

// LikeResponse reports the like state after a like or unlike.
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// RepostResponse returns the newly created repost.
type RepostResponse struct {
	Post *PostItem `json:"post"`
}

// CreateCommentRequest is the new-comment payload.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

// CommentItem is a comment as rendered under a post.
type CommentItem struct {
	ID        string      `json:"id"`
	PostID    string      `json:"post_id"`
	Content   string      `json:"content"`
	Author    *AuthorInfo `json:"author"`
	CreatedAt string      `json:"created_at"`
}

// CommentListResponse wraps a post's comments.
type CommentListResponse struct {
	Comments []*CommentItem `json:"comments"`
	Total    int64          `json:"total"`
}
