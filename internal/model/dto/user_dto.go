package dto

// UserInfo is the public view of a user.
type UserInfo struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	DisplayName    string `json:"display_name"`
	AvatarURL      string `json:"avatar_url"`
	Bio            string `json:"bio"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" binding:"omitempty,max=500"`
}

// AvatarResponse returns the stored avatar location.
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// FollowResponse reports the follow state after a toggle.
type FollowResponse struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"follower_count"`
}
