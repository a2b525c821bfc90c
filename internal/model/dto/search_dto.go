package dto

// Search result orderings.
const (
	SearchFilterTop    = "top"
	SearchFilterRecent = "recent"
)

// SearchRequest carries the search query parameters.
type SearchRequest struct {
	Query  string `form:"q" binding:"required"`
	Filter string `form:"filter,default=top"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// SearchResponse holds matching posts and users for a query.
type SearchResponse struct {
	Posts []*PostItem `json:"posts"`
	Users []*UserInfo `json:"users"`
	Query string      `json:"query"`
}
