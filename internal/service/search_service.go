package service

import (
	"errors"
	"strings"
	"time"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
)

var (
	ErrEmptyQuery    = errors.New("search query is required")
	ErrInvalidFilter = errors.New("filter must be top or recent")
)

type SearchService struct {
	searchRepo *repository.SearchRepository
	userRepo   *repository.UserRepository
	postRepo   *repository.PostRepository
	followRepo *repository.FollowRepository
}

func NewSearchService(searchRepo *repository.SearchRepository, userRepo *repository.UserRepository, postRepo *repository.PostRepository, followRepo *repository.FollowRepository) *SearchService {
	return &SearchService{
		searchRepo: searchRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
	}
}

// Search matches posts by content and users by name. viewerID may be
// empty for anonymous searches.
func (s *SearchService) Search(req *dto.SearchRequest, viewerID string) (*dto.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if req.Filter != dto.SearchFilterTop && req.Filter != dto.SearchFilterRecent {
		return nil, ErrInvalidFilter
	}
	if req.Limit < 1 || req.Limit > 100 {
		return nil, ErrInvalidLimit
	}
	if req.Offset < 0 {
		return nil, ErrInvalidOffset
	}

	rows, err := s.searchRepo.SearchPosts(query, req.Filter, req.Limit, req.Offset, viewerID)
	if err != nil {
		return nil, err
	}
	posts, err := hydratePostItems(rows, s.userRepo, s.postRepo, viewerID)
	if err != nil {
		return nil, err
	}

	users, err := s.searchRepo.SearchUsers(query, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	userInfos := make([]*dto.UserInfo, 0, len(users))
	for _, u := range users {
		info := &dto.UserInfo{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Bio:         u.Bio,
			CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		}
		if viewerID != "" && viewerID != u.ID {
			isFollowing, err := s.followRepo.Exists(viewerID, u.ID)
			if err != nil {
				return nil, err
			}
			info.IsFollowing = isFollowing
		}
		userInfos = append(userInfos, info)
	}

	return &dto.SearchResponse{
		Posts: posts,
		Users: userInfos,
		Query: query,
	}, nil
}
