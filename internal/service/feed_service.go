package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/mlclient"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/shuffle"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
)

var (
	ErrInvalidLimit  = errors.New("limit must be between 1 and 100")
	ErrInvalidOffset = errors.New("offset must be non-negative")
)

// maxCandidates caps how many posts one feed request pulls from the
// database regardless of the requested page size.
const maxCandidates = 500

// Recommender produces ranked post IDs for a user, nil when it can't.
// Satisfied by mlclient.Client.
type Recommender interface {
	Recommendations(ctx context.Context, userID string, limit int, excludeIDs []string) *mlclient.Result
	Healthy(ctx context.Context) bool
}

type FeedService struct {
	postRepo        *repository.PostRepository
	userRepo        *repository.UserRepository
	interactionRepo *repository.InteractionRepository
	recommender     Recommender
	rdb             *redis.Client
	cfg             *config.Config

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewFeedService(postRepo *repository.PostRepository, userRepo *repository.UserRepository, interactionRepo *repository.InteractionRepository, recommender Recommender, rdb *redis.Client, cfg *config.Config) *FeedService {
	return &FeedService{
		postRepo:        postRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		recommender:     recommender,
		rdb:             rdb,
		cfg:             cfg,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetFeed assembles a feed page: model-ranked when the recommendation
// service cooperates, shuffled recents otherwise.
func (s *FeedService) GetFeed(ctx context.Context, userID string, limit, offset int, excludeIDs []string) (*dto.FeedResponse, error) {
	if limit < 1 || limit > 100 {
		return nil, ErrInvalidLimit
	}
	if offset < 0 {
		return nil, ErrInvalidOffset
	}

	if len(excludeIDs) == 0 {
		// Without explicit exclusions, skip what the user has already
		// interacted with recently.
		seen, err := s.interactionRepo.ListRecentPostIDs(userID, 100)
		if err != nil {
			log.Printf("feed: loading seen posts failed: %v", err)
		} else {
			excludeIDs = seen
		}
	}

	var rec *mlclient.Result
	if s.recommender != nil {
		rec = s.recommender.Recommendations(ctx, userID, limit, excludeIDs)
	}

	if rec != nil {
		return s.rankedFeed(userID, limit, offset, rec)
	}
	return s.randomFeed(userID, limit, offset)
}

// rankedFeed emits posts in the model's order, dropping IDs that no
// longer resolve to a visible candidate.
func (s *FeedService) rankedFeed(userID string, limit, offset int, rec *mlclient.Result) (*dto.FeedResponse, error) {
	candidates, err := s.postRepo.ListCandidates(userID, maxCandidates)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*repository.PostWithCounts, len(candidates))
	for _, row := range candidates {
		byID[row.ID] = row
	}

	ordered := make([]*repository.PostWithCounts, 0, len(rec.Items))
	for _, item := range rec.Items {
		if row, ok := byID[item.PostID]; ok {
			ordered = append(ordered, row)
		}
	}

	if len(ordered) == 0 {
		// The model only recommended posts we can't serve.
		return s.randomFeed(userID, limit, offset)
	}

	page := window(ordered, offset, limit)
	items, err := hydratePostItems(page, s.userRepo, s.postRepo, userID)
	if err != nil {
		return nil, err
	}

	return &dto.FeedResponse{
		Posts: items,
		Metadata: &dto.FeedMetadata{
			Total:        len(ordered),
			Offset:       offset,
			Limit:        limit,
			Source:       dto.FeedSourceML,
			ModelVersion: rec.ModelVersion,
			GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (s *FeedService) randomFeed(userID string, limit, offset int) (*dto.FeedResponse, error) {
	fetchSize := 3 * limit
	if fetchSize > maxCandidates {
		fetchSize = maxCandidates
	}

	candidates, err := s.postRepo.ListCandidates(userID, fetchSize)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	shuffled := shuffle.Slice(candidates, s.rng)
	s.rngMu.Unlock()

	page := window(shuffled, offset, limit)
	items, err := hydratePostItems(page, s.userRepo, s.postRepo, userID)
	if err != nil {
		return nil, err
	}

	return &dto.FeedResponse{
		Posts: items,
		Metadata: &dto.FeedMetadata{
			Total:       len(shuffled),
			Offset:      offset,
			Limit:       limit,
			Source:      dto.FeedSourceRandom,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Stats summarizes the user's feed activity, cached briefly in Redis.
func (s *FeedService) Stats(ctx context.Context, userID string) (*dto.FeedStats, error) {
	cacheKey := fmt.Sprintf("feed:stats:%s", userID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stats dto.FeedStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	totalPosts, err := s.postRepo.Count()
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	totalInteractions, err := s.interactionRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	byType, err := s.interactionRepo.CountByUserGrouped(userID)
	if err != nil {
		return nil, err
	}

	stats := &dto.FeedStats{
		TotalPosts:        totalPosts,
		TotalUsers:        totalUsers,
		TotalInteractions: totalInteractions,
		ByType:            byType,
	}

	if s.rdb != nil {
		ttl := time.Duration(s.cfg.Feed.StatsCacheTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = time.Minute
		}
		if data, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
				log.Printf("feed: stats cache write failed: %v", err)
			}
		}
	}

	return stats, nil
}

// Healthy reports whether the recommendation backend is reachable.
func (s *FeedService) Healthy(ctx context.Context) bool {
	return s.recommender != nil && s.recommender.Healthy(ctx)
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
