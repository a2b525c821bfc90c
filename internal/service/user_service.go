package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrBadAvatarFormat  = errors.New("unsupported avatar format")
)

// AvatarStore uploads avatar images. Satisfied by oss.Client.
type AvatarStore interface {
	UploadAvatar(userID string, data []byte, ext string) (string, error)
}

var allowedAvatarExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

type UserService struct {
	userRepo    *repository.UserRepository
	followRepo  *repository.FollowRepository
	avatarStore AvatarStore
	cfg         *config.Config
}

func NewUserService(userRepo *repository.UserRepository, followRepo *repository.FollowRepository, avatarStore AvatarStore, cfg *config.Config) *UserService {
	return &UserService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		avatarStore: avatarStore,
		cfg:         cfg,
	}
}

// GetProfile returns a user's public profile. viewerID may be empty.
func (s *UserService) GetProfile(userID, viewerID string) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildInfo(user, viewerID)
}

// UpdateProfile applies the editable fields.
func (s *UserService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	fields := map[string]interface{}{}
	if req.DisplayName != nil {
		fields["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(userID, userID)
}

// UploadAvatar stores the image and records its URL on the profile.
func (s *UserService) UploadAvatar(userID, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedAvatarExts[ext]; !ok {
		return "", ErrBadAvatarFormat
	}

	url, err := s.avatarStore.UploadAvatar(userID, data, ext)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", err
	}
	return url, nil
}

// Follow adds a follow edge and returns the new follower count.
func (s *UserService) Follow(followerID, followingID string) (*dto.FollowResponse, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	if _, err := s.userRepo.GetByID(followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.followRepo.Exists(followerID, followingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFollowing
	}

	if err := s.followRepo.Create(&model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}); err != nil {
		return nil, err
	}

	count, err := s.followRepo.CountFollowers(followingID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowResponse{Following: true, FollowerCount: count}, nil
}

// Unfollow removes a follow edge.
func (s *UserService) Unfollow(followerID, followingID string) (*dto.FollowResponse, error) {
	affected, err := s.followRepo.Delete(followerID, followingID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFollowing
	}

	count, err := s.followRepo.CountFollowers(followingID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowResponse{Following: false, FollowerCount: count}, nil
}

func (s *UserService) buildInfo(user *model.User, viewerID string) (*dto.UserInfo, error) {
	followers, err := s.followRepo.CountFollowers(user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(user.ID)
	if err != nil {
		return nil, err
	}

	info := &dto.UserInfo{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		AvatarURL:      user.AvatarURL,
		Bio:            user.Bio,
		FollowerCount:  followers,
		FollowingCount: following,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}

	// Email is only shown to the owner.
	if viewerID == user.ID && user.Email != nil {
		info.Email = *user.Email
	}

	if viewerID != "" && viewerID != user.ID {
		isFollowing, err := s.followRepo.Exists(viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		info.IsFollowing = isFollowing
	}

	return info, nil
}
