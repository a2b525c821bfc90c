package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/jwt"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/oauth"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetCode   = errors.New("reset code invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
)

// Mailer sends account mails. Satisfied by email.Service.
type Mailer interface {
	SendPasswordReset(to, code string) error
	SendWelcome(to, username string) error
}

type AuthService struct {
	userRepo    *repository.UserRepository
	cfg         *config.Config
	githubOAuth *oauth.GithubOAuth
	stateStore  *oauth.StateStore
	mailer      Mailer
}

func NewAuthService(userRepo *repository.UserRepository, stateStore *oauth.StateStore, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		cfg:        cfg,
		stateStore: stateStore,
		mailer:     mailer,
		githubOAuth: oauth.NewGithubOAuth(
			cfg.OAuth.Github.ClientID,
			cfg.OAuth.Github.ClientSecret,
			cfg.OAuth.Github.RedirectURI,
		),
	}
}

// Register creates an account and returns a signed-in session.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	user := &model.User{
		Username:     req.Username,
		Email:        &req.Email,
		PasswordHash: &passwordStr,
		DisplayName:  req.Username,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(req.Email, user.Username); err != nil {
			log.Printf("auth: welcome mail to %s failed: %v", req.Email, err)
		}
	}

	return s.sessionFor(user)
}

// Login validates credentials and returns a session.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		// OAuth-only account, no password to check.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.sessionFor(user)
}

// ForgotPassword mails a reset code if the account exists. It never
// reveals whether the email is registered.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(30 * time.Minute)

	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"reset_code":       code,
		"reset_expires_at": expiresAt,
	}); err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(email, code); err != nil {
			log.Printf("auth: reset mail to %s failed: %v", email, err)
		}
	}
	return nil
}

// ResetPassword redeems a reset code for a new password.
func (s *AuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	if user.ResetCode == nil || user.ResetExpiresAt == nil ||
		*user.ResetCode != req.Code || time.Now().After(*user.ResetExpiresAt) {
		return ErrInvalidResetCode
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"password_hash":    string(hashedPassword),
		"reset_code":       nil,
		"reset_expires_at": nil,
	})
}

// GithubAuthURL starts the OAuth dance and returns the redirect target.
func (s *AuthService) GithubAuthURL(ctx context.Context, redirectURI string) (string, error) {
	state, err := s.stateStore.GenerateState(ctx, redirectURI)
	if err != nil {
		return "", err
	}
	return s.githubOAuth.GetAuthURL(state), nil
}

// GithubCallback finishes the OAuth dance: validates state, exchanges the
// code, and signs the GitHub user in, creating the account on first login.
func (s *AuthService) GithubCallback(ctx context.Context, code, state string) (*dto.AuthResponse, string, error) {
	redirectURI, err := s.stateStore.ValidateState(ctx, state)
	if err != nil {
		return nil, "", err
	}

	token, err := s.githubOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}

	ghUser, err := s.githubOAuth.GetUser(ctx, token)
	if err != nil {
		return nil, "", err
	}

	githubID := fmt.Sprintf("%d", ghUser.ID)
	user, err := s.userRepo.GetByGithubID(githubID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		user, err = s.createGithubUser(ghUser, githubID)
		if err != nil {
			return nil, "", err
		}
	}

	session, err := s.sessionFor(user)
	if err != nil {
		return nil, "", err
	}
	return session, redirectURI, nil
}

func (s *AuthService) createGithubUser(ghUser *oauth.GithubUser, githubID string) (*model.User, error) {
	username := ghUser.Login
	if taken, err := s.userRepo.ExistsByUsername(username); err != nil {
		return nil, err
	} else if taken {
		username = fmt.Sprintf("%s_%s", ghUser.Login, githubID)
	}

	displayName := ghUser.Name
	if displayName == "" {
		displayName = ghUser.Login
	}

	user := &model.User{
		Username:    username,
		GithubID:    &githubID,
		DisplayName: displayName,
		AvatarURL:   ghUser.AvatarURL,
	}
	if ghUser.Email != "" {
		email := strings.ToLower(ghUser.Email)
		user.Email = &email
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) sessionFor(user *model.User) (*dto.AuthResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	info := &dto.UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
	if user.Email != nil {
		info.Email = *user.Email
	}

	return &dto.AuthResponse{Token: token, User: info}, nil
}

func generateNumericCode(digits int) (string, error) {
	var sb strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteString(n.String())
	}
	return sb.String(), nil
}
