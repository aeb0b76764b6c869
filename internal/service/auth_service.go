package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/damoang/angple-published-by/internal/common"
	"github.com/damoang/angple-published-by/internal/domain"
	"github.com/damoang/angple-published-by/internal/repository"
	"github.com/damoang/angple-published-by/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountBanned   = errors.New("account is banned")
	ErrAccountInactive = errors.New("account is inactive")
)

// AuthService bcrypt 로그인 + JWT 발급
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// LoginResponse 로그인 응답
type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Login 사용자 인증 후 토큰 발급
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	switch user.Status {
	case "banned":
		return nil, ErrAccountBanned
	case "inactive":
		return nil, ErrAccountInactive
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	userIDStr := strconv.FormatUint(user.ID, 10)
	accessToken, err := s.jwtManager.GenerateAccessToken(userIDStr, user.DisplayName(), int(user.Level))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &LoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// CreateUser bcrypt 해시로 사용자 생성
func (s *AuthService) CreateUser(ctx context.Context, username, email, password, nickname string, level uint8) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, common.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Nickname: nickname,
		Level:    level,
		Status:   "active",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
