package auth

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/repo"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	users      repo.UserRepository
	refresh    RefreshStore
	refreshTTL time.Duration
}

func NewAuthService(users repo.UserRepository, refresh RefreshStore, refreshTTL time.Duration) *AuthService {
	return &AuthService{users: users, refresh: refresh, refreshTTL: refreshTTL}
}

func (a *AuthService) Login(username, password string) (TokenPair, error) {
	user, err := a.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return a.issue(user)
}

// Refresh rotates a refresh token: the old one is consumed and a new
// pair is issued.
func (a *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	userID, err := a.refresh.Take(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	user, err := a.users.GetByID(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return a.issue(user)
}

func (a *AuthService) Logout(refreshToken string) error {
	return a.refresh.Delete(refreshToken)
}

func (a *AuthService) issue(user models.User) (TokenPair, error) {
	access, err := GenerateToken(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("could not generate token: %w", err)
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return TokenPair{}, fmt.Errorf("could not generate refresh token: %w", err)
	}
	if err := a.refresh.Put(refresh, user.ID, a.refreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("could not store refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
