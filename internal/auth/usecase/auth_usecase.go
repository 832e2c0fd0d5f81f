package usecase

import (
	"crypto/subtle"
	"errors"
	"time"

	authdto "itam-backend/internal/auth/dto"
	"itam-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthUsecase guards the administrative surface with a fixed
// credential pair and short-lived session tokens.
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateSession(tokenString string) (string, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	config *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(cfg *config.Config) AuthUsecase {
	return &authUsecase{config: cfg}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	if !u.checkCredentials(req.Username, req.Password) {
		return nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"username": req.Username,
		"exp":      time.Now().Add(u.config.AdminSessionExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{Token: signed}, nil
}

func (u *authUsecase) checkCredentials(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(u.config.AdminUsername)) != 1 {
		return false
	}
	if u.config.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(u.config.AdminPasswordHash), []byte(password)) == nil
	}
	if u.config.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(u.config.AdminPassword)) == 1
}

// ValidateSession parses an admin session token and returns the
// username it was issued to.
func (u *authUsecase) ValidateSession(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired session")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", errors.New("invalid token claims")
	}
	return username, nil
}
