package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mzunohkaru/postboard/internal/common"
)

// Claims includes the registered claims plus the id of the user the token
// was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// TokenService issues and verifies the two token classes. Each class is
// signed with its own secret, so a leaked refresh secret cannot forge access
// tokens and vice versa.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess mints a short-lived access token for userID.
func (s *TokenService) IssueAccess(userID int64) (string, error) {
	return generateToken(userID, s.accessSecret, s.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for userID. The caller is
// responsible for confining it to the httpOnly refresh cookie.
func (s *TokenService) IssueRefresh(userID int64) (string, error) {
	return generateToken(userID, s.refreshSecret, s.refreshTTL)
}

// VerifyAccess checks signature and expiry of an access token and returns the
// embedded user id. Expired tokens yield common.ErrTokenExpired, anything
// else malformed or tampered yields common.ErrInvalidToken.
func (s *TokenService) VerifyAccess(token string) (int64, error) {
	return userIDFromToken(token, s.accessSecret)
}

// VerifyRefresh is VerifyAccess for the refresh class.
func (s *TokenService) VerifyRefresh(token string) (int64, error) {
	return userIDFromToken(token, s.refreshSecret)
}

func generateToken(userID int64, secret []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

func userIDFromToken(tokenString string, secret []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	return claims.UserID, nil
}
