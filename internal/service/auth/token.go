package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/officefood/officefood/internal/entity"
)

// Claims is the signed claim set carried by both access and refresh
// credentials. Both tokens carry the same claims; only the lifetime differs.
type Claims struct {
	UserID    int64   `json:"uid"`
	Phone     string  `json:"phone"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Role      string  `json:"role"`
	CompanyID *int64  `json:"companyId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HMAC credentials.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer constructs a TokenIssuer with the given signing secret and
// lifetimes.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue mints an access and a refresh credential from the current user record.
func (t *TokenIssuer) Issue(user *entity.User) (accessToken, refreshToken string, err error) {
	now := time.Now().UTC()

	accessToken, err = t.sign(user, now, t.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err = t.sign(user, now, t.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

func (t *TokenIssuer) sign(user *entity.User, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    user.ID,
		Phone:     user.Phone,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies the signature and expiry of a credential and returns its
// claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
