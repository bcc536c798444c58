package service

import (
	"errors"
	"time"

	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

type JwtCustomClaim struct {
	UserID   string         `json:"userId"`
	Role     constants.Role `json:"role"`
	ClientID string         `json:"clientId,omitempty"`
	SiteID   string         `json:"siteId,omitempty"`
	jwt.RegisteredClaims
}

type TokenSubject struct {
	UserID   string
	Role     constants.Role
	ClientID string
	SiteID   string
}

type JWTService interface {
	GenerateAccessToken(subject TokenSubject) (string, time.Time, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
}

type jwtService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	now            func() time.Time
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration) JWTService {
	return &jwtService{
		secretKey:      []byte(secretKey),
		accessTokenTTL: accessTokenTTL,
		now:            time.Now,
	}
}

func (s *jwtService) GenerateAccessToken(subject TokenSubject) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTokenTTL)

	claims := &JwtCustomClaim{
		UserID:   subject.UserID,
		Role:     subject.Role,
		ClientID: subject.ClientID,
		SiteID:   subject.SiteID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
