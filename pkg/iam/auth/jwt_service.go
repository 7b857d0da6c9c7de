package auth

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/confidant/pkg/config"
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService valida tokens de acceso y expone sus claims
type TokenService interface {
	ValidateAccessToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims son los claims decodificados de un token válido
type TokenClaims struct {
	UserID    kernel.UserID
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTService implementación del TokenService usando JWT
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
	audience       []string
}

// NewJWTServiceFromConfig crea una nueva instancia del servicio JWT
func NewJWTServiceFromConfig(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secretKey:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		issuer:         cfg.Issuer,
		audience:       cfg.Audience,
	}
}

// JWTClaims son los claims personalizados para JWT
type JWTClaims struct {
	UserID kernel.UserID `json:"user_id"`
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	jwt.RegisteredClaims
}

// GenerateAccessToken genera un token de acceso JWT
func (j *JWTService) GenerateAccessToken(userID kernel.UserID, email, name string) (string, error) {
	now := time.Now()

	jwtClaims := JWTClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			Audience:  j.audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", iam.ErrInvalidToken().WithDetail("error", err.Error())
	}

	return tokenString, nil
}

// ValidateAccessToken valida y decodifica un token de acceso
func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, iam.ErrInvalidToken().WithDetail("error", err.Error())
	}

	if !token.Valid {
		return nil, iam.ErrInvalidToken().WithDetail("error", "token is invalid")
	}

	jwtClaims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, iam.ErrInvalidToken().WithDetail("error", "invalid claims type")
	}

	claims := &TokenClaims{
		UserID: jwtClaims.UserID,
		Email:  jwtClaims.Email,
		Name:   jwtClaims.Name,
	}
	// exp is enforced by the parser; iat is optional in tokens minted elsewhere
	if jwtClaims.IssuedAt != nil {
		claims.IssuedAt = jwtClaims.IssuedAt.Time
	}
	if jwtClaims.ExpiresAt != nil {
		claims.ExpiresAt = jwtClaims.ExpiresAt.Time
	}

	return claims, nil
}
