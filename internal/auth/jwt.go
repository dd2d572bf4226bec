// Package auth validates access tokens issued by the external authentication
// service and resolves them to a Principal. Credential storage, login flows
// and token issuance live outside this gateway.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
)

// Claims represents the JWT claims the authentication service puts in access
// tokens. Role is the only custom claim the gateway reads.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService handles JWT validation (and creation, used by tests and the
// companion auth service during development).
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateAccessToken signs a token for the given subject and role.
func (s *JWTService) GenerateAccessToken(subject string, role domain.Role, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken parses and verifies a token and resolves the Principal.
// Tokens carrying a role the gateway does not know are rejected rather than
// defaulted, so a policy typo can never widen access.
func (s *JWTService) ValidateToken(tokenString string) (domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "unknown role")
	}
	if claims.Subject == "" {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token missing subject")
	}

	return domain.Principal{Subject: claims.Subject, Role: role}, nil
}
