package utils

import (
	"fmt"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// ScopeClaims are the claims of an access token. The caller's organizational scope is
// carried next to the registered claims.
type ScopeClaims struct {
	AccessLevel domain.AccessLevel `json:"access_level"`
	FacilityID  *int64             `json:"facility_id,omitempty"`
	HospitalID  *int64             `json:"hospital_id,omitempty"`
	// ScopeID identifies the province or district for those levels.
	ScopeID int64 `json:"scope_id,omitempty"`
	jwt.RegisteredClaims
}

// Scope converts the claims into a domain scope. Facility and hospital tokens take their id
// from the matching claim.
func (c ScopeClaims) Scope() domain.Scope {
	scope := domain.Scope{Level: c.AccessLevel, ID: c.ScopeID}
	switch c.AccessLevel {
	case domain.LevelFacility:
		scope.ID = 0
		if c.FacilityID != nil {
			scope.ID = *c.FacilityID
		}
	case domain.LevelHospital:
		scope.ID = 0
		if c.HospitalID != nil {
			scope.ID = *c.HospitalID
		}
	}
	return scope
}

// GenerateJWT signs an HS256 access token for subject acting with scope.
func GenerateJWT(subject string, scope domain.Scope, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	if err := scope.Validate(); err != nil {
		return "", err
	}
	now := time.Now()
	claims := ScopeClaims{
		AccessLevel: scope.Level,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	switch scope.Level {
	case domain.LevelFacility:
		id := scope.ID
		claims.FacilityID = &id
	case domain.LevelHospital:
		id := scope.ID
		claims.HospitalID = &id
	default:
		claims.ScopeID = scope.ID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string and validates its signature, its registered
// claims and, when issuer is not empty, its issuer.
func ParseAndValidateJWT(tokenString string, secretKey string, issuer string) (*ScopeClaims, error) {
	claims := &ScopeClaims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
