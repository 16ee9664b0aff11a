package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	scopes := []domain.Scope{
		domain.CountryScope(),
		{Level: domain.LevelDistrict, ID: 4},
		{Level: domain.LevelHospital, ID: 12},
		{Level: domain.LevelFacility, ID: 77},
	}
	for _, scope := range scopes {
		t.Run(string(scope.Level), func(t *testing.T) {
			token, err := GenerateJWT("clerk-1", scope, "secret", time.Hour, "finance")
			require.NoError(t, err)

			claims, err := ParseAndValidateJWT(token, "secret", "finance")
			require.NoError(t, err)
			assert.Equal(t, "clerk-1", claims.Subject)
			assert.Equal(t, scope, claims.Scope())
		})
	}
}

func TestGenerateJWT_RejectsScopeWithoutID(t *testing.T) {
	_, err := GenerateJWT("clerk-1", domain.Scope{Level: domain.LevelFacility}, "secret", time.Hour, "finance")
	assert.Error(t, err)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	token, err := GenerateJWT("clerk-1", domain.CountryScope(), "secret", time.Hour, "finance")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other-secret", "finance")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired, err := GenerateJWT("clerk-1", domain.CountryScope(), "secret", -time.Minute, "finance")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "finance")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestScopeClaims_FacilityWithoutClaim(t *testing.T) {
	claims := ScopeClaims{AccessLevel: domain.LevelFacility, ScopeID: 5}
	assert.Equal(t, domain.Scope{Level: domain.LevelFacility}, claims.Scope())
}
