package services_test

import (
	"testing"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
	"github.com/SscSPs/auth_session_service/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsRegistry_Google(t *testing.T) {
	r := services.NewClaimsRegistry()

	p, err := r.Normalize("google", map[string]any{
		"sub":            "1098",
		"email":          "Grace@Example.com",
		"email_verified": true,
		"given_name":     "Grace",
		"family_name":    "Hopper",
		"picture":        "https://example.com/g.png",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderProfile{
		ProviderID: "1098",
		Email:      "grace@example.com",
		FirstName:  "Grace",
		LastName:   "Hopper",
		Picture:    "https://example.com/g.png",
	}, p)
}

func TestClaimsRegistry_UnverifiedEmailDropped(t *testing.T) {
	r := services.NewClaimsRegistry()

	p, err := r.Normalize("google", map[string]any{
		"sub":            "1098",
		"email":          "grace@example.com",
		"email_verified": false,
	})
	require.NoError(t, err)
	assert.Empty(t, p.Email)
}

func TestClaimsRegistry_FacebookNestedPicture(t *testing.T) {
	r := services.NewClaimsRegistry()

	p, err := r.Normalize("facebook", map[string]any{
		"id":    "fb-77",
		"email": "grace@example.com",
		"name":  "Grace Brewster Hopper",
		"picture": map[string]any{
			"data": map[string]any{"url": "https://graph.example.com/p.jpg"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "fb-77", p.ProviderID)
	assert.Equal(t, "Grace", p.FirstName)
	assert.Equal(t, "Brewster Hopper", p.LastName)
	assert.Equal(t, "https://graph.example.com/p.jpg", p.Picture)
}

func TestClaimsRegistry_NumericID(t *testing.T) {
	r := services.NewClaimsRegistry()

	p, err := r.Normalize("facebook", map[string]any{"id": float64(123456789)})
	require.NoError(t, err)
	assert.Equal(t, "123456789", p.ProviderID)
}

func TestClaimsRegistry_OIDCFallsBackToPreferredUsername(t *testing.T) {
	r := services.NewClaimsRegistry()

	p, err := r.Normalize("oidc", map[string]any{
		"sub":                "kc-1",
		"preferred_username": "grace",
	})
	require.NoError(t, err)
	assert.Equal(t, "kc-1", p.ProviderID)
	assert.Equal(t, "grace", p.FirstName)
	assert.Empty(t, p.Email)
}

func TestClaimsRegistry_MissingSubject(t *testing.T) {
	r := services.NewClaimsRegistry()

	_, err := r.Normalize("linkedin", map[string]any{"email": "x@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestClaimsRegistry_UnknownProvider(t *testing.T) {
	r := services.NewClaimsRegistry()

	assert.False(t, r.Has("myspace"))
	_, err := r.Normalize("myspace", map[string]any{"sub": "1"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownProvider)
}

func TestClaimsRegistry_Register(t *testing.T) {
	r := services.NewClaimsRegistry()
	r.Register("GitHub", func(claims map[string]any) (domain.ProviderProfile, error) {
		login, _ := claims["login"].(string)
		return domain.ProviderProfile{ProviderID: login}, nil
	})

	assert.True(t, r.Has("github"))
	p, err := r.Normalize("github", map[string]any{"login": "octocat"})
	require.NoError(t, err)
	assert.Equal(t, "octocat", p.ProviderID)
}
