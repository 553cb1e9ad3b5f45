package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/domain"
)

// ClaimsNormalizer maps a provider's verified claims onto a ProviderProfile.
// Normalizers are pure: no I/O, no provider SDK types.
type ClaimsNormalizer func(claims map[string]any) (domain.ProviderProfile, error)

// ClaimsRegistry maps provider names to normalizers. It is populated at
// startup and only read afterwards.
type ClaimsRegistry struct {
	normalizers map[string]ClaimsNormalizer
}

// NewClaimsRegistry returns a registry preloaded with the built-in providers.
func NewClaimsRegistry() *ClaimsRegistry {
	return &ClaimsRegistry{
		normalizers: map[string]ClaimsNormalizer{
			domain.ProviderGoogle:   normalizeGoogleClaims,
			domain.ProviderFacebook: normalizeFacebookClaims,
			domain.ProviderLinkedIn: normalizeOIDCClaims,
			domain.ProviderOIDC:     normalizeOIDCClaims,
		},
	}
}

// Register adds or replaces the normalizer for provider.
func (r *ClaimsRegistry) Register(provider string, fn ClaimsNormalizer) {
	r.normalizers[strings.ToLower(provider)] = fn
}

// Has reports whether provider has a normalizer.
func (r *ClaimsRegistry) Has(provider string) bool {
	_, ok := r.normalizers[strings.ToLower(provider)]
	return ok
}

// Normalize runs the provider's normalizer and checks that a provider id came out.
func (r *ClaimsRegistry) Normalize(provider string, claims map[string]any) (domain.ProviderProfile, error) {
	fn, ok := r.normalizers[strings.ToLower(provider)]
	if !ok {
		return domain.ProviderProfile{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownProvider, provider)
	}
	profile, err := fn(claims)
	if err != nil {
		return domain.ProviderProfile{}, err
	}
	if profile.ProviderID == "" {
		return domain.ProviderProfile{}, fmt.Errorf("%w: %s claims carry no subject", apperrors.ErrValidation, provider)
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	return profile, nil
}

func normalizeGoogleClaims(claims map[string]any) (domain.ProviderProfile, error) {
	p := domain.ProviderProfile{
		ProviderID: stringClaim(claims, "sub"),
		Email:      verifiedEmail(claims),
		FirstName:  stringClaim(claims, "given_name"),
		LastName:   stringClaim(claims, "family_name"),
		Picture:    stringClaim(claims, "picture"),
	}
	fillNamesFromFullName(&p, stringClaim(claims, "name"))
	return p, nil
}

func normalizeFacebookClaims(claims map[string]any) (domain.ProviderProfile, error) {
	p := domain.ProviderProfile{
		ProviderID: stringClaim(claims, "id"),
		Email:      stringClaim(claims, "email"),
		FirstName:  stringClaim(claims, "first_name"),
		LastName:   stringClaim(claims, "last_name"),
	}
	// Graph API nests the picture as picture.data.url.
	if pic, ok := claims["picture"].(map[string]any); ok {
		if data, ok := pic["data"].(map[string]any); ok {
			p.Picture = stringClaim(data, "url")
		}
	} else {
		p.Picture = stringClaim(claims, "picture")
	}
	fillNamesFromFullName(&p, stringClaim(claims, "name"))
	return p, nil
}

func normalizeOIDCClaims(claims map[string]any) (domain.ProviderProfile, error) {
	p := domain.ProviderProfile{
		ProviderID: stringClaim(claims, "sub"),
		Email:      verifiedEmail(claims),
		FirstName:  stringClaim(claims, "given_name"),
		LastName:   stringClaim(claims, "family_name"),
		Picture:    stringClaim(claims, "picture"),
	}
	fullName := stringClaim(claims, "name")
	if fullName == "" {
		fullName = stringClaim(claims, "preferred_username")
	}
	fillNamesFromFullName(&p, fullName)
	return p, nil
}

// verifiedEmail drops the email when the provider explicitly marks it unverified.
func verifiedEmail(claims map[string]any) string {
	if v, ok := claims["email_verified"]; ok {
		switch verified := v.(type) {
		case bool:
			if !verified {
				return ""
			}
		case string:
			if verified == "false" {
				return ""
			}
		}
	}
	return stringClaim(claims, "email")
}

func fillNamesFromFullName(p *domain.ProviderProfile, fullName string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" || (p.FirstName != "" && p.LastName != "") {
		return
	}
	first, last, _ := strings.Cut(fullName, " ")
	if p.FirstName == "" {
		p.FirstName = first
	}
	if p.LastName == "" {
		p.LastName = strings.TrimSpace(last)
	}
}

func stringClaim(claims map[string]any, key string) string {
	switch v := claims[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}
