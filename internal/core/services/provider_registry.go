package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
)

// providerRegistry maps provider names to handshake adapters. Built once at startup.
type providerRegistry struct {
	providers map[string]portssvc.OAuthProviderSvc
}

// NewProviderRegistry indexes providers by Name(). A later provider with the
// same name replaces an earlier one.
func NewProviderRegistry(providers ...portssvc.OAuthProviderSvc) portssvc.OAuthProviderRegistry {
	r := &providerRegistry{providers: make(map[string]portssvc.OAuthProviderSvc, len(providers))}
	for _, p := range providers {
		if p == nil {
			continue
		}
		r.providers[strings.ToLower(p.Name())] = p
	}
	return r
}

func (r *providerRegistry) Get(name string) (portssvc.OAuthProviderSvc, error) {
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownProvider, name)
	}
	return p, nil
}

func (r *providerRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
