package services

import (
	"fmt"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	portssvc "github.com/SscSPs/auth_session_service/internal/core/ports/services"
	"github.com/SscSPs/auth_session_service/internal/utils"
)

type credentialService struct {
	cost int
}

// NewCredentialService creates a bcrypt-backed CredentialVerifierSvc.
func NewCredentialService(bcryptCost int) portssvc.CredentialVerifierSvc {
	return &credentialService{cost: bcryptCost}
}

func (s *credentialService) HashPassword(plain string) (string, error) {
	hash, err := utils.HashPassword(plain, s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (s *credentialService) VerifyPassword(storedHash, candidate string) (bool, error) {
	if storedHash == "" {
		return false, fmt.Errorf("%w: empty password hash", apperrors.ErrValidation)
	}
	ok, err := utils.CheckPasswordHash(candidate, storedHash)
	if err != nil {
		return false, fmt.Errorf("%w: malformed password hash: %v", apperrors.ErrValidation, err)
	}
	return ok, nil
}
