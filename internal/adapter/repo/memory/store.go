package memory

import (
	"sync"

	"mensaplan/internal/app/ports"
)

// Store backs the account-side repositories (credentials, avatar sources).
// Positions and avatars live in their own structures with their own locks.
type Store struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	credentials map[string]ports.UserCredentialRecord
	sources     map[string]ports.AvatarSourceRecord
}

func NewStore() *Store {
	return &Store{
		credentials: make(map[string]ports.UserCredentialRecord),
		sources:     make(map[string]ports.AvatarSourceRecord),
	}
}

func (s *Store) SeedCredential(credential ports.UserCredentialRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[credential.UserID] = credential
}
