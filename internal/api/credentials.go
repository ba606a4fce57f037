package api

import (
	"sync"

	"valorant-mcp/internal/config"
)

// CredentialStore holds the process-wide upstream API key. It is the single
// piece of intentional shared mutable state in the system: initialized from
// the environment at startup, replaced by the set_api_key tool, and read on
// every upstream request. Replacing the key takes effect for new calls only;
// requests already in flight keep the key they read.
type CredentialStore struct {
	mu     sync.RWMutex
	apiKey string
}

func NewCredentialStore(cfg *config.Config) *CredentialStore {
	return &CredentialStore{apiKey: cfg.HDevAPIKey}
}

func (s *CredentialStore) Set(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

func (s *CredentialStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}
