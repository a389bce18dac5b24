package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/application/auth"
)

var _ auth.TokenRevoker = (*MemoryRevoker)(nil)

// MemoryRevoker revocación local al proceso. Se usa cuando no hay REDIS_URL
// (una sola réplica) y en tests.
type MemoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevoker crea un revocador vacío.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{revoked: map[string]time.Time{}, now: time.Now}
}

// Revoke registra el jti hasta until y aprovecha para purgar los vencidos.
func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	if until.After(now) {
		m.revoked[tokenID] = until
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[tokenID]
	return ok && exp.After(m.now()), nil
}

// Ping siempre responde: no hay dependencia externa.
func (m *MemoryRevoker) Ping(context.Context) error { return nil }
