// Package memory implementa todos los puertos de persistencia sobre un estado en memoria.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y para los tests de los casos de uso.
//
// Las transacciones trabajan sobre una copia del estado que reemplaza al original solo
// si la función termina sin error; mientras tanto el store queda bloqueado, así que las
// transacciones se serializan.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

type memoryState struct {
	users     map[string]entity.User
	equipment map[string]entity.Equipment
	requests  map[string]entity.ServiceRequest
	audit     []entity.AuditEntry
	seq       int64
}

func newMemoryState() memoryState {
	return memoryState{
		users:     map[string]entity.User{},
		equipment: map[string]entity.Equipment{},
		requests:  map[string]entity.ServiceRequest{},
	}
}

func (s memoryState) clone() memoryState {
	cp := memoryState{
		users:     make(map[string]entity.User, len(s.users)),
		equipment: make(map[string]entity.Equipment, len(s.equipment)),
		requests:  make(map[string]entity.ServiceRequest, len(s.requests)),
		audit:     append([]entity.AuditEntry(nil), s.audit...),
		seq:       s.seq,
	}
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.equipment {
		cp.equipment[k] = v
	}
	for k, v := range s.requests {
		cp.requests[k] = v
	}
	return cp
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu          sync.RWMutex
	state       memoryState
	catalog     entity.Catalog
	unavailable atomic.Bool
}

// NewStore crea un store vacío con el catálogo dado (nil = DefaultCatalog).
func NewStore(catalog *entity.Catalog) *Store {
	s := &Store{state: newMemoryState()}
	if catalog != nil {
		s.catalog = *catalog
	} else {
		s.catalog = DefaultCatalog()
	}
	return s
}

// SetUnavailable simula una caída del almacenamiento: toda operación devuelve
// domain.ErrStorageUnavailable mientras esté activo.
func (s *Store) SetUnavailable(down bool) { s.unavailable.Store(down) }

func (s *Store) check(ctx context.Context) error {
	if s.unavailable.Load() {
		return domain.ErrStorageUnavailable
	}
	return ctx.Err()
}

// Ping para el health check.
func (s *Store) Ping(ctx context.Context) error { return s.check(ctx) }

// Run implementa la transacción de los casos de uso de lifecycle.
func (s *Store) Run(ctx context.Context, fn func(
	equipmentRepo repository.EquipmentRepository,
	requestRepo repository.ServiceRequestRepository,
	auditRepo repository.AuditRepository,
) error) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.clone()
	b := base{store: s, tx: &tx}
	if err := fn(&EquipmentRepository{b}, &ServiceRequestRepository{b}, &AuditRepository{b}); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Constructores de repositorios fuera de transacción.

func (s *Store) Users() *UserRepository { return &UserRepository{base{store: s}} }
func (s *Store) Equipment() *EquipmentRepository { return &EquipmentRepository{base{store: s}} }
func (s *Store) Requests() *ServiceRequestRepository { return &ServiceRequestRepository{base{store: s}} }
func (s *Store) Audit() *AuditRepository { return &AuditRepository{base{store: s}} }
func (s *Store) Catalog() *CatalogRepository { return &CatalogRepository{store: s} }
func (s *Store) Analytics() *AnalyticsRepository { return &AnalyticsRepository{base{store: s}} }

// base resuelve sobre qué estado opera un repositorio: el de una transacción en curso
// (ya bloqueado por Run) o el compartido, bloqueando por operación.
type base struct {
	store *Store
	tx    *memoryState
}

func (b base) read(ctx context.Context, fn func(st *memoryState) error) error {
	if err := b.store.check(ctx); err != nil {
		return err
	}
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return fn(&b.store.state)
}

func (b base) write(ctx context.Context, fn func(st *memoryState) error) error {
	if err := b.store.check(ctx); err != nil {
		return err
	}
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(&b.store.state)
}

// micro iguala la precisión de timestamptz para que ambos drivers se comporten igual.
func micro(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
