// Package session guarda la sesión del cliente de línea de comandos: un único token
// con una copia del usuario, persistida en un archivo JSON legible solo por su dueño.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// User copia del usuario autenticado al momento del login.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// Session token vigente y su dueño.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Expired indica si el token ya no sirve en el instante dado.
func (s *Session) Expired(at time.Time) bool {
	return !s.ExpiresAt.IsZero() && !at.Before(s.ExpiresAt)
}

// Holder una sola sesión a la vez. Seguro para uso concurrente.
// Con path vacío la sesión vive solo en memoria.
type Holder struct {
	mu      sync.RWMutex
	path    string
	current *Session
	now     func() time.Time
}

// NewHolder crea un holder vacío que persiste en path.
func NewHolder(path string) *Holder {
	return &Holder{path: path, now: time.Now}
}

// Load lee la sesión guardada. Un archivo inexistente no es error: el holder queda vacío.
// Una sesión expirada se descarta.
func (h *Holder) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
	if h.path == "" {
		return nil
	}
	raw, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: leer %s: %w", h.path, err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("session: archivo corrupto %s: %w", h.path, err)
	}
	if s.Token == "" || s.Expired(h.now()) {
		return nil
	}
	h.current = &s
	return nil
}

// Set reemplaza la sesión y la persiste con permisos 0600.
func (h *Holder) Set(s Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.path != "" {
		if err := writeFile(h.path, &s); err != nil {
			return err
		}
	}
	h.current = &s
	return nil
}

// Clear olvida la sesión y borra el archivo.
func (h *Holder) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
	if h.path == "" {
		return nil
	}
	if err := os.Remove(h.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: borrar %s: %w", h.path, err)
	}
	return nil
}

// Current devuelve una copia de la sesión vigente, o nil.
func (h *Holder) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil || h.current.Expired(h.now()) {
		return nil
	}
	s := *h.current
	return &s
}

// Token para el cliente HTTP; vacío si no hay sesión vigente.
func (h *Holder) Token() string {
	if s := h.Current(); s != nil {
		return s.Token
	}
	return ""
}

// writeFile escribe en un temporal del mismo directorio y lo renombra,
// para no dejar nunca un archivo a medias.
func writeFile(path string, s *Session) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("session: serializar: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: crear %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: permisos: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("session: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: cerrar: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("session: guardar %s: %w", path, err)
	}
	return nil
}
