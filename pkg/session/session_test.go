package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(exp time.Time) Session {
	return Session{
		Token:     "tok-1",
		ExpiresAt: exp,
		User:      User{ID: "u-1", Email: "ana@inst.edu", Role: "technician", FullName: "Ana"},
	}
}

func TestHolder_SetPersisteConPermisosRestringidos(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "session.json")
	h := NewHolder(path)

	require.NoError(t, h.Set(sample(time.Now().Add(time.Hour))))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	other := NewHolder(path)
	require.NoError(t, other.Load())
	cur := other.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "tok-1", cur.Token)
	assert.Equal(t, "technician", cur.User.Role)
}

func TestHolder_LoadSinArchivo(t *testing.T) {
	h := NewHolder(filepath.Join(t.TempDir(), "no-existe.json"))
	require.NoError(t, h.Load())
	assert.Nil(t, h.Current())
	assert.Empty(t, h.Token())
}

func TestHolder_LoadArchivoCorrupto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	assert.Error(t, NewHolder(path).Load())
}

func TestHolder_SesionExpiradaSeDescarta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	h := NewHolder(path)
	require.NoError(t, h.Set(sample(time.Now().Add(time.Minute))))

	h.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Nil(t, h.Current())

	again := NewHolder(path)
	again.now = h.now
	require.NoError(t, again.Load())
	assert.Nil(t, again.Current())
}

func TestHolder_ClearBorraElArchivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	h := NewHolder(path)
	require.NoError(t, h.Set(sample(time.Now().Add(time.Hour))))

	require.NoError(t, h.Clear())
	assert.Nil(t, h.Current())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, h.Clear(), "limpiar dos veces no falla")
}

func TestHolder_CurrentDevuelveCopia(t *testing.T) {
	h := NewHolder("")
	require.NoError(t, h.Set(sample(time.Now().Add(time.Hour))))

	cur := h.Current()
	cur.Token = "modificado"
	assert.Equal(t, "tok-1", h.Token())
}

func TestHolder_Concurrente(t *testing.T) {
	h := NewHolder(filepath.Join(t.TempDir(), "session.json"))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = h.Set(sample(time.Now().Add(time.Hour)))
		}()
		go func() {
			defer wg.Done()
			_ = h.Token()
		}()
	}
	wg.Wait()
	assert.Equal(t, "tok-1", h.Token())
}
