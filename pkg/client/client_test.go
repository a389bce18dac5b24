package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/pkg/client"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_EnviaTokenYFiltros(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/equipment", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "damaged", r.URL.Query().Get("status"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))
		assert.False(t, r.URL.Query().Has("department"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.NewListResponse([]dto.EquipmentResponse{{ID: "eq-1", Status: "damaged"}}, 51, dto.PageRequest{Page: 2, PageSize: 50}))
	})

	c := client.New(srv.URL+"/", staticToken("tok-1"))
	out, err := c.ListEquipment(context.Background(), dto.EquipmentListQuery{Status: "damaged"}, dto.PageRequest{Page: 2, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 51, out.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "eq-1", out.Items[0].ID)
}

func TestClient_LoginSinToken(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var in dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ana@inst.edu", in.Email)
		_ = json.NewEncoder(w).Encode(dto.LoginResponse{Token: "nuevo", User: dto.UserResponse{ID: "u-1"}})
	})

	out, err := client.New(srv.URL, staticToken("")).Login(context.Background(), "ana@inst.edu", "secreta123")
	require.NoError(t, err)
	assert.Equal(t, "nuevo", out.Token)
}

func TestClient_ErrorDeLaAPI(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "operational → damaged"})
	})

	_, err := client.New(srv.URL, staticToken("t")).TransitionEquipment(context.Background(), "eq-1", dto.TransitionRequest{Status: "damaged"})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "INVALID_TRANSITION", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "INVALID_TRANSITION")
}

func TestClient_ErrorSinCuerpoJSON(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.New(srv.URL, nil).Logout(context.Background())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Code)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_LogoutSinContenido(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, client.New(srv.URL, staticToken("t")).Logout(context.Background()))
}

func TestClient_HistorialPDF(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/equipment/eq%201/history.pdf", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	})

	doc, err := client.New(srv.URL, staticToken("t")).EquipmentHistoryPDF(context.Background(), "eq 1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(doc))
}
