// Package client cliente HTTP tipado de la API de activos TI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
)

// APIError respuesta no 2xx de la API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

// TokenSource entrega el token de la sesión actual; vacío = petición anónima.
type TokenSource interface {
	Token() string
}

// Client cliente de la API. Seguro para uso concurrente.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New construye el cliente. baseURL sin el sufijo /api (p. ej. http://localhost:8080).
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient reemplaza el cliente HTTP (tests, transportes propios).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, dto.LoginRequest{Email: email, Password: password}, &out)
	return &out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out)
	return &out, err
}

// ── Equipos ───────────────────────────────────────────────────────────────────

func (c *Client) ListEquipment(ctx context.Context, q dto.EquipmentListQuery, page dto.PageRequest) (*dto.ListResponse[dto.EquipmentResponse], error) {
	params := pageParams(page)
	set(params, "status", q.Status)
	set(params, "department", q.Department)
	set(params, "type", q.Type)
	var out dto.ListResponse[dto.EquipmentResponse]
	err := c.do(ctx, http.MethodGet, "/api/equipment", params, nil, &out)
	return &out, err
}

func (c *Client) GetEquipment(ctx context.Context, id string) (*dto.EquipmentResponse, error) {
	var out dto.EquipmentResponse
	err := c.do(ctx, http.MethodGet, "/api/equipment/"+url.PathEscape(id), nil, nil, &out)
	return &out, err
}

func (c *Client) CreateEquipment(ctx context.Context, in dto.CreateEquipmentRequest) (*dto.EquipmentResponse, error) {
	var out dto.EquipmentResponse
	err := c.do(ctx, http.MethodPost, "/api/equipment", nil, in, &out)
	return &out, err
}

func (c *Client) TransitionEquipment(ctx context.Context, id string, in dto.TransitionRequest) (*dto.EquipmentResponse, error) {
	var out dto.EquipmentResponse
	err := c.do(ctx, http.MethodPost, "/api/equipment/"+url.PathEscape(id)+"/transition", nil, in, &out)
	return &out, err
}

func (c *Client) EquipmentHistory(ctx context.Context, id string) (*dto.HistoryResponse, error) {
	var out dto.HistoryResponse
	err := c.do(ctx, http.MethodGet, "/api/equipment/"+url.PathEscape(id)+"/history", nil, nil, &out)
	return &out, err
}

// EquipmentHistoryPDF descarga el historial en PDF.
func (c *Client) EquipmentHistoryPDF(ctx context.Context, id string) ([]byte, error) {
	return c.raw(ctx, "/api/equipment/"+url.PathEscape(id)+"/history.pdf")
}

// ── Solicitudes ───────────────────────────────────────────────────────────────

func (c *Client) ListRequests(ctx context.Context, q dto.ServiceRequestListQuery, page dto.PageRequest) (*dto.ListResponse[dto.ServiceRequestResponse], error) {
	params := pageParams(page)
	set(params, "status", q.Status)
	set(params, "requester_id", q.RequesterID)
	set(params, "equipment_id", q.EquipmentID)
	var out dto.ListResponse[dto.ServiceRequestResponse]
	err := c.do(ctx, http.MethodGet, "/api/requests", params, nil, &out)
	return &out, err
}

func (c *Client) GetRequest(ctx context.Context, id string) (*dto.ServiceRequestResponse, error) {
	var out dto.ServiceRequestResponse
	err := c.do(ctx, http.MethodGet, "/api/requests/"+url.PathEscape(id), nil, nil, &out)
	return &out, err
}

func (c *Client) CreateRequest(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceRequestResponse, error) {
	var out dto.ServiceRequestResponse
	err := c.do(ctx, http.MethodPost, "/api/requests", nil, in, &out)
	return &out, err
}

func (c *Client) TransitionRequest(ctx context.Context, id string, in dto.TransitionRequest) (*dto.ServiceRequestResponse, error) {
	var out dto.ServiceRequestResponse
	err := c.do(ctx, http.MethodPost, "/api/requests/"+url.PathEscape(id)+"/transition", nil, in, &out)
	return &out, err
}

func (c *Client) RequestHistory(ctx context.Context, id string) (*dto.HistoryResponse, error) {
	var out dto.HistoryResponse
	err := c.do(ctx, http.MethodGet, "/api/requests/"+url.PathEscape(id)+"/history", nil, nil, &out)
	return &out, err
}

// ── Auditoría y catálogo ──────────────────────────────────────────────────────

func (c *Client) Statistics(ctx context.Context, q dto.StatisticsQuery) (*dto.DashboardData, error) {
	params := url.Values{}
	set(params, "from", q.From)
	set(params, "to", q.To)
	var out dto.DashboardData
	err := c.do(ctx, http.MethodGet, "/api/audit/statistics", params, nil, &out)
	return &out, err
}

func (c *Client) Logins(ctx context.Context, q dto.LoginListQuery, page dto.PageRequest) (*dto.ListResponse[dto.LoginEventResponse], error) {
	params := pageParams(page)
	set(params, "actor_id", q.ActorID)
	set(params, "event", q.Event)
	set(params, "from", q.From)
	set(params, "to", q.To)
	var out dto.ListResponse[dto.LoginEventResponse]
	err := c.do(ctx, http.MethodGet, "/api/audit/logins", params, nil, &out)
	return &out, err
}

func (c *Client) Catalog(ctx context.Context) (*dto.CatalogResponse, error) {
	var out dto.CatalogResponse
	err := c.do(ctx, http.MethodGet, "/api/catalog", nil, nil, &out)
	return &out, err
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, in any) (*http.Request, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: crear HTTP request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx := req.Context(); ctx.Err() != nil {
			return nil, fmt.Errorf("api: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("api: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("api: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body dto.ErrorResponse
		if jsonErr := json.Unmarshal(raw, &body); jsonErr == nil && body.Code != "" {
			apiErr.Code, apiErr.Message, apiErr.Fields = body.Code, body.Message, body.Fields
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return nil, apiErr
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	req, err := c.newRequest(ctx, method, path, params, in)
	if err != nil {
		return err
	}
	raw, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: deserializar respuesta: %w", err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")
	return c.send(req)
}

func pageParams(p dto.PageRequest) url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	return v
}

func set(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
