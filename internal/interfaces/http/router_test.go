package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/activos-ti-api/internal/application/analytics"
	"github.com/jhoicas/activos-ti-api/internal/application/audit"
	"github.com/jhoicas/activos-ti-api/internal/application/auth"
	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/lifecycle"
	"github.com/jhoicas/activos-ti-api/internal/application/report"
	"github.com/jhoicas/activos-ti-api/internal/application/usecase"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/memory"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/revocation"
	apphttp "github.com/jhoicas/activos-ti-api/internal/interfaces/http"
	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testPassword = "ClaveLarga1"

// pdfStub evita renderizar un PDF real en los tests del router.
type pdfStub struct{}

func (pdfStub) GenerateHistoryPDF(context.Context, *report.HistoryDocument) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

// newTestAPI arma la aplicación completa sobre el store en memoria, con un usuario por rol.
func newTestAPI(t *testing.T, loginRateLimit int) *testAPI {
	t.Helper()
	s := memory.NewStore(nil)
	log := logger.Nop()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	for _, u := range []*entity.User{
		{ID: "u-admin", WorkerID: "W-1", Email: "admin@inst.edu", Role: entity.RoleAdmin, Department: "SIS", FullName: "Ana Admin"},
		{ID: "u-tech", WorkerID: "W-2", Email: "tech@inst.edu", Role: entity.RoleTechnician, Department: "SIS", FullName: "Tomás Técnico"},
		{ID: "u-user", WorkerID: "W-3", Email: "user@inst.edu", Role: entity.RoleUser, Department: "CON", FullName: "Úrsula Usuaria"},
	} {
		u.PasswordHash = string(hash)
		u.IsActive = true
		u.CreatedAt, u.UpdatedAt = now, now
		require.NoError(t, s.Users().Create(context.Background(), u))
	}

	ledger := audit.NewLedgerUseCase(s.Audit(), s.Equipment(), s.Requests())
	revoker := revocation.NewMemoryRevoker()
	authUC := auth.NewAuthUseCase(s.Users(), ledger, revoker,
		auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "activos-ti-test"}, log)

	app := apphttp.NewApp("activos-ti-test")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(s.Users(), s.Catalog()),
		CatalogUC:      usecase.NewCatalogUseCase(s.Catalog()),
		EquipmentUC:    lifecycle.NewEquipmentUseCase(s.Equipment(), s.Catalog(), s, log),
		RequestUC:      lifecycle.NewRequestUseCase(s.Requests(), s, log),
		LedgerUC:       ledger,
		DashboardUC:    appanalytics.NewDashboardUseCase(s.Analytics()),
		ReportUC:       report.NewHistoryReportUseCase(ledger, s.Equipment(), s.Requests(), s.Users(), pdfStub{}),
		Log:            log,
		LoginRateLimit: loginRateLimit,
		HealthChecks:   map[string]apphttp.Pinger{"storage": s, "revocation": revoker},
	})
	return &testAPI{app: app, store: s}
}

// do ejecuta una petición y devuelve status y cuerpo.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	status, raw := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: testPassword})
	require.Equal(t, http.StatusOK, status, string(raw))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.Token
}

func errorCode(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinTokenDevuelve401(t *testing.T) {
	api := newTestAPI(t, 0)

	status, raw := api.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, raw).Code)

	status, raw = api.do(t, http.MethodGet, "/api/equipment", "no-es-un-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, raw).Code)
}

func TestAuth_CredencialesInvalidas(t *testing.T) {
	api := newTestAPI(t, 0)

	status, raw := api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@inst.edu", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, raw).Code)
}

func TestAuth_MeYLogoutRevocaElToken(t *testing.T) {
	api := newTestAPI(t, 0)
	token := api.login(t, "tech@inst.edu")

	status, raw := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, "u-tech", me.ID)
	assert.Equal(t, "technician", me.Role)

	status, _ = api.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, raw = api.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, raw).Code)
}

func TestAuth_UsuarioDesactivadoPierdeLaSesion(t *testing.T) {
	api := newTestAPI(t, 0)
	admin := api.login(t, "admin@inst.edu")
	tech := api.login(t, "tech@inst.edu")

	status, _ := api.do(t, http.MethodDelete, "/api/users/u-tech", admin, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = api.do(t, http.MethodGet, "/api/equipment", tech, nil)
	assert.Contains(t, []int{http.StatusUnauthorized, http.StatusForbidden}, status)
}

func TestAuth_LimiteDeLogin(t *testing.T) {
	api := newTestAPI(t, 2)
	body := dto.LoginRequest{Email: "admin@inst.edu", Password: "incorrecta"}

	for i := 0; i < 2; i++ {
		status, _ := api.do(t, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, raw := api.do(t, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles y errores
// ──────────────────────────────────────────────────────────────────────────────

func TestUsers_CrearSoloAdmin(t *testing.T) {
	api := newTestAPI(t, 0)
	in := dto.CreateUserRequest{
		WorkerID: "W-9", Email: "nuevo@inst.edu", Password: testPassword, FullName: "Nuevo",
		Role: "user", Department: "CON", Position: "AUX", Gender: "O",
	}

	status, raw := api.do(t, http.MethodPost, "/api/users", api.login(t, "user@inst.edu"), in)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw).Code)

	admin := api.login(t, "admin@inst.edu")
	status, raw = api.do(t, http.MethodPost, "/api/users", admin, in)
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = api.do(t, http.MethodPost, "/api/users", admin, in)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, raw).Code)
}

func TestUsers_MeNoSeConfundeConID(t *testing.T) {
	api := newTestAPI(t, 0)
	token := api.login(t, "user@inst.edu")

	status, raw := api.do(t, http.MethodPatch, "/api/users/me", token, map[string]any{"full_name": "Úrsula U."})
	require.Equal(t, http.StatusOK, status, string(raw))
	var out dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Úrsula U.", out.FullName)
}

func TestErrores_CuerpoInvalidoYRutaInexistente(t *testing.T) {
	api := newTestAPI(t, 0)
	token := api.login(t, "admin@inst.edu")

	status, raw := api.do(t, http.MethodPost, "/api/equipment", token, "{no json")
	assert.Equal(t, http.StatusBadRequest, status)
	body := errorCode(t, raw)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "body")

	status, raw = api.do(t, http.MethodGet, "/api/no-existe", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw).Code)

	status, raw = api.do(t, http.MethodGet, "/api/equipment?page_size=5000", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw).Code)

	for _, path := range []string{"/api/equipment", "/api/requests", "/api/users", "/api/audit/logins"} {
		status, raw = api.do(t, http.MethodGet, path+"?page=4611686018427387904&page_size=4", token, nil)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "VALIDATION", errorCode(t, raw).Code, path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida e historial
// ──────────────────────────────────────────────────────────────────────────────

func TestEquipment_TransicionesEHistorial(t *testing.T) {
	api := newTestAPI(t, 0)
	admin := api.login(t, "admin@inst.edu")
	tech := api.login(t, "tech@inst.edu")

	status, raw := api.do(t, http.MethodPost, "/api/equipment", admin, dto.CreateEquipmentRequest{
		Type: "laptop", Model: "Latitude 5420", Serial: "SN-001", Department: "SIS",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var eq dto.EquipmentResponse
	require.NoError(t, json.Unmarshal(raw, &eq))
	assert.Equal(t, "operational", eq.Status)

	base := "/api/equipment/" + eq.ID

	status, raw = api.do(t, http.MethodPost, base+"/transition", tech, dto.TransitionRequest{Status: "damaged"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, raw).Code)

	status, raw = api.do(t, http.MethodPost, base+"/transition", tech, dto.TransitionRequest{Status: "under_review"})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = api.do(t, http.MethodPost, base+"/transition", tech,
		dto.TransitionRequest{Status: "damaged", ExpectedStatus: "operational"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(t, raw).Code)

	status, raw = api.do(t, http.MethodGet, base+"/history", admin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var hist dto.HistoryResponse
	require.NoError(t, json.Unmarshal(raw, &hist))
	require.NotEmpty(t, hist.Entries)
	last := hist.Entries[len(hist.Entries)-1]
	assert.Equal(t, "under_review", last.NewStatus)

	status, raw = api.do(t, http.MethodGet, "/api/audit/verify/equipment/"+eq.ID, admin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var verify dto.ConsistencyResponse
	require.NoError(t, json.Unmarshal(raw, &verify))
	assert.True(t, verify.Consistent)

	status, _ = api.do(t, http.MethodGet, "/api/audit/verify/printer/"+eq.ID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEquipment_HistorialPDF(t *testing.T) {
	api := newTestAPI(t, 0)
	admin := api.login(t, "admin@inst.edu")
	_, raw := api.do(t, http.MethodPost, "/api/equipment", admin, dto.CreateEquipmentRequest{
		Type: "monitor", Model: "P2422H", Serial: "SN-PDF", Department: "SIS",
	})
	var eq dto.EquipmentResponse
	require.NoError(t, json.Unmarshal(raw, &eq))

	req := httptest.NewRequest(http.MethodGet, "/api/equipment/"+eq.ID+"/history.pdf", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "historial_equipment_"+eq.ID+".pdf")
}

func TestRequests_UsuarioCreaYVeSoloLasSuyas(t *testing.T) {
	api := newTestAPI(t, 0)
	user := api.login(t, "user@inst.edu")
	tech := api.login(t, "tech@inst.edu")

	status, raw := api.do(t, http.MethodPost, "/api/requests", user, dto.CreateServiceRequest{Description: "La impresora no enciende"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var created dto.ServiceRequestResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "u-user", created.RequesterID)

	status, raw = api.do(t, http.MethodPost, "/api/requests", tech, dto.CreateServiceRequest{
		Description: "Equipo inexistente", EquipmentID: "no-existe",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_REFERENCE", errorCode(t, raw).Code)

	status, raw = api.do(t, http.MethodPost, "/api/requests/"+created.ID+"/transition", user, dto.TransitionRequest{Status: "in_process"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw).Code)

	status, raw = api.do(t, http.MethodGet, "/api/requests", user, nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.ListResponse[dto.ServiceRequestResponse]
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, dto.DefaultPageSize, list.PageSize)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estadísticas, catálogo y health
// ──────────────────────────────────────────────────────────────────────────────

func TestStatistics_UsuarioSinAcceso(t *testing.T) {
	api := newTestAPI(t, 0)

	status, raw := api.do(t, http.MethodGet, "/api/audit/statistics", api.login(t, "user@inst.edu"), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw).Code)

	status, raw = api.do(t, http.MethodGet, "/api/audit/statistics", api.login(t, "admin@inst.edu"), nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var data dto.DashboardData
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Len(t, data.LoginsPerDay, 28)
	assert.Contains(t, data.EquipmentByStatus, "withdrawn")
}

func TestCatalog(t *testing.T) {
	api := newTestAPI(t, 0)

	status, raw := api.do(t, http.MethodGet, "/api/catalog", api.login(t, "user@inst.edu"), nil)
	require.Equal(t, http.StatusOK, status)
	var cat dto.CatalogResponse
	require.NoError(t, json.Unmarshal(raw, &cat))
	assert.NotEmpty(t, cat.Departments)
	assert.NotEmpty(t, cat.Genders)
}

func TestHealth_AlmacenamientoCaido(t *testing.T) {
	api := newTestAPI(t, 0)

	status, _ := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	api.store.SetUnavailable(true)
	status, raw := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(raw), "degraded")
}
