package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/activos-ti-api/internal/application/analytics"
	"github.com/jhoicas/activos-ti-api/internal/application/audit"
	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/auth"
	"github.com/jhoicas/activos-ti-api/internal/application/lifecycle"
	"github.com/jhoicas/activos-ti-api/internal/application/report"
	"github.com/jhoicas/activos-ti-api/internal/application/usecase"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/memory"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/revocation"
	apphttp "github.com/jhoicas/activos-ti-api/internal/interfaces/http"
	"github.com/jhoicas/activos-ti-api/pkg/client"
	"github.com/jhoicas/activos-ti-api/pkg/logger"
	"github.com/jhoicas/activos-ti-api/pkg/session"
)

// fiberTransport sirve las peticiones del cliente con app.Test, sin abrir un puerto.
type fiberTransport struct{ app *fiber.App }

func (t fiberTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.app.Test(req, -1)
}

type pdfStub struct{}

func (pdfStub) GenerateHistoryPDF(context.Context, *report.HistoryDocument) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

// newCLI API completa en memoria con un administrador inicial.
func newCLI(t *testing.T) (*cli, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore(nil)
	log := logger.Nop()
	ledger := audit.NewLedgerUseCase(s.Audit(), s.Equipment(), s.Requests())
	userUC := usecase.NewUserUseCase(s.Users(), s.Catalog())
	_, err := userUC.EnsureAdmin(ctx, "admin@inst.edu", "ClaveLarga1", "SIS")
	require.NoError(t, err)

	app := apphttp.NewApp("activosctl-test")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(s.Users(), ledger, revocation.NewMemoryRevoker(),
			auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "test"}, log),
		UserUC:      userUC,
		CatalogUC:   usecase.NewCatalogUseCase(s.Catalog()),
		EquipmentUC: lifecycle.NewEquipmentUseCase(s.Equipment(), s.Catalog(), s, log),
		RequestUC:   lifecycle.NewRequestUseCase(s.Requests(), s, log),
		LedgerUC:    ledger,
		DashboardUC: appanalytics.NewDashboardUseCase(s.Analytics()),
		ReportUC:    report.NewHistoryReportUseCase(ledger, s.Equipment(), s.Requests(), s.Users(), pdfStub{}),
		Log:         log,
	})

	holder := session.NewHolder(filepath.Join(t.TempDir(), "session.json"))
	api := client.New("http://activos.test", holder).WithHTTPClient(&http.Client{
		Transport: fiberTransport{app: app},
		Timeout:   10 * time.Second,
	})
	out := &bytes.Buffer{}
	return &cli{api: api, session: holder, in: strings.NewReader(""), out: out}, out
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	c, out := newCLI(t)
	ctx := context.Background()

	require.NoError(t, c.run(ctx, []string{"login", "--email", "admin@inst.edu", "--password", "ClaveLarga1"}))
	assert.Contains(t, out.String(), "sesión iniciada: admin@inst.edu (admin)")
	require.NotNil(t, c.session.Current())

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"whoami"}))
	assert.Contains(t, out.String(), "admin@inst.edu")

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"logout"}))
	assert.Contains(t, out.String(), "sesión cerrada")
	assert.Nil(t, c.session.Current())

	assert.Error(t, c.run(ctx, []string{"whoami"}))
}

func TestCLI_PasswordDesdeEntradaEstandar(t *testing.T) {
	c, out := newCLI(t)
	c.in = strings.NewReader("ClaveLarga1\n")

	require.NoError(t, c.run(context.Background(), []string{"login", "--email", "admin@inst.edu"}))
	assert.Contains(t, out.String(), "sesión iniciada")
}

func TestCLI_EquiposYErroresDeLaAPI(t *testing.T) {
	c, out := newCLI(t)
	ctx := context.Background()
	require.NoError(t, c.run(ctx, []string{"login", "--email", "admin@inst.edu", "--password", "ClaveLarga1"}))

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"equipment", "create",
		"--type", "laptop", "--model", "Latitude", "--serial", "SN-CLI", "--department", "SIS"}))
	assert.Contains(t, out.String(), "operational")

	list, err := c.api.ListEquipment(ctx, dto.EquipmentListQuery{}, dto.PageRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	id := list.Items[0].ID

	err = c.run(ctx, []string{"equipment", "transition", id, "--to", "damaged"})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "INVALID_TRANSITION", apiErr.Code)

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"equipment", "transition", id, "--to", "under_review", "--note", "revisión"}))
	assert.Contains(t, out.String(), "under_review")

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"equipment", "history", id}))
	assert.Contains(t, out.String(), "aceptada")

	pdfPath := filepath.Join(t.TempDir(), "hist.pdf")
	require.NoError(t, c.run(ctx, []string{"equipment", "history", id, "--pdf", pdfPath}))

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"stats"}))
	assert.Contains(t, out.String(), "equipos")
}

func TestCLI_ArgumentosInvalidos(t *testing.T) {
	c, _ := newCLI(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.run(ctx, nil), errUsage)
	assert.ErrorIs(t, c.run(ctx, []string{"volar"}), errUsage)
	assert.ErrorIs(t, c.run(ctx, []string{"equipment", "get"}), errUsage)
	assert.ErrorIs(t, c.run(ctx, []string{"requests", "transition", "r-1"}), errUsage)
	assert.ErrorIs(t, c.run(ctx, []string{"login"}), errUsage)
}
