package lifecycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

func TestRequest_CicloCompleto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	eq := e.newEquipment(t, "SN-1", "CON")
	r := e.newRequest(t, e.user, eq.ID)
	assert.Equal(t, "pending", r.Status)
	assert.Equal(t, e.user.ID, r.RequesterID)
	assert.Empty(t, r.AllowedTransitions)

	_, err := e.requests.Transition(ctx, e.technician, r.ID, dto.TransitionRequest{Status: "in_process"})
	require.NoError(t, err)
	out, err := e.requests.Transition(ctx, e.technician, r.ID, dto.TransitionRequest{Status: "resolved", Note: "cambio de cable"})
	require.NoError(t, err)
	assert.Equal(t, "resolved", out.Status)

	h, err := e.ledger.History(ctx, e.manager, entity.KindRequest, r.ID)
	require.NoError(t, err)
	require.Len(t, h.Entries, 2)
	assert.Equal(t, "cambio de cable", h.Entries[1].Note)
}

func TestRequest_EquipoRetiradoEsReferenciaInvalida(t *testing.T) {
	e := newEnv(t)
	eq := e.newEquipment(t, "SN-1", "CON")
	e.moveEquipment(t, e.manager, eq.ID, entity.EquipmentWithdrawn)

	_, err := e.requests.Create(context.Background(), e.user, dto.CreateServiceRequest{
		EquipmentID: eq.ID, Description: "Revisar teclado",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestRequest_EquipoInexistenteOInvisible(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.requests.Create(ctx, e.user, dto.CreateServiceRequest{EquipmentID: "ghost", Description: "Revisar"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	other := e.newEquipment(t, "SN-SIS", "SIS")
	_, err = e.requests.Create(ctx, e.user, dto.CreateServiceRequest{EquipmentID: other.ID, Description: "Revisar"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	// sin equipo: solicitud general
	_, err = e.requests.Create(ctx, e.user, dto.CreateServiceRequest{Description: "Necesito un monitor"})
	assert.NoError(t, err)
}

func TestRequest_CerradaPorManagerEsTerminal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.newRequest(t, e.user, "")

	_, err := e.requests.Transition(ctx, e.manager, r.ID, dto.TransitionRequest{Status: "closed"})
	require.NoError(t, err)

	_, err = e.requests.Transition(ctx, e.manager, r.ID, dto.TransitionRequest{Status: "in_process"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	desc := "otra"
	_, err = e.requests.Update(ctx, e.admin, r.ID, dto.UpdateServiceRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRequest_TecnicoNoPuedeCerrar(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.newRequest(t, e.user, "")

	_, err := e.requests.Transition(ctx, e.technician, r.ID, dto.TransitionRequest{Status: "closed"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	v, err := e.ledger.Verify(ctx, e.admin, entity.KindRequest, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Entries)
	assert.True(t, v.Consistent)
}

func TestRequest_UsuarioSoloLasSuyas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	colleague := e.addUser(t, "colleague", entity.RoleUser, "CON")
	mine := e.newRequest(t, e.user, "")
	theirs := e.newRequest(t, colleague, "")

	_, err := e.requests.GetByID(ctx, e.user, theirs.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := e.requests.GetByID(ctx, e.user, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	list, err := e.requests.List(ctx, e.user, dto.ServiceRequestListQuery{}, firstPage(50))
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	list, err = e.requests.List(ctx, e.user, dto.ServiceRequestListQuery{RequesterID: colleague.ID}, firstPage(50))
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	list, err = e.requests.List(ctx, e.technician, dto.ServiceRequestListQuery{Status: "pending"}, firstPage(50))
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
}

func TestRequest_UpdateSoloAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	r := e.newRequest(t, e.user, "")
	desc := "Descripción corregida"

	_, err := e.requests.Update(ctx, e.manager, r.ID, dto.UpdateServiceRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := e.requests.Update(ctx, e.admin, r.ID, dto.UpdateServiceRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, got.Description)
	assert.Equal(t, "pending", got.Status)
}

func TestRequest_DescripcionSeRecortaAntesDeValidar(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	for _, desc := range []string{"      ", "  ab  "} {
		_, err := e.requests.Create(ctx, e.user, dto.CreateServiceRequest{Description: desc})
		assert.ErrorIs(t, err, domain.ErrValidation, "%q", desc)
	}

	out, err := e.requests.Create(ctx, e.user, dto.CreateServiceRequest{Description: "  sin red  "})
	require.NoError(t, err)
	assert.Equal(t, "sin red", out.Description)
}
