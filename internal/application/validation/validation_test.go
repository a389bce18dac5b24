package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/validation"
	"github.com/jhoicas/activos-ti-api/internal/domain"
)

func TestStruct_ReportaCamposConNombreJSON(t *testing.T) {
	err := validation.Struct(dto.CreateUserRequest{Email: "no-es-email", Role: "root"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Fields["email"])
	assert.Equal(t, "oneof=admin manager technician user", verr.Fields["role"])
	assert.Equal(t, "required", verr.Fields["worker_id"])
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
}

func TestStruct_Paginacion(t *testing.T) {
	assert.NoError(t, validation.Struct(dto.PageRequest{Page: 1, PageSize: 10}))
	assert.Error(t, validation.Struct(dto.PageRequest{Page: 0, PageSize: 10}))
	assert.Error(t, validation.Struct(dto.PageRequest{Page: 1, PageSize: dto.MaxPageSize + 1}))
}

func TestStruct_PasswordNuevoRequiereActual(t *testing.T) {
	nuevo := dto.UpdateSelfRequest{NewPassword: "otra-clave-123"}
	err := validation.Struct(nuevo)
	require.Error(t, err)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "current_password")
}

func TestStruct_PaginaMuyGrandeEsValidacion(t *testing.T) {
	err := validation.Struct(dto.PageRequest{Page: 1 << 62, PageSize: 4})
	require.Error(t, err)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "max=1000000", verr.Fields["page"])

	ultima := dto.PageRequest{Page: dto.MaxPage, PageSize: dto.MaxPageSize}
	require.NoError(t, validation.Struct(ultima))
	assert.Positive(t, ultima.Offset())
}

func TestStruct_PasswordCuentaBytesNoRunas(t *testing.T) {
	// 40 "ñ" son 40 runas pero 80 bytes: bcrypt no los admite.
	in := dto.CreateUserRequest{
		WorkerID: "T-1", Email: "a@inst.edu", Role: "user", FullName: "Ana", Department: "SIS",
		Password: strings.Repeat("ñ", 40),
	}
	err := validation.Struct(in)
	require.Error(t, err)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "maxbytes=72", verr.Fields["password"])

	in.Password = strings.Repeat("a", 72)
	assert.NoError(t, validation.Struct(in))
}

func TestVar_ReportaElNombreIndicado(t *testing.T) {
	assert.NoError(t, validation.Var("password", "ClaveLarga1", "min=8,maxbytes=72"))

	err := validation.Var("password", strings.Repeat("a", 80), "min=8,maxbytes=72")
	require.Error(t, err)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"password": "maxbytes=72"}, verr.Fields)
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
}

func TestStruct_PunteroAVacioSeValida(t *testing.T) {
	vacio := ""
	err := validation.Struct(dto.UpdateEquipmentRequest{Model: &vacio})
	require.Error(t, err)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "min=1", verr.Fields["model"])

	assert.NoError(t, validation.Struct(dto.UpdateEquipmentRequest{}), "nil significa sin cambios")
}
