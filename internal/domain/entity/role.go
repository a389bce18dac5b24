package entity

import "fmt"

// Role es el rol canónico de un usuario. El valor en el cable es siempre el token en minúsculas.
type Role string

// Roles válidos para User.
const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleUser       Role = "user"
)

// Roles lista los cuatro roles en el orden de la tabla de IDs heredados.
var Roles = []Role{RoleAdmin, RoleManager, RoleTechnician, RoleUser}

// legacyRoleIDs es la única tabla de compatibilidad con los IDs numéricos del frontend anterior.
var legacyRoleIDs = map[Role]int{
	RoleAdmin:      1,
	RoleManager:    2,
	RoleTechnician: 3,
	RoleUser:       4,
}

// Valid indica si el rol es uno de los cuatro definidos.
func (r Role) Valid() bool {
	_, ok := legacyRoleIDs[r]
	return ok
}

// LegacyID devuelve el ID numérico heredado (0 si el rol es desconocido).
func (r Role) LegacyID() int {
	return legacyRoleIDs[r]
}

// String implementa fmt.Stringer.
func (r Role) String() string { return string(r) }

// ParseRole valida un token de rol.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("rol desconocido %q", s)
	}
	return r, nil
}

// RoleFromLegacyID convierte un ID numérico heredado al rol canónico.
func RoleFromLegacyID(id int) (Role, error) {
	for r, legacy := range legacyRoleIDs {
		if legacy == id {
			return r, nil
		}
	}
	return "", fmt.Errorf("id de rol heredado desconocido: %d", id)
}
