package dto

import "strings"

// Los métodos Trimmed devuelven una copia sin espacios en los extremos de los campos de texto.
// Los casos de uso los aplican antes de validar, para que "   " cuente como vacío.

func (r CreateEquipmentRequest) Trimmed() CreateEquipmentRequest {
	r.Type = strings.TrimSpace(r.Type)
	r.Model = strings.TrimSpace(r.Model)
	r.Serial = strings.TrimSpace(r.Serial)
	r.Department = strings.TrimSpace(r.Department)
	return r
}

func (r UpdateEquipmentRequest) Trimmed() UpdateEquipmentRequest {
	r.Type = trimPtr(r.Type)
	r.Model = trimPtr(r.Model)
	r.Serial = trimPtr(r.Serial)
	r.Department = trimPtr(r.Department)
	return r
}

func (r CreateServiceRequest) Trimmed() CreateServiceRequest {
	r.EquipmentID = strings.TrimSpace(r.EquipmentID)
	r.Description = strings.TrimSpace(r.Description)
	return r
}

func (r UpdateServiceRequest) Trimmed() UpdateServiceRequest {
	r.Description = trimPtr(r.Description)
	return r
}

// Trimmed no toca el password: los espacios forman parte de él.
func (r CreateUserRequest) Trimmed() CreateUserRequest {
	r.WorkerID = strings.TrimSpace(r.WorkerID)
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Department = strings.TrimSpace(r.Department)
	r.Position = strings.TrimSpace(r.Position)
	r.Gender = strings.TrimSpace(r.Gender)
	return r
}

func (r UpdateUserRequest) Trimmed() UpdateUserRequest {
	r.FullName = trimPtr(r.FullName)
	r.Department = trimPtr(r.Department)
	r.Position = trimPtr(r.Position)
	r.Gender = trimPtr(r.Gender)
	return r
}

func (r UpdateSelfRequest) Trimmed() UpdateSelfRequest {
	r.FullName = trimPtr(r.FullName)
	return r
}

// trimPtr no modifica el valor apuntado, que pertenece al llamador.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
