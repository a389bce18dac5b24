package lifecycle

import (
	"context"

	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: el cambio de estado y su entrada de historial
// se confirman juntos o no se confirma ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		equipmentRepo repository.EquipmentRepository,
		requestRepo repository.ServiceRequestRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
