package repository

import (
	"context"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// CatalogRepository acceso de solo lectura a los catálogos de referencia.
type CatalogRepository interface {
	Get(ctx context.Context) (*entity.Catalog, error)
}
