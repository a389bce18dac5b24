package postgres

import (
	"context"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lee los catálogos de referencia (tabla catalog_items).
type CatalogRepo struct {
	db querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(db querier) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Get devuelve los tres catálogos en su orden de presentación.
func (r *CatalogRepo) Get(ctx context.Context) (*entity.Catalog, error) {
	rows, err := r.db.Query(ctx, `SELECT kind, code, name FROM catalog_items ORDER BY kind, sort_order, code`)
	if err != nil {
		return nil, mapError("get catalog", err)
	}
	defer rows.Close()
	cat := &entity.Catalog{
		Departments: []entity.CatalogItem{},
		Positions:   []entity.CatalogItem{},
		Genders:     []entity.CatalogItem{},
	}
	for rows.Next() {
		var kind string
		var it entity.CatalogItem
		if err := rows.Scan(&kind, &it.Code, &it.Name); err != nil {
			return nil, mapError("scan catalog", err)
		}
		switch kind {
		case "department":
			cat.Departments = append(cat.Departments, it)
		case "position":
			cat.Positions = append(cat.Positions, it)
		case "gender":
			cat.Genders = append(cat.Genders, it)
		}
	}
	return cat, mapError("get catalog", rows.Err())
}

// Upsert inserta o renombra un elemento del catálogo. Lo usa el comando de carga de catálogos.
func (r *CatalogRepo) Upsert(ctx context.Context, kind string, order int, item entity.CatalogItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO catalog_items (kind, code, name, sort_order) VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind, code) DO UPDATE SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order`,
		kind, item.Code, item.Name, order)
	return mapError("upsert catalog item", err)
}
