package memory

import (
	"context"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// DefaultCatalog catálogos con los que arranca el driver en memoria. Coinciden con la
// semilla de la migración inicial de PostgreSQL.
func DefaultCatalog() entity.Catalog {
	return entity.Catalog{
		Departments: []entity.CatalogItem{
			{Code: "ADM", Name: "Administración"},
			{Code: "ACA", Name: "Académico"},
			{Code: "CON", Name: "Contabilidad"},
			{Code: "RRHH", Name: "Recursos Humanos"},
			{Code: "SIS", Name: "Sistemas"},
		},
		Positions: []entity.CatalogItem{
			{Code: "AUX", Name: "Auxiliar"},
			{Code: "ANA", Name: "Analista"},
			{Code: "COO", Name: "Coordinador"},
			{Code: "DOC", Name: "Docente"},
			{Code: "DIR", Name: "Director"},
			{Code: "TEC", Name: "Técnico"},
		},
		Genders: []entity.CatalogItem{
			{Code: "F", Name: "Femenino"},
			{Code: "M", Name: "Masculino"},
			{Code: "O", Name: "Otro"},
			{Code: "N", Name: "Prefiere no decir"},
		},
	}
}

// CatalogRepository implementa repository.CatalogRepository.
type CatalogRepository struct {
	store *Store
}

// Get devuelve una copia del catálogo.
func (r *CatalogRepository) Get(ctx context.Context) (*entity.Catalog, error) {
	if err := r.store.check(ctx); err != nil {
		return nil, err
	}
	c := r.store.catalog
	return &entity.Catalog{
		Departments: append([]entity.CatalogItem(nil), c.Departments...),
		Positions:   append([]entity.CatalogItem(nil), c.Positions...),
		Genders:     append([]entity.CatalogItem(nil), c.Genders...),
	}, nil
}
