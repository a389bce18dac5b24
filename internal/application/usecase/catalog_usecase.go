package usecase

import (
	"context"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// CatalogUseCase expone los catálogos de referencia para formularios.
type CatalogUseCase struct {
	repo repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// Get devuelve departamentos, cargos y géneros.
func (uc *CatalogUseCase) Get(ctx context.Context) (*dto.CatalogResponse, error) {
	cat, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CatalogResponse{
		Departments: toItems(cat.Departments),
		Positions:   toItems(cat.Positions),
		Genders:     toItems(cat.Genders),
	}, nil
}

func toItems(items []entity.CatalogItem) []dto.CatalogItemDTO {
	out := make([]dto.CatalogItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CatalogItemDTO{Code: it.Code, Name: it.Name})
	}
	return out
}
