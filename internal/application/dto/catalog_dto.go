package dto

// CatalogItemDTO elemento de catálogo.
type CatalogItemDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CatalogResponse datos de referencia para formularios.
type CatalogResponse struct {
	Departments []CatalogItemDTO `json:"departments"`
	Positions   []CatalogItemDTO `json:"positions"`
	Genders     []CatalogItemDTO `json:"genders"`
}
