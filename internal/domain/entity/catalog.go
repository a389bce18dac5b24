package entity

// CatalogItem elemento de los catálogos de referencia (código + nombre).
type CatalogItem struct {
	Code string
	Name string
}

// Catalog datos de referencia usados para decorar usuarios y equipos. Solo lectura.
type Catalog struct {
	Departments []CatalogItem
	Positions   []CatalogItem
	Genders     []CatalogItem
}

// Has indica si code existe en items. Un código vacío nunca existe.
func Has(items []CatalogItem, code string) bool {
	if code == "" {
		return false
	}
	for _, it := range items {
		if it.Code == code {
			return true
		}
	}
	return false
}
