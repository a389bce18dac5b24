package dto

// Límites de paginación.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 1000
	// MaxPage acota page para que (page-1)*page_size nunca desborde int.
	MaxPage = 1_000_000
)

// PageRequest paginación para listados (page empieza en 1).
type PageRequest struct {
	Page     int `query:"page" validate:"min=1,max=1000000"`
	PageSize int `query:"page_size" validate:"min=1,max=1000"`
}

// Limit y Offset traducen la página a la forma que usan los repositorios.
func (p PageRequest) Limit() int  { return p.PageSize }
func (p PageRequest) Offset() int { return (p.Page - 1) * p.PageSize }

// ListResponse página de resultados con el total, para calcular el número de páginas
// sin una segunda llamada.
type ListResponse[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewListResponse construye la respuesta; nunca serializa items como null.
func NewListResponse[T any](items []T, total int, page PageRequest) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
