package dto

// Límites de paginación de GET /api/invoices.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// PageRequest ventana del listado de transmisiones (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage completa los valores ausentes. Un limit mayor que MaxListLimit
// no se recorta: lo rechaza la validación.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de la página devuelta.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NewPageResponse calcula los metadatos a partir del total de registros y de
// cuántos trae la página.
func NewPageResponse(page PageRequest, total, count int) PageResponse {
	return PageResponse{
		Limit:   page.Limit,
		Offset:  page.Offset,
		Total:   total,
		HasMore: page.Offset+count < total,
	}
}

// ErrorResponse cuerpo de error HTTP. Code es estable (VALIDATION, NOT_FOUND,
// CONFLICT...); Message es para el operador.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
