package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas. Count es la cantidad de items devueltos en esta página;
// HasMore indica que la página vino llena y puede haber otra.
type PageResponse struct {
	Limit   int  `json:"limit,omitempty"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// NewPage arma los metadatos a partir de la página pedida y los items obtenidos. limit 0 = sin paginar.
func NewPage(limit, offset, count int) PageResponse {
	return PageResponse{Limit: limit, Offset: offset, Count: count, HasMore: limit > 0 && count >= limit}
}

// ErrorResponse cuerpo de error HTTP; Code es estable para los clientes.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
