package dto

import "github.com/jhoicas/inventario-envios/internal/domain"

// MaxPageSize tope de elementos por página.
const MaxPageSize = 100

// PageRequest paginación 1-based para listados.
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Check valida la página: page y page_size deben ser >= 1. Page size mayor al tope se recorta.
func (p *PageRequest) Check() error {
	if p.Page < 1 {
		return domain.Invalid("page", "debe ser >= 1")
	}
	if p.PageSize < 1 {
		return domain.Invalid("page_size", "debe ser >= 1")
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return nil
}

// Offset desplazamiento equivalente a la página.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
