package entity

import "strings"

// Address dirección postal de destino para envíos que no llegan a una bodega propia.
type Address struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string // ISO 3166-1 alfa-2
}

// OneLine devuelve la dirección en una sola línea (para documentos).
func (a Address) OneLine() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.Region, a.PostalCode, a.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
