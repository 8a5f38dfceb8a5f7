package entity

import "time"

// Product representa un producto o SKU del catálogo.
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	CreatedAt time.Time
}

// StockItemGroup agrupa variantes de un producto (lote, talla, presentación).
// Un StockItem se identifica por bodega + producto + grupo.
type StockItemGroup struct {
	ID   string
	Code string
	Name string
}
