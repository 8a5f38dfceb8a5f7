package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Code es el identificador de negocio usado por las solicitudes de envío.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StorageSection sección física (pasillo, estante, zona fría) dentro de una bodega.
type StorageSection struct {
	ID          string
	WarehouseID string
	Code        string
	Name        string
}
