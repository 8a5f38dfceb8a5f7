package memory

import (
	"time"

	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// DemoAdminID ID del usuario administrador de SeedDemo.
const DemoAdminID int64 = 1

// SeedDemo carga datos de referencia mínimos para levantar el servicio en modo memoria:
// dos bodegas, un producto, un grupo, una sección y un administrador con el hash bcrypt dado.
func SeedDemo(s *Store, adminEmail, adminPasswordHash string) {
	now := time.Now()
	s.AddWarehouse(entity.Warehouse{ID: "8f3c2b1e-0000-4000-8000-000000000001", Code: "BOG-01", Name: "Bodega Bogotá", IsActive: true, CreatedAt: now, UpdatedAt: now})
	s.AddWarehouse(entity.Warehouse{ID: "8f3c2b1e-0000-4000-8000-000000000002", Code: "MED-01", Name: "Bodega Medellín", IsActive: true, CreatedAt: now, UpdatedAt: now})
	s.AddSection(entity.StorageSection{ID: "5a1d7c40-0000-4000-8000-000000000001", WarehouseID: "8f3c2b1e-0000-4000-8000-000000000001", Code: "A-01", Name: "Pasillo A"})
	s.AddProduct(entity.Product{ID: "c0ffee00-0000-4000-8000-000000000001", SKU: "SKU-0001", Name: "Producto demo", CreatedAt: now})
	s.AddGroup(entity.StockItemGroup{ID: "9e7b6a50-0000-4000-8000-000000000001", Code: "STD", Name: "Estándar"})
	s.AddUser(entity.User{
		ID:           DemoAdminID,
		Email:        adminEmail,
		PasswordHash: adminPasswordHash,
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
