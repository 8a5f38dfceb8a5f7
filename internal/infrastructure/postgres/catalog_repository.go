package postgres

import (
	"context"

	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de datos de referencia (productos, grupos, secciones).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador de catálogo.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `SELECT id, sku, name, created_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.SKU, &p.Name, &p.CreatedAt)
	if isMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get product", err)
	}
	return &p, nil
}

func (r *CatalogRepo) GetGroupByID(ctx context.Context, id string) (*entity.StockItemGroup, error) {
	var g entity.StockItemGroup
	err := r.q.QueryRow(ctx, `SELECT id, code, name FROM stock_item_groups WHERE id = $1`, id).
		Scan(&g.ID, &g.Code, &g.Name)
	if isMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get stock item group", err)
	}
	return &g, nil
}

func (r *CatalogRepo) GetSectionByID(ctx context.Context, id string) (*entity.StorageSection, error) {
	var s entity.StorageSection
	err := r.q.QueryRow(ctx, `SELECT id, warehouse_id, code, name FROM storage_sections WHERE id = $1`, id).
		Scan(&s.ID, &s.WarehouseID, &s.Code, &s.Name)
	if isMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get storage section", err)
	}
	return &s, nil
}
