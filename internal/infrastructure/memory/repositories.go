package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/domain/repository"
)

// ── StockItems ───────────────────────────────────────────────────────────────

// StockItemRepository implementa repository.StockItemRepository en memoria.
// En memoria el bloqueo FOR UPDATE es implícito: las transacciones ya están serializadas.
type StockItemRepository struct{ a access }

var _ repository.StockItemRepository = (*StockItemRepository)(nil)

func (r *StockItemRepository) Create(_ context.Context, item *entity.StockItem) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return fmt.Errorf("%w: stock item %s", domain.ErrDuplicate, item.ID)
		}
		for _, it := range st.items {
			if sameKey(it, item.WarehouseID, item.ProductID, item.GroupID) {
				return fmt.Errorf("%w: stock item para bodega/producto/grupo", domain.ErrDuplicate)
			}
		}
		st.items[item.ID] = item.Clone()
		return nil
	})
}

func (r *StockItemRepository) Update(_ context.Context, item *entity.StockItem) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return domain.NotFound("stock item", item.ID)
		}
		st.items[item.ID] = item.Clone()
		return nil
	})
}

func (r *StockItemRepository) GetByID(_ context.Context, id string) (out *entity.StockItem, err error) {
	r.a.read(func(st *state) {
		out = st.items[id].Clone()
	})
	return out, nil
}

func (r *StockItemRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *StockItemRepository) GetByKeyForUpdate(_ context.Context, warehouseID, productID, groupID string) (out *entity.StockItem, err error) {
	r.a.read(func(st *state) {
		for _, it := range st.items {
			if sameKey(it, warehouseID, productID, groupID) {
				out = it.Clone()
				return
			}
		}
	})
	return out, nil
}

func (r *StockItemRepository) List(_ context.Context, f repository.StockItemFilter, limit, offset int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	r.a.read(func(st *state) {
		for _, it := range st.items {
			if matchStockItem(it, f) {
				out = append(out, it.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, limit, offset), nil
}

func sameKey(it *entity.StockItem, warehouseID, productID, groupID string) bool {
	return it.WarehouseID == warehouseID && it.ProductID == productID && it.GroupID == groupID
}

func matchStockItem(it *entity.StockItem, f repository.StockItemFilter) bool {
	switch {
	case f.WarehouseID != "" && it.WarehouseID != f.WarehouseID,
		f.ProductID != "" && it.ProductID != f.ProductID,
		f.GroupID != "" && it.GroupID != f.GroupID,
		f.SectionID != "" && (it.SectionID == nil || *it.SectionID != f.SectionID),
		f.Status != "" && it.Status != f.Status,
		f.IsActive != nil && it.IsActive != *f.IsActive:
		return false
	}
	return true
}

// ── Shipments ────────────────────────────────────────────────────────────────

// ShipmentRepository implementa repository.ShipmentRepository en memoria.
type ShipmentRepository struct{ a access }

var _ repository.ShipmentRepository = (*ShipmentRepository)(nil)

func (r *ShipmentRepository) Create(_ context.Context, sh *entity.Shipment) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.shipments[sh.ID]; ok {
			return fmt.Errorf("%w: shipment %s", domain.ErrDuplicate, sh.ID)
		}
		st.shipments[sh.ID] = sh.Clone()
		return nil
	})
}

func (r *ShipmentRepository) Update(_ context.Context, sh *entity.Shipment) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.shipments[sh.ID]; !ok {
			return domain.NotFound("shipment", sh.ID)
		}
		st.shipments[sh.ID] = sh.Clone()
		return nil
	})
}

func (r *ShipmentRepository) GetByID(_ context.Context, id string) (out *entity.Shipment, err error) {
	r.a.read(func(st *state) {
		out = st.shipments[id].Clone()
	})
	return out, nil
}

func (r *ShipmentRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.GetByID(ctx, id)
}

func (r *ShipmentRepository) List(_ context.Context, f repository.ShipmentFilter, limit, offset int) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	r.a.read(func(st *state) {
		for _, sh := range st.shipments {
			if matchShipment(sh, f) {
				out = append(out, sh.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, limit, offset), nil
}

func matchShipment(sh *entity.Shipment, f repository.ShipmentFilter) bool {
	switch {
	case f.SenderWarehouseID != "" && sh.SenderWarehouseID != f.SenderWarehouseID,
		f.RecipientWarehouseID != "" && (sh.RecipientWarehouseID == nil || *sh.RecipientWarehouseID != f.RecipientWarehouseID),
		f.StockItemID != "" && sh.StockItemID != f.StockItemID,
		f.Status != "" && sh.Status != f.Status,
		f.Direction != "" && sh.Direction != f.Direction,
		f.CreatedFrom != nil && sh.CreatedAt.Before(*f.CreatedFrom),
		f.CreatedTo != nil && sh.CreatedAt.After(*f.CreatedTo):
		return false
	}
	return true
}

// ── Outbox ───────────────────────────────────────────────────────────────────

// StockEventRepository implementa repository.StockEventRepository en memoria.
type StockEventRepository struct{ a access }

var _ repository.StockEventRepository = (*StockEventRepository)(nil)

func (r *StockEventRepository) Append(_ context.Context, events ...*entity.StockChangeEvent) error {
	return r.a.write(func(st *state) error {
		for _, ev := range events {
			e := *ev
			st.events = append(st.events, &e)
		}
		return nil
	})
}

func (r *StockEventRepository) ListPending(_ context.Context, limit int) ([]*entity.StockChangeEvent, error) {
	var out []*entity.StockChangeEvent
	r.a.read(func(st *state) {
		for _, ev := range st.events {
			if ev.PublishedAt != nil {
				continue
			}
			e := *ev
			out = append(out, &e)
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

func (r *StockEventRepository) MarkPublished(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	now := time.Now()
	return r.a.write(func(st *state) error {
		// Copia antes de escribir: el arreglo y los eventos pueden ser los del estado confirmado.
		events := make([]*entity.StockChangeEvent, len(st.events))
		copy(events, st.events)
		for i, ev := range events {
			if _, ok := set[ev.ID]; ok && ev.PublishedAt == nil {
				e := *ev
				t := now
				e.PublishedAt = &t
				events[i] = &e
			}
		}
		st.events = events
		return nil
	})
}

// Events devuelve una copia de todos los eventos del outbox (publicados o no).
func (s *Store) Events() []*entity.StockChangeEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.StockChangeEvent, 0, len(s.st.events))
	for _, ev := range s.st.events {
		e := *ev
		out = append(out, &e)
	}
	return out
}

// ── Bodegas ──────────────────────────────────────────────────────────────────

// WarehouseRepository implementa repository.WarehouseRepository en memoria.
type WarehouseRepository struct{ a access }

var _ repository.WarehouseRepository = (*WarehouseRepository)(nil)

func (r *WarehouseRepository) Create(_ context.Context, w *entity.Warehouse) error {
	return r.a.write(func(st *state) error {
		for _, existing := range st.warehouses {
			if existing.Code == w.Code {
				return fmt.Errorf("%w: ya existe la bodega %s", domain.ErrDuplicate, w.Code)
			}
		}
		c := *w
		st.warehouses[w.ID] = &c
		return nil
	})
}

func (r *WarehouseRepository) GetByID(_ context.Context, id string) (out *entity.Warehouse, err error) {
	r.a.read(func(st *state) {
		if w, ok := st.warehouses[id]; ok {
			c := *w
			out = &c
		}
	})
	return out, nil
}

func (r *WarehouseRepository) GetByCode(_ context.Context, code string) (out *entity.Warehouse, err error) {
	r.a.read(func(st *state) {
		for _, w := range st.warehouses {
			if w.Code == code {
				c := *w
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *WarehouseRepository) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	r.a.read(func(st *state) {
		for _, w := range st.warehouses {
			c := *w
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, limit, offset), nil
}

// ── Catálogo y usuarios ──────────────────────────────────────────────────────

// CatalogRepository implementa repository.CatalogRepository en memoria.
type CatalogRepository struct{ a access }

var _ repository.CatalogRepository = (*CatalogRepository)(nil)

func (r *CatalogRepository) GetProductByID(_ context.Context, id string) (out *entity.Product, err error) {
	r.a.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			c := *p
			out = &c
		}
	})
	return out, nil
}

func (r *CatalogRepository) GetGroupByID(_ context.Context, id string) (out *entity.StockItemGroup, err error) {
	r.a.read(func(st *state) {
		if g, ok := st.groups[id]; ok {
			c := *g
			out = &c
		}
	})
	return out, nil
}

func (r *CatalogRepository) GetSectionByID(_ context.Context, id string) (out *entity.StorageSection, err error) {
	r.a.read(func(st *state) {
		if s, ok := st.sections[id]; ok {
			c := *s
			out = &c
		}
	})
	return out, nil
}

// UserRepository implementa repository.UserRepository en memoria.
type UserRepository struct{ a access }

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindByEmail(_ context.Context, email string) (out *entity.User, err error) {
	r.a.read(func(st *state) {
		for _, u := range st.users {
			if u.Email == email {
				c := *u
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (out *entity.User, err error) {
	r.a.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			c := *u
			out = &c
		}
	})
	return out, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
