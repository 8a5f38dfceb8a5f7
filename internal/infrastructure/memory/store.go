// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa en modo desarrollo (STORE_DRIVER=memory) y en las pruebas de los casos de uso.
//
// Las transacciones se serializan con un mutex: al iniciar se clona el estado confirmado,
// la función trabaja sobre la copia y solo si termina sin error la copia reemplaza al estado.
// Un error en la función descarta la copia completa, igual que un Rollback.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-envios/internal/application/inventory"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

type state struct {
	items      map[string]*entity.StockItem
	shipments  map[string]*entity.Shipment
	warehouses map[string]*entity.Warehouse
	products   map[string]*entity.Product
	groups     map[string]*entity.StockItemGroup
	sections   map[string]*entity.StorageSection
	users      map[int64]*entity.User
	events     []*entity.StockChangeEvent
}

func newState() *state {
	return &state{
		items:      map[string]*entity.StockItem{},
		shipments:  map[string]*entity.Shipment{},
		warehouses: map[string]*entity.Warehouse{},
		products:   map[string]*entity.Product{},
		groups:     map[string]*entity.StockItemGroup{},
		sections:   map[string]*entity.StorageSection{},
		users:      map[int64]*entity.User{},
	}
}

// clone copia los registros mutables; los de referencia (productos, grupos, secciones, usuarios)
// no cambian dentro de una transacción y se comparten.
//
// El outbox no se copia: la transacción comparte el arreglo confirmado y solo agrega
// más allá de su longitud, que nadie más lee porque las transacciones están serializadas.
// Los eventos confirmados son inmutables; MarkPublished reemplaza en lugar de modificar.
func (s *state) clone() *state {
	c := &state{
		items:      make(map[string]*entity.StockItem, len(s.items)),
		shipments:  make(map[string]*entity.Shipment, len(s.shipments)),
		warehouses: make(map[string]*entity.Warehouse, len(s.warehouses)),
		products:   s.products,
		groups:     s.groups,
		sections:   s.sections,
		users:      s.users,
		events:     s.events,
	}
	for k, v := range s.items {
		c.items[k] = v.Clone()
	}
	for k, v := range s.shipments {
		c.shipments[k] = v.Clone()
	}
	for k, v := range s.warehouses {
		w := *v
		c.warehouses[k] = &w
	}
	return c
}

// Store estado en memoria con semántica transaccional todo-o-nada.
type Store struct {
	txMu sync.Mutex   // serializa transacciones y escrituras directas
	mu   sync.RWMutex // protege st
	st   *state
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(reposFor(access{store: s, tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// Repos devuelve repositorios fuera de transacción: leen el estado confirmado y
// cada escritura se aplica de forma atómica por sí sola.
func (s *Store) Repos() inventory.TxRepos {
	return reposFor(access{store: s})
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepository {
	return &UserRepository{a: access{store: s}}
}

func reposFor(a access) inventory.TxRepos {
	return inventory.TxRepos{
		StockItems: &StockItemRepository{a: a},
		Shipments:  &ShipmentRepository{a: a},
		Events:     &StockEventRepository{a: a},
		Warehouses: &WarehouseRepository{a: a},
		Catalog:    &CatalogRepository{a: a},
	}
}

// access resuelve sobre qué estado opera un repositorio: la copia de una transacción
// en curso o el estado confirmado.
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(st *state)) {
	if a.tx != nil {
		fn(a.tx)
		return
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	fn(a.store.st)
}

func (a access) write(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.lockAll()
	defer a.store.unlockAll()
	return fn(a.store.st)
}

// ── Datos de referencia ──────────────────────────────────────────────────────

// AddWarehouse registra una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.lockAll()
	defer s.unlockAll()
	s.st.warehouses[w.ID] = &w
}

// AddProduct registra un producto.
func (s *Store) AddProduct(p entity.Product) {
	s.lockAll()
	defer s.unlockAll()
	s.st.products[p.ID] = &p
}

// AddGroup registra un grupo de stock.
func (s *Store) AddGroup(g entity.StockItemGroup) {
	s.lockAll()
	defer s.unlockAll()
	s.st.groups[g.ID] = &g
}

// AddSection registra una sección de almacenamiento.
func (s *Store) AddSection(sec entity.StorageSection) {
	s.lockAll()
	defer s.unlockAll()
	s.st.sections[sec.ID] = &sec
}

// AddUser registra un usuario.
func (s *Store) AddUser(u entity.User) {
	s.lockAll()
	defer s.unlockAll()
	s.st.users[u.ID] = &u
}

func (s *Store) lockAll() {
	s.txMu.Lock()
	s.mu.Lock()
}

func (s *Store) unlockAll() {
	s.mu.Unlock()
	s.txMu.Unlock()
}
