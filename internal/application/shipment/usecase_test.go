package shipment_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/application/inventory"
	"github.com/jhoicas/inventario-envios/internal/application/shipment"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos bodegas (W1, W2), un producto y un grupo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	w1ID      = "00000000-0000-4000-8000-0000000000a1"
	w2ID      = "00000000-0000-4000-8000-0000000000a2"
	productID = "00000000-0000-4000-8000-0000000000b1"
	groupID   = "00000000-0000-4000-8000-0000000000c1"
	initiator = int64(7)
)

type fixture struct {
	store *memory.Store
	uc    *shipment.UseCase
	items *inventory.StockItemUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: w1ID, Code: "W1", Name: "Bodega 1", IsActive: true})
	store.AddWarehouse(entity.Warehouse{ID: w2ID, Code: "W2", Name: "Bodega 2", IsActive: true})
	store.AddProduct(entity.Product{ID: productID, SKU: "P1", Name: "Producto 1"})
	store.AddGroup(entity.StockItemGroup{ID: groupID, Code: "G1", Name: "Grupo 1"})

	ledger := inventory.NewLedger()
	repos := store.Repos()
	return &fixture{
		store: store,
		uc:    shipment.NewUseCase(store, repos.Shipments, ledger),
		items: inventory.NewStockItemUseCase(store, repos.StockItems, ledger),
	}
}

func (f *fixture) createItem(t *testing.T, warehouseID string, qty int64) *dto.StockItemResponse {
	t.Helper()
	item, err := f.items.Create(context.Background(), initiator, dto.CreateStockItemRequest{
		ProductID:   productID,
		GroupID:     groupID,
		WarehouseID: warehouseID,
		Quantity:    qty,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) quantity(t *testing.T, stockItemID string) int64 {
	t.Helper()
	item, err := f.items.Get(context.Background(), stockItemID)
	require.NoError(t, err)
	return item.AvailableQuantity
}

func (f *fixture) countShipments(t *testing.T) int {
	t.Helper()
	list, err := f.uc.Find(context.Background(), dto.ShipmentFilterRequest{PageRequest: dto.PageRequest{Page: 1, PageSize: 100}})
	require.NoError(t, err)
	return len(list.Items)
}

func strPtr(s string) *string { return &s }

func toW2(itemID string, qty int64, status string) dto.CreateShipmentRequest {
	return dto.CreateShipmentRequest{
		SenderWarehouseCode:    "W1",
		RecipientWarehouseCode: strPtr("W2"),
		StockItemID:            itemID,
		Quantity:               qty,
		Status:                 status,
	}
}

func toAddress(itemID string, qty int64) dto.CreateShipmentRequest {
	return dto.CreateShipmentRequest{
		SenderWarehouseCode: "W1",
		Address: &dto.AddressDTO{
			Line1:   "Calle 10 # 20-30",
			City:    "Cali",
			Country: "co",
		},
		StockItemID: itemID,
		Quantity:    qty,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferencia completa entre bodegas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EnviadoDescuentaOrigen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)

	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 7, entity.ShipmentStatusSent))
	require.NoError(t, err)

	assert.Equal(t, entity.ShipmentStatusSent, sh.Status)
	assert.NotNil(t, sh.DispatchedAt)
	assert.Equal(t, initiator, sh.InitiatorID)

	src, err := f.items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), src.AvailableQuantity)
	assert.Equal(t, entity.StockStatusAvailable, src.Status)
}

func TestArrive_CreaStockEnDestino(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 7, entity.ShipmentStatusSent))
	require.NoError(t, err)

	delivered, err := f.uc.Update(ctx, initiator, sh.ID, dto.UpdateShipmentRequest{Status: strPtr(entity.ShipmentStatusDelivered)})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	dst, err := f.items.Resolve(ctx, dto.ResolveStockItemRequest{WarehouseID: w2ID, ProductID: productID, GroupID: groupID})
	require.NoError(t, err)
	assert.Equal(t, int64(7), dst.AvailableQuantity)
	assert.Equal(t, entity.StockStatusAvailable, dst.Status)
	assert.True(t, dst.IsActive)

	// Conservación: 3 en origen + 7 en destino.
	assert.Equal(t, int64(10), f.quantity(t, item.ID)+dst.AvailableQuantity)
}

func TestArrive_AcreditaStockExistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.createItem(t, w1ID, 10)
	dst := f.createItem(t, w2ID, 5)

	sh, err := f.uc.Create(ctx, initiator, toW2(src.ID, 4, ""))
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, initiator, sh.ID)
	require.NoError(t, err)
	_, err = f.uc.Arrive(ctx, initiator, sh.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(6), f.quantity(t, src.ID))
	assert.Equal(t, int64(9), f.quantity(t, dst.ID))
}

func TestArrive_CopiaVencimientoDelOrigen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.createItem(t, w1ID, 10)
	exp := src.CreatedAt.AddDate(0, 6, 0)
	_, err := f.items.Update(ctx, initiator, src.ID, dto.UpdateStockItemRequest{ExpiryDate: &exp})
	require.NoError(t, err)

	sh, err := f.uc.Create(ctx, initiator, toW2(src.ID, 2, entity.ShipmentStatusSent))
	require.NoError(t, err)
	_, err = f.uc.Arrive(ctx, initiator, sh.ID)
	require.NoError(t, err)

	dst, err := f.items.Resolve(ctx, dto.ResolveStockItemRequest{WarehouseID: w2ID, ProductID: productID, GroupID: groupID})
	require.NoError(t, err)
	require.NotNil(t, dst.ExpiryDate)
	assert.True(t, exp.Equal(*dst.ExpiryDate))
	assert.Nil(t, dst.SectionID, "la sección es propia de cada bodega")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos sin efectos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_StockInsuficienteNoPersisteNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 3)
	eventsBefore := len(f.store.Events())

	_, err := f.uc.Create(ctx, initiator, toW2(item.ID, 10, entity.ShipmentStatusSent))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 0, f.countShipments(t), "no debe persistirse el envío")
	assert.Equal(t, int64(3), f.quantity(t, item.ID))
	assert.Len(t, f.store.Events(), eventsBefore, "no debe quedar evento de débito")
}

func TestCreate_BodegaYDireccionEsValidacion(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, w1ID, 10)
	req := toW2(item.ID, 1, "")
	req.Address = &dto.AddressDTO{Line1: "Calle 1", City: "Cali", Country: "CO"}

	_, err := f.uc.Create(context.Background(), initiator, req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "address", verr.Field)
	assert.Equal(t, 0, f.countShipments(t))
}

func TestCreate_SinDestinoEsValidacion(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, w1ID, 10)
	req := toW2(item.ID, 1, "")
	req.RecipientWarehouseCode = nil

	_, err := f.uc.Create(context.Background(), initiator, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_CantidadCeroEsValidacion(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, w1ID, 10)

	_, err := f.uc.Create(context.Background(), initiator, toW2(item.ID, 0, ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_MismaBodegaOrigenYDestino(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, w1ID, 10)
	req := toW2(item.ID, 1, "")
	req.RecipientWarehouseCode = strPtr("W1")

	_, err := f.uc.Create(context.Background(), initiator, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_BodegaDesconocida(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, w1ID, 10)
	req := toW2(item.ID, 1, "")
	req.RecipientWarehouseCode = strPtr("NOPE")

	_, err := f.uc.Create(context.Background(), initiator, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_StockItemDeOtraBodega(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, w2ID, 10)

	_, err := f.uc.Create(context.Background(), initiator, toW2(item.ID, 1, ""))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_EstadoTerminalNoPermitido(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, w1ID, 10)

	for _, st := range []string{entity.ShipmentStatusDelivered, entity.ShipmentStatusCancelled} {
		_, err := f.uc.Create(context.Background(), initiator, toW2(item.ID, 1, st))
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, st)
	}
	assert.Equal(t, 0, f.countShipments(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EstadoInicialSegunDestino(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)

	toWarehouse, err := f.uc.Create(ctx, initiator, toW2(item.ID, 1, ""))
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusInitiated, toWarehouse.Status)

	toAddr, err := f.uc.Create(ctx, initiator, toAddress(item.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusPlanned, toAddr.Status)
	require.NotNil(t, toAddr.Address)
	assert.Equal(t, "CO", toAddr.Address.Country)

	assert.Equal(t, int64(10), f.quantity(t, item.ID), "crear sin despachar no mueve stock")
}

func TestUpdate_EntregadoASentEsTransicionInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 7, entity.ShipmentStatusSent))
	require.NoError(t, err)
	_, err = f.uc.Arrive(ctx, initiator, sh.ID)
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, initiator, sh.ID, dto.UpdateShipmentRequest{Status: strPtr(entity.ShipmentStatusSent)})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := f.uc.Get(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusDelivered, got.Status)
	assert.Equal(t, int64(3), f.quantity(t, item.ID))
}

func TestUpdate_PlannedEInitiatedSonEquivalentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 1, ""))
	require.NoError(t, err)

	got, err := f.uc.Update(ctx, 99, sh.ID, dto.UpdateShipmentRequest{Status: strPtr(entity.ShipmentStatusPlanned)})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusInitiated, got.Status)
	assert.Equal(t, int64(99), got.InitiatorID, "el iniciador se sobrescribe en cada actualización")
}

func TestArrive_DireccionExternaNoSePuedeRecibir(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toAddress(item.ID, 2))
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, initiator, sh.ID)
	require.NoError(t, err)

	_, err = f.uc.Arrive(ctx, initiator, sh.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := f.uc.Get(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusSent, got.Status)
}

func TestArrive_DesdePreDespachoEsInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 2, ""))
	require.NoError(t, err)

	_, err = f.uc.Arrive(ctx, initiator, sh.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(10), f.quantity(t, item.ID))
}

func TestDispatch_DosVecesDescuentaUnaSola(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 4, ""))
	require.NoError(t, err)

	_, err = f.uc.Dispatch(ctx, initiator, sh.ID)
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, initiator, sh.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, int64(6), f.quantity(t, item.ID))
}

func TestDispatch_StockInsuficienteDejaEnvioIntacto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 5)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 5, ""))
	require.NoError(t, err)
	_, err = f.items.Update(ctx, initiator, item.ID, dto.UpdateStockItemRequest{Quantity: int64Ptr(2)})
	require.NoError(t, err)

	_, err = f.uc.Dispatch(ctx, initiator, sh.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.Get(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusInitiated, got.Status)
	assert.Nil(t, got.DispatchedAt)
	assert.Equal(t, int64(2), f.quantity(t, item.ID))
}

func TestCancel_DespuesDeEnviadoNoReacredita(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 4, entity.ShipmentStatusSent))
	require.NoError(t, err)

	got, err := f.uc.Cancel(ctx, initiator, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)
	assert.Equal(t, int64(6), f.quantity(t, item.ID))

	_, err = f.uc.Cancel(ctx, initiator, sh.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Dispatch(ctx, initiator, sh.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelado_NingunaTransicionLoModifica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 4, ""))
	require.NoError(t, err)
	cancelled, err := f.uc.Cancel(ctx, initiator, sh.ID)
	require.NoError(t, err)
	eventsBefore := len(f.store.Events())

	_, err = f.uc.Dispatch(ctx, initiator+1, sh.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Update(ctx, initiator+1, sh.ID, dto.UpdateShipmentRequest{Status: strPtr(entity.ShipmentStatusSent)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Arrive(ctx, initiator+1, sh.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := f.uc.Get(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, cancelled, got)
	assert.Equal(t, initiator, got.InitiatorID)
	assert.Nil(t, got.DispatchedAt)
	assert.Equal(t, int64(10), f.quantity(t, item.ID))
	assert.Len(t, f.store.Events(), eventsBefore)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia sobre un mismo StockItem
// ──────────────────────────────────────────────────────────────────────────────

func TestDispatch_ConcurrenteNoSobregira(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)

	const n = 10
	ids := make([]string, n)
	for i := range ids {
		sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 3, ""))
		require.NoError(t, err)
		ids[i] = sh.ID
	}

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			<-start
			_, errs[i] = f.uc.Dispatch(ctx, initiator, id)
		}(i, id)
	}
	close(start)
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Errorf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, 7, insufficient)
	assert.Equal(t, int64(1), f.quantity(t, item.ID))

	sent, err := f.uc.Find(ctx, dto.ShipmentFilterRequest{
		Status:      entity.ShipmentStatusSent,
		PageRequest: dto.PageRequest{Page: 1, PageSize: 100},
	})
	require.NoError(t, err)
	assert.Len(t, sent.Items, 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// Patch de campos
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CamposDespuesDeEnviadoEsInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 4, entity.ShipmentStatusSent))
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, initiator, sh.ID, dto.UpdateShipmentRequest{Quantity: int64Ptr(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdate_AsignarBodegaLimpiaDireccion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toAddress(item.ID, 2))
	require.NoError(t, err)

	got, err := f.uc.Update(ctx, initiator, sh.ID, dto.UpdateShipmentRequest{
		RecipientWarehouseCode: strPtr("W2"),
		Quantity:               int64Ptr(3),
	})
	require.NoError(t, err)
	require.NotNil(t, got.RecipientWarehouseID)
	assert.Equal(t, w2ID, *got.RecipientWarehouseID)
	assert.Nil(t, got.Address)
	assert.Equal(t, int64(3), got.Quantity)
	assert.Equal(t, entity.ShipmentStatusInitiated, got.Status)
}

func TestUpdate_CamposYDespachoEnUnaLlamada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 2, ""))
	require.NoError(t, err)

	got, err := f.uc.Update(ctx, initiator, sh.ID, dto.UpdateShipmentRequest{
		Quantity: int64Ptr(5),
		Status:   strPtr(entity.ShipmentStatusSent),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentStatusSent, got.Status)
	assert.Equal(t, int64(5), f.quantity(t, item.ID), "se descuenta la cantidad ya actualizada")
}

func TestUpdate_PatchVacioOEnvioInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, initiator, "x", dto.UpdateShipmentRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Update(ctx, initiator, "no-existe", dto.UpdateShipmentRequest{Quantity: int64Ptr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta y outbox
// ──────────────────────────────────────────────────────────────────────────────

func TestFind_PaginacionYFiltros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 100)
	for i := 0; i < 3; i++ {
		_, err := f.uc.Create(ctx, initiator, toW2(item.ID, 1, ""))
		require.NoError(t, err)
	}
	_, err := f.uc.Create(ctx, initiator, toAddress(item.ID, 1))
	require.NoError(t, err)

	_, err = f.uc.Find(ctx, dto.ShipmentFilterRequest{PageRequest: dto.PageRequest{Page: 0, PageSize: 10}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	page, err := f.uc.Find(ctx, dto.ShipmentFilterRequest{PageRequest: dto.PageRequest{Page: 1, PageSize: 500}})
	require.NoError(t, err)
	assert.Equal(t, dto.MaxPageSize, page.Page.PageSize)
	assert.Len(t, page.Items, 4)

	second, err := f.uc.Find(ctx, dto.ShipmentFilterRequest{PageRequest: dto.PageRequest{Page: 2, PageSize: 3}})
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)

	toW2Only, err := f.uc.Find(ctx, dto.ShipmentFilterRequest{
		RecipientWarehouseID: w2ID,
		PageRequest:          dto.PageRequest{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Len(t, toW2Only.Items, 3)

	planned, err := f.uc.Find(ctx, dto.ShipmentFilterRequest{
		Status:      entity.ShipmentStatusPlanned,
		PageRequest: dto.PageRequest{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Len(t, planned.Items, 1)
}

func TestOutbox_EventoPorCadaMovimiento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, w1ID, 10)
	sh, err := f.uc.Create(ctx, initiator, toW2(item.ID, 7, entity.ShipmentStatusSent))
	require.NoError(t, err)
	_, err = f.uc.Arrive(ctx, initiator, sh.ID)
	require.NoError(t, err)

	events := f.store.Events()
	require.Len(t, events, 3)
	assert.Equal(t, entity.ChangeReasonAdminCreate, events[0].Reason)

	debit := events[1]
	assert.Equal(t, entity.ChangeReasonShipmentDebit, debit.Reason)
	assert.Equal(t, int64(-7), debit.Delta)
	assert.Equal(t, int64(3), debit.QuantityAfter)
	require.NotNil(t, debit.ShipmentID)
	assert.Equal(t, sh.ID, *debit.ShipmentID)

	credit := events[2]
	assert.Equal(t, entity.ChangeReasonShipmentCredit, credit.Reason)
	assert.Equal(t, int64(7), credit.Delta)
	assert.Equal(t, w2ID, credit.WarehouseID)
	assert.Equal(t, initiator, credit.InitiatorID)
}

func int64Ptr(v int64) *int64 { return &v }
