package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/application/inventory"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	whA       = "wh-a"
	whB       = "wh-b"
	productID = "prod-1"
	groupID   = "grp-1"
	sectionA  = "sec-a"
	sectionB  = "sec-b"
)

func newStore() *memory.Store {
	s := memory.NewStore()
	s.AddWarehouse(entity.Warehouse{ID: whA, Code: "A", Name: "Bodega A", IsActive: true})
	s.AddWarehouse(entity.Warehouse{ID: whB, Code: "B", Name: "Bodega B", IsActive: true})
	s.AddProduct(entity.Product{ID: productID, SKU: "SKU-1", Name: "Producto"})
	s.AddGroup(entity.StockItemGroup{ID: groupID, Code: "STD", Name: "Estándar"})
	s.AddSection(entity.StorageSection{ID: sectionA, WarehouseID: whA, Code: "A1"})
	s.AddSection(entity.StorageSection{ID: sectionB, WarehouseID: whB, Code: "B1"})
	return s
}

func newUseCase(s *memory.Store) *inventory.StockItemUseCase {
	return inventory.NewStockItemUseCase(s, s.Repos().StockItems, inventory.NewLedger())
}

func seedItem(t *testing.T, uc *inventory.StockItemUseCase, warehouseID string, qty int64) *dto.StockItemResponse {
	t.Helper()
	item, err := uc.Create(context.Background(), 1, dto.CreateStockItemRequest{
		ProductID: productID, GroupID: groupID, WarehouseID: warehouseID, Quantity: qty,
	})
	require.NoError(t, err)
	return item
}

// inTx ejecuta fn contra el ledger dentro de una transacción del store.
func inTx(t *testing.T, s *memory.Store, fn func(l *inventory.Ledger, tx inventory.TxRepos) error) error {
	t.Helper()
	l := inventory.NewLedger()
	return s.Run(context.Background(), func(tx inventory.TxRepos) error { return fn(l, tx) })
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Debit
// ──────────────────────────────────────────────────────────────────────────────

func TestDebit_TodoElDisponibleQuedaSinStock(t *testing.T) {
	s := newStore()
	item := seedItem(t, newUseCase(s), whA, 5)

	var got *entity.StockItem
	err := inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		var err error
		got, err = l.Debit(context.Background(), tx, item.ID, 5, inventory.ChangeMeta{InitiatorID: 1})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.AvailableQuantity)
	assert.Equal(t, entity.StockStatusOutOfStock, got.Status)
}

func TestDebit_MayorQueDisponibleNoModifica(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	item := seedItem(t, uc, whA, 3)

	err := inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		_, err := l.Debit(context.Background(), tx, item.ID, 4, inventory.ChangeMeta{})
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	after, err := uc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), after.AvailableQuantity)
	assert.Equal(t, entity.StockStatusAvailable, after.Status)
}

func TestDebit_CantidadNoPositivaOInexistente(t *testing.T) {
	s := newStore()
	item := seedItem(t, newUseCase(s), whA, 3)

	err := inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		_, err := l.Debit(context.Background(), tx, item.ID, 0, inventory.ChangeMeta{})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		_, err := l.Debit(context.Background(), tx, "no-existe", 1, inventory.ChangeMeta{})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDebit_ItemInactivo(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	item := seedItem(t, uc, whA, 3)
	_, err := uc.Update(context.Background(), 1, item.ID, dto.UpdateStockItemRequest{IsActive: boolPtr(false)})
	require.NoError(t, err)

	err = inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		_, err := l.Debit(context.Background(), tx, item.ID, 1, inventory.ChangeMeta{})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Ninguna secuencia de débitos deja cantidad negativa.
func TestDebit_SecuenciaNuncaNegativa(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	item := seedItem(t, uc, whA, 10)

	for _, qty := range []int64{4, 4, 4, 1, 1, 3} {
		_ = inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
			_, err := l.Debit(context.Background(), tx, item.ID, qty, inventory.ChangeMeta{})
			return err
		})
		after, err := uc.Get(context.Background(), item.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, after.AvailableQuantity, int64(0))
	}
	after, err := uc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.AvailableQuantity) // 4+4+1+1 = 10, los demás se rechazan
}

// ──────────────────────────────────────────────────────────────────────────────
// CreditOrCreate
// ──────────────────────────────────────────────────────────────────────────────

func TestCreditOrCreate_CreaConDefaults(t *testing.T) {
	s := newStore()
	section := sectionB

	var got *entity.StockItem
	err := inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		var err error
		got, err = l.CreditOrCreate(context.Background(), tx, whB, productID, groupID, 7,
			inventory.Defaults{SectionID: &section}, inventory.ChangeMeta{InitiatorID: 3})
		return err
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, int64(7), got.AvailableQuantity)
	assert.Equal(t, entity.StockStatusAvailable, got.Status)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.SectionID)
	assert.Equal(t, sectionB, *got.SectionID)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, entity.ChangeReasonShipmentCredit, events[0].Reason)
	assert.Equal(t, int64(3), events[0].InitiatorID)
}

func TestCreditOrCreate_SumaYRecalculaEstado(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	item := seedItem(t, uc, whA, 0)
	assert.Equal(t, entity.StockStatusOutOfStock, item.Status)

	err := inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		_, err := l.CreditOrCreate(context.Background(), tx, whA, productID, groupID, 2, inventory.Defaults{}, inventory.ChangeMeta{})
		return err
	})
	require.NoError(t, err)

	after, err := uc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), after.AvailableQuantity)
	assert.Equal(t, entity.StockStatusAvailable, after.Status)
}

func TestRun_ErrorDescartaTodosLosEfectos(t *testing.T) {
	s := newStore()
	boom := errors.New("boom")

	err := inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		if _, err := l.CreditOrCreate(context.Background(), tx, whA, productID, groupID, 5, inventory.Defaults{}, inventory.ChangeMeta{}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := newUseCase(s).Find(context.Background(), dto.StockItemFilterRequest{PageRequest: dto.PageRequest{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Empty(t, s.Events())
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado derivado vs override
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_MismaCantidadNoCambiaEstado(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	ctx := context.Background()
	item := seedItem(t, uc, whA, 8)

	reserved, err := uc.Update(ctx, 1, item.ID, dto.UpdateStockItemRequest{Status: strPtr(entity.StockStatusReserved)})
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusReserved, reserved.Status)
	assert.True(t, reserved.StatusOverridden)

	same, err := uc.Update(ctx, 1, item.ID, dto.UpdateStockItemRequest{Quantity: int64Ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusReserved, same.Status, "la misma cantidad no recalcula el estado")

	changed, err := uc.Update(ctx, 1, item.ID, dto.UpdateStockItemRequest{Quantity: int64Ptr(9)})
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusAvailable, changed.Status, "un cambio de cantidad vuelve al estado derivado")
	assert.False(t, changed.StatusOverridden)
}

func TestUpdate_EstadoDerivadoNoSeFuerzaContraCantidad(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	item := seedItem(t, uc, whA, 0)

	got, err := uc.Update(context.Background(), 1, item.ID, dto.UpdateStockItemRequest{Status: strPtr(entity.StockStatusAvailable)})
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusOutOfStock, got.Status)
}

func TestUpdate_OverrideSeRespetaHastaElSiguienteMovimiento(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	item := seedItem(t, uc, whA, 5)
	_, err := uc.Update(context.Background(), 1, item.ID, dto.UpdateStockItemRequest{Status: strPtr(entity.StockStatusOutOfService)})
	require.NoError(t, err)

	err = inTx(t, s, func(l *inventory.Ledger, tx inventory.TxRepos) error {
		_, err := l.Debit(context.Background(), tx, item.ID, 1, inventory.ChangeMeta{})
		return err
	})
	require.NoError(t, err)

	after, err := uc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusAvailable, after.Status)
	assert.Equal(t, int64(4), after.AvailableQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y consulta administrativa
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DuplicadoYReferencias(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	ctx := context.Background()
	seedItem(t, uc, whA, 1)

	_, err := uc.Create(ctx, 1, dto.CreateStockItemRequest{ProductID: productID, GroupID: groupID, WarehouseID: whA, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, 1, dto.CreateStockItemRequest{ProductID: "otro", GroupID: groupID, WarehouseID: whB, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, 1, dto.CreateStockItemRequest{ProductID: productID, GroupID: groupID, WarehouseID: whB, Quantity: 1, SectionID: strPtr(sectionA)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la sección debe pertenecer a la bodega")

	_, err = uc.Create(ctx, 1, dto.CreateStockItemRequest{ProductID: productID, GroupID: groupID, WarehouseID: whB, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_InactivoConEstadoExplicito(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	got, err := uc.Create(context.Background(), 1, dto.CreateStockItemRequest{
		ProductID: productID, GroupID: groupID, WarehouseID: whB,
		Quantity: 4, IsActive: boolPtr(false), Status: strPtr(entity.StockStatusReserved), SectionID: strPtr(sectionB),
	})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, entity.StockStatusReserved, got.Status)
	assert.Equal(t, sectionB, *got.SectionID)
}

func TestFind_FiltrosYPaginacion(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	ctx := context.Background()
	a := seedItem(t, uc, whA, 1)
	seedItem(t, uc, whB, 0)
	_, err := uc.Update(ctx, 1, a.ID, dto.UpdateStockItemRequest{IsActive: boolPtr(false)})
	require.NoError(t, err)

	byWarehouse, err := uc.Find(ctx, dto.StockItemFilterRequest{WarehouseID: whB, PageRequest: dto.PageRequest{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	require.Len(t, byWarehouse.Items, 1)
	assert.Equal(t, entity.StockStatusOutOfStock, byWarehouse.Items[0].Status)

	inactive, err := uc.Find(ctx, dto.StockItemFilterRequest{IsActive: boolPtr(false), PageRequest: dto.PageRequest{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	require.Len(t, inactive.Items, 1)
	assert.Equal(t, a.ID, inactive.Items[0].ID)

	_, err = uc.Find(ctx, dto.StockItemFilterRequest{PageRequest: dto.PageRequest{Page: 1, PageSize: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_NoEncontrado(t *testing.T) {
	s := newStore()
	_, err := newUseCase(s).Resolve(context.Background(), dto.ResolveStockItemRequest{WarehouseID: whA, ProductID: productID, GroupID: groupID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_EventosAdministrativos(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	ctx := context.Background()
	item := seedItem(t, uc, whA, 5)

	_, err := uc.Update(ctx, 2, item.ID, dto.UpdateStockItemRequest{Quantity: int64Ptr(3)})
	require.NoError(t, err)
	_, err = uc.Update(ctx, 2, item.ID, dto.UpdateStockItemRequest{ReservedQuantity: int64Ptr(1)})
	require.NoError(t, err)

	events := s.Events()
	require.Len(t, events, 3)
	assert.Equal(t, entity.ChangeReasonAdminAdjust, events[1].Reason)
	assert.Equal(t, int64(-2), events[1].Delta)
	assert.Equal(t, entity.ChangeReasonAdminUpdate, events[2].Reason)
	assert.Equal(t, int64(0), events[2].Delta)
}
