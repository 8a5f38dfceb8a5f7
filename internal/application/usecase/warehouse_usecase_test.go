package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/application/usecase"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/infrastructure/memory"
)

func newWarehouseUC() *usecase.WarehouseUseCase {
	return usecase.NewWarehouseUseCase(memory.NewStore().Repos().Warehouses)
}

func TestWarehouseCreate_CodigoEnMayusculasYUnico(t *testing.T) {
	uc := newWarehouseUC()
	ctx := context.Background()

	w, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: " cali-01 ", Name: "Bodega Cali"})
	require.NoError(t, err)
	assert.Equal(t, "CALI-01", w.Code)
	assert.True(t, w.IsActive)

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "CALI-01", Name: "Otra"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "", Name: "Sin código"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	got, err := uc.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bodega Cali", got.Name)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestWarehouseList_Paginacion(t *testing.T) {
	uc := newWarehouseUC()
	ctx := context.Background()
	for _, code := range []string{"A", "B", "C"} {
		_, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: code, Name: "Bodega " + code})
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, dto.PageRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Page.Count)

	_, err = uc.List(ctx, dto.PageRequest{Page: 0, PageSize: 2})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
