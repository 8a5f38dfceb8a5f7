package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-envios/internal/application/inventory"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

var errAbort = errors.New("abortar")

func appendEvent(s *Store, id string, fail bool) error {
	return s.Run(context.Background(), func(tx inventory.TxRepos) error {
		if err := tx.Events.Append(context.Background(), &entity.StockChangeEvent{ID: id}); err != nil {
			return err
		}
		if fail {
			return errAbort
		}
		return nil
	})
}

func eventIDs(s *Store) []string {
	var ids []string
	for _, ev := range s.Events() {
		ids = append(ids, ev.ID)
	}
	return ids
}

func TestClone_CompartePrefijoDelOutbox(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, appendEvent(s, id, false))
	}

	c := s.st.clone()
	require.Len(t, c.events, 3)
	assert.Same(t, s.st.events[0], c.events[0], "los eventos confirmados no se copian por transacción")
	assert.Same(t, &s.st.events[0], &c.events[0])
}

func TestRun_RollbackNoDejaEventos(t *testing.T) {
	s := NewStore()
	require.NoError(t, appendEvent(s, "e1", false))
	require.ErrorIs(t, appendEvent(s, "descartado", true), errAbort)
	assert.Equal(t, []string{"e1"}, eventIDs(s))

	// La siguiente transacción reutiliza la posición descartada.
	require.NoError(t, appendEvent(s, "e2", false))
	assert.Equal(t, []string{"e1", "e2"}, eventIDs(s))
}

func TestMarkPublished_RollbackNoMarca(t *testing.T) {
	s := NewStore()
	require.NoError(t, appendEvent(s, "e1", false))
	require.NoError(t, appendEvent(s, "e2", false))
	ctx := context.Background()

	err := s.Run(ctx, func(tx inventory.TxRepos) error {
		require.NoError(t, tx.Events.MarkPublished(ctx, []string{"e1"}))
		pending, err := tx.Events.ListPending(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	pending, err := s.Repos().Events.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, s.Run(ctx, func(tx inventory.TxRepos) error {
		return tx.Events.MarkPublished(ctx, []string{"e1"})
	}))
	pending, err = s.Repos().Events.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "e2", pending[0].ID)
}
