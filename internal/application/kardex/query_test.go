package kardex_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkardex "github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func queryFor(f *fixture) *appkardex.QueryUseCase {
	return appkardex.NewQueryUseCase(
		&fakeBalanceRepo{s: f.store, runner: f.runner},
		&fakeLedgerRepo{s: f.store},
		&fakeProductRepo{s: f.store},
	)
}

func TestGetBalance_ParSinMovimientos(t *testing.T) {
	f := newFixture(t)
	b, err := queryFor(f).GetBalance(context.Background(), "prod-1", "")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestGetHistory_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	f.apply(t, entity.MovementTypePurchase, "10", "100")
	f.apply(t, entity.MovementTypeSale, "-3", "0")

	entries, err := queryFor(f).GetHistory(context.Background(), "prod-1", "", 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.MovementTypeSale, entries[0].Type)
	assert.Equal(t, entity.MovementTypePurchase, entries[1].Type)
}

// La serie de saldo corrido se reconstruye hacia atrás revirtiendo el delta
// físico de cada entrada; las reservas no mueven la serie.
func TestKardex_SaldoCorridoReconstruido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.apply(t, entity.MovementTypePurchase, "10", "100")
	f.apply(t, entity.MovementTypePurchase, "10", "200")
	_, err := f.coord.ReserveStock(ctx, "prod-1", "", dec("5"), "orden-1", "user-1")
	require.NoError(t, err)
	f.apply(t, entity.MovementTypeSale, "-5", "0")

	rows, err := queryFor(f).Kardex(ctx, "prod-1", "", 50, 0)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Más reciente primero: venta, reserva, compra@200, compra@100.
	assert.Equal(t, entity.MovementTypeSale, rows[0].Entry.Type)
	assertDec(t, "15", rows[0].RunningQuantity)
	assertDec(t, "2250", rows[0].RunningValue)

	assert.Equal(t, entity.MovementTypeReserveStock, rows[1].Entry.Type)
	assertDec(t, "20", rows[1].RunningQuantity, "la reserva no mueve el saldo físico")

	assert.Equal(t, entity.MovementTypePurchase, rows[2].Entry.Type)
	assertDec(t, "20", rows[2].RunningQuantity)
	assertDec(t, "3000", rows[2].RunningValue)

	assert.Equal(t, entity.MovementTypePurchase, rows[3].Entry.Type)
	assertDec(t, "10", rows[3].RunningQuantity)
	assertDec(t, "1000", rows[3].RunningValue)
}

func TestKardex_SinBalanceMaterializadoUsaFotoDeLaEntrada(t *testing.T) {
	f := newFixture(t)
	// Entradas históricas sin balance (ej. datos migrados a medias).
	f.store.entries = append(f.store.entries, &entity.LedgerEntry{
		ID:               "entry-legacy",
		ProductID:        "prod-1",
		WarehouseID:      entity.DefaultWarehouseID,
		Type:             entity.MovementTypeInitialLoad,
		QuantityChange:   dec("8"),
		BalanceAfter:     dec("8"),
		AverageCostAfter: dec("25"),
		CreatedAt:        time.Now(),
	})

	rows, err := queryFor(f).Kardex(context.Background(), "prod-1", "", 50, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assertDec(t, "8", rows[0].RunningQuantity)
	assertDec(t, "200", rows[0].RunningValue)
}

func TestKardex_SinEntradas(t *testing.T) {
	f := newFixture(t)
	rows, err := queryFor(f).Kardex(context.Background(), "prod-1", "", 50, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
