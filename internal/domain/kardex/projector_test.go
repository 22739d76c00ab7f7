package kardex_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDec compara decimales por valor (no por representación interna).
func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "esperado %s, obtenido %s (%v)", want, got.String(), msgAndArgs)
}

func balance(qty, reserved, avg string) *entity.Balance {
	b := entity.NewBalance("prod-1", entity.DefaultWarehouseID)
	b.Quantity = dec(qty)
	b.ReservedQuantity = dec(reserved)
	b.AvailableQuantity = dec(qty).Sub(dec(reserved))
	b.AverageCost = dec(avg)
	b.TotalValue = dec(qty).Mul(dec(avg))
	return b
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 unidades a 100 + 10 unidades a 200 => promedio 150
	got := kardex.CostCalculator(dec("10"), dec("100"), dec("10"), dec("200"))
	assertDec(t, "150", got)
}

func TestCostCalculator_DesdeCero(t *testing.T) {
	got := kardex.CostCalculator(decimal.Zero, decimal.Zero, dec("5"), dec("80"))
	assertDec(t, "80", got)
}

func TestCostCalculator_SumaCeroRetornaCero(t *testing.T) {
	got := kardex.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, dec("80"))
	assertDec(t, "0", got)
}

func TestProject_EntradasRecalculanCosto(t *testing.T) {
	cases := []struct {
		name     string
		tipo     string
		qty      string
		unitCost string
		wantQty  string
		wantAvg  string
	}{
		{"compra sobre stock existente", entity.MovementTypePurchase, "10", "200", "20", "150"},
		{"devolución de cliente", entity.MovementTypeReturnIn, "2", "100", "12", "100"},
		{"carga inicial", entity.MovementTypeInitialLoad, "5", "100", "15", "100"},
		{"entrada por traslado", entity.MovementTypeTransferIn, "10", "100", "20", "100"},
		{"ajuste positivo con costo", entity.MovementTypeAdjustment, "10", "200", "20", "150"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := balance("10", "0", "100")
			next, err := kardex.Project(b, kardex.Movement{
				Type:           tc.tipo,
				QuantityChange: dec(tc.qty),
				UnitCost:       dec(tc.unitCost),
			})
			require.NoError(t, err)
			assertDec(t, tc.wantQty, next.Quantity)
			assertDec(t, tc.wantAvg, next.AverageCost)
			assertDec(t, "100", next.AverageCostBefore)
			assertDec(t, tc.wantQty, next.AvailableQuantity)
		})
	}
}

func TestProject_EntradaSinCostoNoRecalcula(t *testing.T) {
	// Entrada con costo unitario cero (ej. ajuste positivo sin valorar):
	// suma cantidad pero conserva el costo promedio vigente.
	b := balance("10", "0", "100")
	next, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypePurchase,
		QuantityChange: dec("5"),
		UnitCost:       decimal.Zero,
	})
	require.NoError(t, err)
	assertDec(t, "15", next.Quantity)
	assertDec(t, "100", next.AverageCost)
}

func TestProject_SalidasNoRecalculanCosto(t *testing.T) {
	cases := []struct {
		name    string
		tipo    string
		qty     string
		wantQty string
	}{
		{"devolución a proveedor", entity.MovementTypeReturnOut, "-3", "7"},
		{"salida por traslado", entity.MovementTypeTransferOut, "-10", "0"},
		{"ajuste negativo", entity.MovementTypeAdjustment, "-4", "6"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := balance("10", "0", "100")
			next, err := kardex.Project(b, kardex.Movement{
				Type:           tc.tipo,
				QuantityChange: dec(tc.qty),
			})
			require.NoError(t, err)
			assertDec(t, tc.wantQty, next.Quantity)
			assertDec(t, "100", next.AverageCost, "el costo promedio no cambia en salidas")
			assertDec(t, tc.wantQty, next.AvailableQuantity)
		})
	}
}

func TestProject_SalidaFisicaNegativaRechazada(t *testing.T) {
	b := balance("10", "0", "100")
	_, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeReturnOut,
		QuantityChange: dec("-11"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestProject_SalidaFisicaNoInvadeReservado(t *testing.T) {
	// Una salida física no puede consumir lo comprometido en reservas: con
	// físico=10 y reservado=8 solo hay 2 unidades libres para sacar.
	cases := []struct {
		name string
		tipo string
		qty  string
	}{
		{"devolución a proveedor", entity.MovementTypeReturnOut, "-5"},
		{"salida por traslado", entity.MovementTypeTransferOut, "-3"},
		{"ajuste negativo", entity.MovementTypeAdjustment, "-4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := balance("10", "8", "100")
			_, err := kardex.Project(b, kardex.Movement{
				Type:           tc.tipo,
				QuantityChange: dec(tc.qty),
			})
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		})
	}

	// Sacar exactamente lo libre sí pasa, con disponible en cero.
	b := balance("10", "8", "100")
	next, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeReturnOut,
		QuantityChange: dec("-2"),
	})
	require.NoError(t, err)
	assertDec(t, "8", next.Quantity)
	assertDec(t, "8", next.ReservedQuantity)
	assertDec(t, "0", next.AvailableQuantity)
}

func TestProject_VentaConsumeReservadoPrimero(t *testing.T) {
	// reservado=5, venta de 5: el físico baja y el reservado se consume;
	// el disponible queda igual (físico y reservado se mueven juntos).
	b := balance("20", "5", "150")
	next, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeSale,
		QuantityChange: dec("-5"),
	})
	require.NoError(t, err)
	assertDec(t, "15", next.Quantity)
	assertDec(t, "0", next.ReservedQuantity)
	assertDec(t, "15", next.AvailableQuantity)
}

func TestProject_VentaMayorQueReservadoConsumeDisponible(t *testing.T) {
	b := balance("20", "3", "150")
	next, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeSale,
		QuantityChange: dec("-8"),
	})
	require.NoError(t, err)
	assertDec(t, "12", next.Quantity)
	assertDec(t, "0", next.ReservedQuantity)
	assertDec(t, "12", next.AvailableQuantity)
}

func TestProject_VentaSobreStockInsuficiente(t *testing.T) {
	b := balance("15", "0", "150")
	_, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeSale,
		QuantityChange: dec("-20"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestProject_ReservaYLiberacion(t *testing.T) {
	b := balance("20", "0", "150")

	next, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeReserveStock,
		QuantityChange: dec("5"),
	})
	require.NoError(t, err)
	assertDec(t, "20", next.Quantity, "reservar no mueve físico")
	assertDec(t, "5", next.ReservedQuantity)
	assertDec(t, "15", next.AvailableQuantity)

	// Liberar lo reservado regresa al estado previo.
	b2 := balance("20", "5", "150")
	next2, err := kardex.Project(b2, kardex.Movement{
		Type:           entity.MovementTypeReleaseStock,
		QuantityChange: dec("5"),
	})
	require.NoError(t, err)
	assertDec(t, "0", next2.ReservedQuantity)
	assertDec(t, "20", next2.AvailableQuantity)
	assert.False(t, next2.OverRelease)
}

func TestProject_ReservaExcedeDisponible(t *testing.T) {
	b := balance("10", "8", "100")
	_, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeReserveStock,
		QuantityChange: dec("3"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestProject_SobreLiberacionAcotaEnCero(t *testing.T) {
	// Liberar más de lo reservado no es error duro: no debe bloquear la
	// cancelación de órdenes. Se acota en cero y se marca la advertencia.
	b := balance("10", "2", "100")
	next, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeReleaseStock,
		QuantityChange: dec("5"),
	})
	require.NoError(t, err)
	assert.True(t, next.OverRelease)
	assertDec(t, "0", next.ReservedQuantity)
	assertDec(t, "10", next.AvailableQuantity, "el disponible queda acotado por el físico")
}

func TestProject_TipoDesconocido(t *testing.T) {
	b := balance("10", "0", "100")
	_, err := kardex.Project(b, kardex.Movement{Type: "TELEPORT", QuantityChange: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Escenario completo de costeo y reservas:
// compra 10@100 -> compra 10@200 -> reserva 5 -> venta 5 -> venta 20 rechazada.
func TestProject_EscenarioKardexCompleto(t *testing.T) {
	b := entity.NewBalance("prod-1", entity.DefaultWarehouseID)

	apply := func(tipo, qty, cost string) {
		t.Helper()
		next, err := kardex.Project(b, kardex.Movement{
			Type:           tipo,
			QuantityChange: dec(qty),
			UnitCost:       dec(cost),
		})
		require.NoError(t, err)
		b.Quantity = next.Quantity
		b.ReservedQuantity = next.ReservedQuantity
		b.AvailableQuantity = next.AvailableQuantity
		b.AverageCost = next.AverageCost
		b.TotalValue = next.TotalValue
	}

	apply(entity.MovementTypePurchase, "10", "100")
	assertDec(t, "10", b.Quantity)
	assertDec(t, "100", b.AverageCost)
	assertDec(t, "1000", b.TotalValue)

	apply(entity.MovementTypePurchase, "10", "200")
	assertDec(t, "20", b.Quantity)
	assertDec(t, "150", b.AverageCost)
	assertDec(t, "3000", b.TotalValue)

	apply(entity.MovementTypeReserveStock, "5", "0")
	assertDec(t, "5", b.ReservedQuantity)
	assertDec(t, "15", b.AvailableQuantity)

	apply(entity.MovementTypeSale, "-5", "0")
	assertDec(t, "15", b.Quantity)
	assertDec(t, "0", b.ReservedQuantity)
	assertDec(t, "15", b.AvailableQuantity)

	// Venta mayor al stock: rechazada y el balance queda intacto.
	_, err := kardex.Project(b, kardex.Movement{
		Type:           entity.MovementTypeSale,
		QuantityChange: dec("-20"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertDec(t, "15", b.Quantity)
	assertDec(t, "15", b.AvailableQuantity)
}

// Propiedad: tras N compras partiendo de cero, el costo promedio es
// sum(qty_i*cost_i) / sum(qty_i), y disponible = físico - reservado siempre.
func TestProject_PropiedadPromedioPonderado(t *testing.T) {
	purchases := []struct{ qty, cost string }{
		{"10", "100"}, {"5", "240"}, {"25", "60"}, {"10", "130"},
	}

	b := entity.NewBalance("prod-1", entity.DefaultWarehouseID)
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for _, p := range purchases {
		next, err := kardex.Project(b, kardex.Movement{
			Type:           entity.MovementTypePurchase,
			QuantityChange: dec(p.qty),
			UnitCost:       dec(p.cost),
		})
		require.NoError(t, err)
		b.Quantity = next.Quantity
		b.ReservedQuantity = next.ReservedQuantity
		b.AvailableQuantity = next.AvailableQuantity
		b.AverageCost = next.AverageCost
		b.TotalValue = next.TotalValue

		totalQty = totalQty.Add(dec(p.qty))
		totalCost = totalCost.Add(dec(p.qty).Mul(dec(p.cost)))

		assert.True(t, b.AvailableQuantity.Equal(b.Quantity.Sub(b.ReservedQuantity)),
			"disponible = físico - reservado debe sostenerse tras cada movimiento")
	}

	want := totalCost.Div(totalQty)
	assert.True(t, b.AverageCost.Equal(want),
		"promedio ponderado esperado %s, obtenido %s", want, b.AverageCost)
}
