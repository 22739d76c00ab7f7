package kardex_test

import (
	"context"
	"fmt"
	"maps"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkardex "github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDec compara decimales por valor (no por representación interna).
func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "esperado %s, obtenido %s (%v)", want, got.String(), msgAndArgs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: emulan commit/rollback y conflictos de versión
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products map[string]*entity.Product
	balances map[string]*entity.Balance // productID|warehouseID
	entries  []*entity.LedgerEntry
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*entity.Product{},
		balances: map[string]*entity.Balance{},
	}
}

func balKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (s *memStore) clone() *memStore {
	ns := newMemStore()
	for id, p := range s.products {
		cp := *p
		cp.WarehouseStock = maps.Clone(p.WarehouseStock)
		ns.products[id] = &cp
	}
	for k, b := range s.balances {
		cb := *b
		ns.balances[k] = &cb
	}
	ns.entries = append([]*entity.LedgerEntry{}, s.entries...)
	return ns
}

func (s *memStore) replaceWith(o *memStore) {
	s.products = o.products
	s.balances = o.balances
	s.entries = o.entries
}

// fakeTxRunner trabaja sobre una copia y solo publica los cambios en commit,
// igual que una transacción real: un error descarta todas las escrituras.
type fakeTxRunner struct {
	store *memStore
	// conflictos de versión pendientes por inyectar en UpsertVersioned
	conflicts int
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	productRepo repository.ProductRepository,
) error) error {
	staging := r.store.clone()
	err := fn(
		&fakeLedgerRepo{s: staging},
		&fakeBalanceRepo{s: staging, runner: r},
		&fakeProductRepo{s: staging},
	)
	if err != nil {
		return err
	}
	r.store.replaceWith(staging)
	return nil
}

type fakeLedgerRepo struct{ s *memStore }

func (r *fakeLedgerRepo) Append(_ context.Context, entry *entity.LedgerEntry) (string, error) {
	e := *entry
	e.ID = fmt.Sprintf("entry-%d", len(r.s.entries)+1)
	r.s.entries = append(r.s.entries, &e)
	return e.ID, nil
}

func (r *fakeLedgerRepo) GetByID(_ context.Context, id string) (*entity.LedgerEntry, error) {
	for _, e := range r.s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) ListByProduct(_ context.Context, productID, warehouseID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		e := r.s.entries[i]
		if e.ProductID != productID {
			continue
		}
		if warehouseID != "" && e.WarehouseID != warehouseID {
			continue
		}
		out = append(out, e)
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeLedgerRepo) ListByReference(_ context.Context, referenceType, referenceID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.entries {
		if e.ReferenceType == referenceType && e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeBalanceRepo struct {
	s      *memStore
	runner *fakeTxRunner
}

func (r *fakeBalanceRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Balance, error) {
	b, ok := r.s.balances[balKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cb := *b
	return &cb, nil
}

func (r *fakeBalanceRepo) UpsertVersioned(_ context.Context, balance *entity.Balance, expectedVersion int64) error {
	if r.runner.conflicts > 0 {
		r.runner.conflicts--
		return domain.ErrConcurrencyConflict
	}
	key := balKey(balance.ProductID, balance.WarehouseID)
	current, ok := r.s.balances[key]
	if ok && current.Version != expectedVersion {
		return domain.ErrConcurrencyConflict
	}
	if !ok && expectedVersion != 0 {
		return domain.ErrConcurrencyConflict
	}
	cb := *balance
	r.s.balances[key] = &cb
	return nil
}

func (r *fakeBalanceRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.Balance, error) {
	var out []*entity.Balance
	for _, b := range r.s.balances {
		if b.WarehouseID == warehouseID {
			cb := *b
			out = append(out, &cb)
		}
	}
	return out, nil
}

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.WarehouseStock = maps.Clone(p.WarehouseStock)
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error { return nil }

func (r *fakeProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) ApplyStockDelta(_ context.Context, productID string, d repository.StockDelta) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.WarehouseStock == nil {
		p.WarehouseStock = map[string]entity.WarehouseBucket{}
	}
	p.WarehouseStock[d.WarehouseID] = d.Bucket
	p.StockQuantity = p.StockQuantity.Add(d.QuantityDelta)
	p.AvailableStock = p.AvailableStock.Add(d.AvailableDelta)
	if d.RefreshCost {
		p.AverageCost = d.AverageCost
		p.TotalInventoryValue = d.TotalValue
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakeProductRepo) ListBelowReorderPoint(_ context.Context) ([]repository.LowStockItem, error) {
	return nil, nil
}

type fakeWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}

func (r *fakeWarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error { return nil }

func (r *fakeWarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store  *memStore
	runner *fakeTxRunner
	coord  *appkardex.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	store.products["prod-1"] = &entity.Product{
		ID:   "prod-1",
		SKU:  "SKU-001",
		Name: "Producto de prueba",
	}
	runner := &fakeTxRunner{store: store}
	whRepo := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		entity.DefaultWarehouseID: {ID: entity.DefaultWarehouseID, Name: "Bodega principal"},
		"BOD-2":                   {ID: "BOD-2", Name: "Bodega secundaria"},
	}}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	coord := appkardex.NewCoordinator(runner, whRepo, log, appkardex.Config{MaxRetries: 5})
	return &fixture{store: store, runner: runner, coord: coord}
}

func (f *fixture) apply(t *testing.T, tipo, qty, cost string) *appkardex.MovementResult {
	t.Helper()
	res, err := f.coord.ApplyMovement(context.Background(), appkardex.MovementInput{
		ProductID:      "prod-1",
		Type:           tipo,
		QuantityChange: dec(qty),
		UnitCost:       dec(cost),
		UserID:         "user-1",
	})
	require.NoError(t, err)
	return res
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_CompraEscribeEntradaBalanceYAgregado(t *testing.T) {
	f := newFixture(t)

	res, err := f.coord.ApplyMovement(context.Background(), appkardex.MovementInput{
		ProductID:      "prod-1",
		Type:           entity.MovementTypePurchase,
		QuantityChange: dec("10"),
		UnitCost:       dec("100"),
		ReferenceID:    "oc-1",
		ReferenceType:  entity.ReferenceTypePurchaseOrder,
		UserID:         "user-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.EntryID)

	// Entrada del kardex con foto de costeo antes/después
	require.Len(t, f.store.entries, 1)
	e := f.store.entries[0]
	assert.Equal(t, entity.MovementTypePurchase, e.Type)
	assertDec(t, "10", e.QuantityChange)
	assertDec(t, "10", e.BalanceAfter)
	assertDec(t, "0", e.AverageCostBefore)
	assertDec(t, "100", e.AverageCostAfter)
	assert.Equal(t, "oc-1", e.ReferenceID)

	// Proyección de balance versionada
	b := f.store.balances[balKey("prod-1", entity.DefaultWarehouseID)]
	require.NotNil(t, b)
	assertDec(t, "10", b.Quantity)
	assertDec(t, "10", b.AvailableQuantity)
	assertDec(t, "100", b.AverageCost)
	assertDec(t, "1000", b.TotalValue)
	assert.Equal(t, int64(1), b.Version)

	// Agregado denormalizado del producto
	p := f.store.products["prod-1"]
	assertDec(t, "10", p.StockQuantity)
	assertDec(t, "10", p.AvailableStock)
	assertDec(t, "100", p.AverageCost)
	assertDec(t, "1000", p.TotalInventoryValue)
	assertDec(t, "10", p.WarehouseStock[entity.DefaultWarehouseID].Stock)
}

func TestApplyMovement_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.coord.ApplyMovement(context.Background(), appkardex.MovementInput{
		ProductID:      "no-existe",
		Type:           entity.MovementTypePurchase,
		QuantityChange: dec("1"),
		UnitCost:       dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.entries, "no debe quedar ninguna entrada")
}

func TestApplyMovement_BodegaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.coord.ApplyMovement(context.Background(), appkardex.MovementInput{
		ProductID:      "prod-1",
		WarehouseID:    "no-existe",
		Type:           entity.MovementTypePurchase,
		QuantityChange: dec("1"),
		UnitCost:       dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMovement_EntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   appkardex.MovementInput
	}{
		{"tipo desconocido", appkardex.MovementInput{ProductID: "prod-1", Type: "TELEPORT", QuantityChange: dec("1")}},
		{"compra con cantidad cero", appkardex.MovementInput{ProductID: "prod-1", Type: entity.MovementTypePurchase, QuantityChange: dec("0"), UnitCost: dec("10")}},
		{"compra con cantidad negativa", appkardex.MovementInput{ProductID: "prod-1", Type: entity.MovementTypePurchase, QuantityChange: dec("-5"), UnitCost: dec("10")}},
		{"costo unitario negativo", appkardex.MovementInput{ProductID: "prod-1", Type: entity.MovementTypePurchase, QuantityChange: dec("5"), UnitCost: dec("-10")}},
		{"salida por traslado positiva", appkardex.MovementInput{ProductID: "prod-1", Type: entity.MovementTypeTransferOut, QuantityChange: dec("5")}},
		{"reserva con cantidad cero", appkardex.MovementInput{ProductID: "prod-1", Type: entity.MovementTypeReserveStock, QuantityChange: dec("0")}},
		{"ajuste con cantidad cero", appkardex.MovementInput{ProductID: "prod-1", Type: entity.MovementTypeAdjustment, QuantityChange: dec("0")}},
		{"referencia desconocida", appkardex.MovementInput{ProductID: "prod-1", Type: entity.MovementTypePurchase, QuantityChange: dec("5"), UnitCost: dec("10"), ReferenceType: "FACTURA"}},
		{"sin producto", appkardex.MovementInput{Type: entity.MovementTypePurchase, QuantityChange: dec("5"), UnitCost: dec("10")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.coord.ApplyMovement(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.store.entries)
}

func TestApplyMovement_VentaInsuficienteNoDejaEscrituraParcial(t *testing.T) {
	f := newFixture(t)
	f.apply(t, entity.MovementTypePurchase, "15", "100")

	entriesBefore := len(f.store.entries)
	balBefore := *f.store.balances[balKey("prod-1", entity.DefaultWarehouseID)]
	stockBefore := f.store.products["prod-1"].StockQuantity

	_, err := f.coord.ApplyMovement(context.Background(), appkardex.MovementInput{
		ProductID:      "prod-1",
		Type:           entity.MovementTypeSale,
		QuantityChange: dec("-20"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni kardex, ni balance, ni agregado deben haber cambiado.
	assert.Len(t, f.store.entries, entriesBefore)
	balAfter := f.store.balances[balKey("prod-1", entity.DefaultWarehouseID)]
	assert.True(t, balAfter.Quantity.Equal(balBefore.Quantity))
	assert.Equal(t, balBefore.Version, balAfter.Version)
	assert.True(t, f.store.products["prod-1"].StockQuantity.Equal(stockBefore))
}

func TestApplyMovement_EscenarioReservaVentaCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.apply(t, entity.MovementTypePurchase, "10", "100")
	f.apply(t, entity.MovementTypePurchase, "10", "200")

	b := f.store.balances[balKey("prod-1", entity.DefaultWarehouseID)]
	assertDec(t, "20", b.Quantity)
	assertDec(t, "150", b.AverageCost)
	assertDec(t, "3000", b.TotalValue)

	res, err := f.coord.ReserveStock(ctx, "prod-1", "", dec("5"), "orden-1", "user-1")
	require.NoError(t, err)
	assertDec(t, "5", res.Balance.ReservedQuantity)
	assertDec(t, "15", res.Balance.AvailableQuantity)
	assertDec(t, "20", res.Balance.Quantity, "reservar no mueve físico")

	f.apply(t, entity.MovementTypeSale, "-5", "0")
	b = f.store.balances[balKey("prod-1", entity.DefaultWarehouseID)]
	assertDec(t, "15", b.Quantity)
	assertDec(t, "0", b.ReservedQuantity)
	assertDec(t, "15", b.AvailableQuantity)

	// La venta queda valorada al costo promedio vigente.
	last := f.store.entries[len(f.store.entries)-1]
	assertDec(t, "-5", last.QuantityChange)
	assertDec(t, "150", last.UnitCost)

	_, err = f.coord.ApplyMovement(ctx, appkardex.MovementInput{
		ProductID:      "prod-1",
		Type:           entity.MovementTypeSale,
		QuantityChange: dec("-20"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	b = f.store.balances[balKey("prod-1", entity.DefaultWarehouseID)]
	assertDec(t, "15", b.Quantity, "el rechazo no toca el balance")
}

func TestReserveRelease_RegresaAlEstadoPrevio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.apply(t, entity.MovementTypePurchase, "10", "100")

	_, err := f.coord.ReserveStock(ctx, "prod-1", "", dec("4"), "orden-9", "user-1")
	require.NoError(t, err)
	res, err := f.coord.ReleaseStock(ctx, "prod-1", "", dec("4"), "orden-9", "user-1")
	require.NoError(t, err)
	assert.False(t, res.OverRelease)
	assertDec(t, "0", res.Balance.ReservedQuantity)
	assertDec(t, "10", res.Balance.AvailableQuantity)

	// Ambas operaciones quedaron en el kardex referenciando la orden.
	var refs int
	for _, e := range f.store.entries {
		if e.ReferenceID == "orden-9" {
			refs++
		}
	}
	assert.Equal(t, 2, refs)
}

func TestReleaseStock_SobreLiberacionAcotaYAdvierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.apply(t, entity.MovementTypePurchase, "10", "100")
	_, err := f.coord.ReserveStock(ctx, "prod-1", "", dec("2"), "orden-1", "user-1")
	require.NoError(t, err)

	res, err := f.coord.ReleaseStock(ctx, "prod-1", "", dec("5"), "orden-1", "user-1")
	require.NoError(t, err, "liberar de más nunca debe bloquear una cancelación")
	assert.True(t, res.OverRelease)
	assertDec(t, "0", res.Balance.ReservedQuantity)
	assertDec(t, "10", res.Balance.AvailableQuantity)
}

func TestApplyMovement_SiembraBalanceDesdeAgregadoLegado(t *testing.T) {
	f := newFixture(t)
	// Producto migrado: tiene bucket legado pero ningún balance materializado.
	p := f.store.products["prod-1"]
	p.AverageCost = dec("50")
	p.StockQuantity = dec("7")
	p.AvailableStock = dec("5")
	p.WarehouseStock = map[string]entity.WarehouseBucket{
		entity.DefaultWarehouseID: {Stock: dec("7"), Reserved: dec("2"), Available: dec("5")},
	}

	res := f.apply(t, entity.MovementTypePurchase, "3", "50")
	assertDec(t, "10", res.Balance.Quantity)
	assertDec(t, "2", res.Balance.ReservedQuantity)
	assertDec(t, "8", res.Balance.AvailableQuantity)
	assertDec(t, "50", res.Balance.AverageCost)
	assert.Equal(t, int64(1), res.Balance.Version)

	// El agregado se movió por delta, no por sobreescritura.
	assertDec(t, "10", f.store.products["prod-1"].StockQuantity)
	assertDec(t, "8", f.store.products["prod-1"].AvailableStock)
}

func TestApplyMovement_MultiBodegaPreservaAportes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.apply(t, entity.MovementTypePurchase, "10", "100")

	_, err := f.coord.ApplyMovement(ctx, appkardex.MovementInput{
		ProductID:      "prod-1",
		WarehouseID:    "BOD-2",
		Type:           entity.MovementTypePurchase,
		QuantityChange: dec("4"),
		UnitCost:       dec("500"),
	})
	require.NoError(t, err)

	p := f.store.products["prod-1"]
	// Totales globales suman ambas bodegas.
	assertDec(t, "14", p.StockQuantity)
	assertDec(t, "14", p.AvailableStock)
	assertDec(t, "10", p.WarehouseStock[entity.DefaultWarehouseID].Stock)
	assertDec(t, "4", p.WarehouseStock["BOD-2"].Stock)
	// El costo global visible solo lo refresca la bodega principal.
	assertDec(t, "100", p.AverageCost)
	assertDec(t, "1000", p.TotalInventoryValue)

	// Cada bodega lleva su propio costo promedio en su balance.
	b2 := f.store.balances[balKey("prod-1", "BOD-2")]
	assertDec(t, "500", b2.AverageCost)
}

func TestApplyMovement_ReintentaTrasConflictoTransitorio(t *testing.T) {
	f := newFixture(t)
	f.runner.conflicts = 2 // los dos primeros intentos chocan

	res := f.apply(t, entity.MovementTypePurchase, "10", "100")
	assertDec(t, "10", res.Balance.Quantity)

	// Los intentos fallidos no dejaron entradas huérfanas en el kardex.
	assert.Len(t, f.store.entries, 1)
}

func TestApplyMovement_AgotaReintentosYDevuelveConflicto(t *testing.T) {
	f := newFixture(t)
	f.runner.conflicts = 100

	_, err := f.coord.ApplyMovement(context.Background(), appkardex.MovementInput{
		ProductID:      "prod-1",
		Type:           entity.MovementTypePurchase,
		QuantityChange: dec("10"),
		UnitCost:       dec("100"),
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Empty(t, f.store.entries)
}

func TestApplyMovement_VersionaEnCadaEscritura(t *testing.T) {
	f := newFixture(t)
	f.apply(t, entity.MovementTypePurchase, "10", "100")
	f.apply(t, entity.MovementTypeAdjustment, "-3", "0")
	res := f.apply(t, entity.MovementTypeReturnIn, "1", "100")
	assert.Equal(t, int64(3), res.Balance.Version)
	assertDec(t, "8", res.Balance.Quantity)
}

func TestReceivePurchaseOrder_UnaEntradaPorLinea(t *testing.T) {
	f := newFixture(t)
	f.store.products["prod-2"] = &entity.Product{ID: "prod-2", SKU: "SKU-002", Name: "Otro producto"}

	entryIDs, err := f.coord.ReceivePurchaseOrder(context.Background(), appkardex.ReceivePurchaseInput{
		PurchaseOrderID: "oc-77",
		UserID:          "user-1",
		Lines: []appkardex.PurchaseLine{
			{ProductID: "prod-1", Quantity: dec("10"), UnitCost: dec("100")},
			{ProductID: "prod-2", Quantity: dec("5"), UnitCost: dec("40")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, entryIDs, 2)

	for _, e := range f.store.entries {
		assert.Equal(t, entity.MovementTypePurchase, e.Type)
		assert.Equal(t, "oc-77", e.ReferenceID)
		assert.Equal(t, entity.ReferenceTypePurchaseOrder, e.ReferenceType)
	}
	assertDec(t, "5", f.store.products["prod-2"].StockQuantity)
}

func TestReceivePurchaseOrder_LineaInvalidaReportaPosicion(t *testing.T) {
	f := newFixture(t)
	entryIDs, err := f.coord.ReceivePurchaseOrder(context.Background(), appkardex.ReceivePurchaseInput{
		PurchaseOrderID: "oc-78",
		Lines: []appkardex.PurchaseLine{
			{ProductID: "prod-1", Quantity: dec("10"), UnitCost: dec("100")},
			{ProductID: "no-existe", Quantity: dec("5"), UnitCost: dec("40")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "línea 2")
	// La primera línea quedó aplicada: cada línea es su propia unidad atómica.
	assert.Len(t, entryIDs, 1)
	assert.Len(t, f.store.entries, 1)
}
