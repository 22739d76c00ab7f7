package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del puerto LedgerRepository sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee: las entradas del kardex son
// inmutables, no hay UPDATE ni DELETE.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, product_id, warehouse_id, type, quantity_change, balance_after, unit_cost, average_cost_before, average_cost_after, reference_id, reference_type, user_id, notes, created_at`

// Append persiste una nueva entrada del kardex y devuelve su ID.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	referenceID := nullable(entry.ReferenceID)
	referenceType := nullable(entry.ReferenceType)
	userID := nullable(entry.UserID)
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.ProductID, entry.WarehouseID, entry.Type,
		entry.QuantityChange, entry.BalanceAfter, entry.UnitCost,
		entry.AverageCostBefore, entry.AverageCostAfter,
		referenceID, referenceType, userID, entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("append ledger entry: %w", err)
	}
	return entry.ID, nil
}

// GetByID obtiene una entrada por ID.
func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`
	entry, err := scanLedgerEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return entry, nil
}

// ListByProduct lista entradas de un producto, más recientes primero.
// warehouseID vacío considera todas las bodegas.
func (r *LedgerRepo) ListByProduct(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger by product: %w", err)
	}
	defer rows.Close()
	return collectLedgerEntries(rows)
}

// ListByReference lista entradas asociadas a una referencia (orden, OC, etc.),
// más recientes primero.
func (r *LedgerRepo) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by reference: %w", err)
	}
	defer rows.Close()
	return collectLedgerEntries(rows)
}

func collectLedgerEntries(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	var list []*entity.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var referenceID, referenceType, userID *string
	err := row.Scan(
		&e.ID, &e.ProductID, &e.WarehouseID, &e.Type,
		&e.QuantityChange, &e.BalanceAfter, &e.UnitCost,
		&e.AverageCostBefore, &e.AverageCostAfter,
		&referenceID, &referenceType, &userID, &e.Notes, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if referenceID != nil {
		e.ReferenceID = *referenceID
	}
	if referenceType != nil {
		e.ReferenceType = *referenceType
	}
	if userID != nil {
		e.UserID = *userID
	}
	return &e, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
