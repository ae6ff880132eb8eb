package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/pkg/composables"
)

const (
	partSelectColumns = `
		id,
		name,
		sku,
		description,
		unit_price_amount,
		unit_price_currency,
		quantity_in_stock,
		status,
		created_at,
		updated_at`

	// The status flip between ACTIVE and OUT_OF_STOCK rides along with the
	// quantity change so both land in the same row version.
	partStockStatusCase = `CASE
			WHEN quantity_in_stock + $2 = 0 AND status = 'ACTIVE' THEN 'OUT_OF_STOCK'
			WHEN quantity_in_stock + $2 > 0 AND status = 'OUT_OF_STOCK' THEN 'ACTIVE'
			ELSE status
		END`
)

type pgPartRepository struct{}

func NewPgPartRepository() part.Repository {
	return &pgPartRepository{}
}

func (r *pgPartRepository) GetByID(ctx context.Context, id uuid.UUID) (part.Part, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return part.Part{}, errors.Wrap(err, "failed to get transaction")
	}

	row := tx.QueryRow(ctx, `
		SELECT`+partSelectColumns+`
		FROM wh_parts
		WHERE id = $1
	`, id)
	p, err := scanPart(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return part.Part{}, part.ErrNotFound
		}
		return part.Part{}, errors.Wrap(err, "failed to get part")
	}
	return p, nil
}

func (r *pgPartRepository) GetBySKU(ctx context.Context, sku string) (part.Part, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return part.Part{}, errors.Wrap(err, "failed to get transaction")
	}

	row := tx.QueryRow(ctx, `
		SELECT`+partSelectColumns+`
		FROM wh_parts
		WHERE sku = $1
	`, strings.ToUpper(strings.TrimSpace(sku)))
	p, err := scanPart(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return part.Part{}, part.ErrNotFound
		}
		return part.Part{}, errors.Wrap(err, "failed to get part by sku")
	}
	return p, nil
}

func (r *pgPartRepository) List(ctx context.Context, params *part.FindParams) ([]part.Part, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	where := []string{"1 = 1"}
	args := []any{}
	if params.Query != "" {
		args = append(args, "%"+strings.TrimSpace(params.Query)+"%")
		n := fmt.Sprintf("$%d", len(args))
		where = append(where, "(name ILIKE "+n+" OR sku ILIKE "+n+" OR description ILIKE "+n+")")
	}
	if params.Category != "" {
		args = append(args, strings.ToUpper(strings.TrimSpace(params.Category))+"-%")
		where = append(where, fmt.Sprintf("sku LIKE $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.LowStockBelow > 0 {
		args = append(args, params.LowStockBelow)
		where = append(where, fmt.Sprintf("quantity_in_stock < $%d", len(args)))
	}

	q := `
		SELECT` + partSelectColumns + `
		FROM wh_parts
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY name ASC, sku ASC`
	if params.Limit > 0 {
		args = append(args, params.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := tx.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query parts")
	}
	defer rows.Close()

	out := make([]part.Part, 0)
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan part")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating parts")
	}
	return out, nil
}

func (r *pgPartRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM wh_parts`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count parts")
	}
	return count, nil
}

func (r *pgPartRepository) Create(ctx context.Context, p part.Part) (part.Part, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return part.Part{}, errors.Wrap(err, "failed to get transaction")
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO wh_parts (
			name,
			sku,
			description,
			unit_price_amount,
			unit_price_currency,
			quantity_in_stock,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING`+partSelectColumns+`
	`,
		p.Name(),
		p.SKU(),
		p.Description(),
		priceAmount(p),
		priceCurrency(p),
		p.QuantityInStock(),
		string(p.Status()),
	)
	created, err := scanPart(row)
	if err != nil {
		if isUniqueViolation(err) {
			return part.Part{}, part.ErrSKUTaken
		}
		return part.Part{}, errors.Wrap(err, "failed to create part")
	}
	return created, nil
}

func (r *pgPartRepository) Update(ctx context.Context, p part.Part) (part.Part, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return part.Part{}, errors.Wrap(err, "failed to get transaction")
	}

	row := tx.QueryRow(ctx, `
		UPDATE wh_parts
		SET
			name = $1,
			sku = $2,
			description = $3,
			unit_price_amount = $4,
			unit_price_currency = $5,
			status = $6,
			updated_at = now()
		WHERE id = $7
		RETURNING`+partSelectColumns+`
	`,
		p.Name(),
		p.SKU(),
		p.Description(),
		priceAmount(p),
		priceCurrency(p),
		string(p.Status()),
		p.ID(),
	)
	updated, err := scanPart(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return part.Part{}, part.ErrNotFound
		}
		if isUniqueViolation(err) {
			return part.Part{}, part.ErrSKUTaken
		}
		return part.Part{}, errors.Wrap(err, "failed to update part")
	}
	return updated, nil
}

func (r *pgPartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	var referenced bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM wh_part_requests
			WHERE part_id = $1 AND status = 'PENDING'
		)
	`, id).Scan(&referenced); err != nil {
		return errors.Wrap(err, "failed to check part references")
	}
	if referenced {
		return part.ErrReferenced
	}

	tag, err := tx.Exec(ctx, `DELETE FROM wh_parts WHERE id = $1`, id)
	if err != nil {
		// Decided requests keep their FK for audit; RESTRICT surfaces here.
		if isForeignKeyViolation(err) {
			return part.ErrReferenced
		}
		return errors.Wrap(err, "failed to delete part")
	}
	if tag.RowsAffected() == 0 {
		return part.ErrNotFound
	}
	return nil
}

func (r *pgPartRepository) AdjustStock(ctx context.Context, id uuid.UUID, adj part.StockAdjustment) (part.Part, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return part.Part{}, errors.Wrap(err, "failed to get transaction")
	}

	// One conditional update: the floor check and the write are a single
	// atomic statement, so concurrent decrements can never take the same
	// units twice.
	row := tx.QueryRow(ctx, `
		UPDATE wh_parts
		SET
			quantity_in_stock = quantity_in_stock + $2,
			status = `+partStockStatusCase+`,
			updated_at = now()
		WHERE id = $1 AND quantity_in_stock + $2 >= 0
		RETURNING`+partSelectColumns+`
	`, id, adj.Delta())
	adjusted, err := scanPart(row)
	if err == nil {
		return adjusted, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return part.Part{}, errors.Wrap(err, "failed to adjust stock")
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wh_parts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return part.Part{}, errors.Wrap(err, "failed to check part existence")
	}
	if !exists {
		return part.Part{}, part.ErrNotFound
	}
	return part.Part{}, part.ErrInsufficientStock
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPart(row rowScanner) (part.Part, error) {
	var p partRow
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.SKU,
		&p.Description,
		&p.UnitPriceAmount,
		&p.UnitPriceCurrency,
		&p.QuantityInStock,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return part.Part{}, err
	}
	return p.toEntity(), nil
}

func priceAmount(p part.Part) int64 {
	if p.UnitPrice() == nil {
		return 0
	}
	return p.UnitPrice().Amount()
}

func priceCurrency(p part.Part) string {
	if p.UnitPrice() == nil {
		return money.USD
	}
	return p.UnitPrice().Currency().Code
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
