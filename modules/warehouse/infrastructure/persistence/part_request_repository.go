package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/pkg/composables"
)

const partRequestSelectColumns = `
		id,
		service_order_id,
		part_id,
		technician_id,
		quantity,
		urgency,
		technician_notes,
		status,
		approver_id,
		approver_notes,
		decided_at,
		created_at,
		updated_at`

type pgPartRequestRepository struct{}

func NewPgPartRequestRepository() partrequest.Repository {
	return &pgPartRequestRepository{}
}

func (r *pgPartRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (partrequest.PartRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return partrequest.PartRequest{}, errors.Wrap(err, "failed to get transaction")
	}

	row := tx.QueryRow(ctx, `
		SELECT`+partRequestSelectColumns+`
		FROM wh_part_requests
		WHERE id = $1
	`, id)
	req, err := scanPartRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return partrequest.PartRequest{}, partrequest.ErrNotFound
		}
		return partrequest.PartRequest{}, errors.Wrap(err, "failed to get part request")
	}
	return req, nil
}

func (r *pgPartRequestRepository) ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]partrequest.PartRequest, error) {
	return r.list(ctx, "technician_id = $1", technicianID)
}

func (r *pgPartRequestRepository) ListByOrder(ctx context.Context, serviceOrderID uuid.UUID) ([]partrequest.PartRequest, error) {
	return r.list(ctx, "service_order_id = $1", serviceOrderID)
}

func (r *pgPartRequestRepository) ListByStatus(ctx context.Context, status partrequest.Status) ([]partrequest.PartRequest, error) {
	return r.list(ctx, "status = $1", string(status))
}

func (r *pgPartRequestRepository) list(ctx context.Context, condition string, arg any) ([]partrequest.PartRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, `
		SELECT`+partRequestSelectColumns+`
		FROM wh_part_requests
		WHERE `+condition+`
		ORDER BY created_at DESC
	`, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query part requests")
	}
	defer rows.Close()

	out := make([]partrequest.PartRequest, 0)
	for rows.Next() {
		req, err := scanPartRequest(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan part request")
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating part requests")
	}
	return out, nil
}

func (r *pgPartRequestRepository) Create(ctx context.Context, req partrequest.PartRequest) (partrequest.PartRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return partrequest.PartRequest{}, errors.Wrap(err, "failed to get transaction")
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO wh_part_requests (
			service_order_id,
			part_id,
			technician_id,
			quantity,
			urgency,
			technician_notes,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING`+partRequestSelectColumns+`
	`,
		req.ServiceOrderID(),
		req.PartID(),
		req.TechnicianID(),
		req.Quantity(),
		string(req.Urgency()),
		req.TechnicianNotes(),
		string(req.Status()),
	)
	created, err := scanPartRequest(row)
	if err != nil {
		return partrequest.PartRequest{}, errors.Wrap(err, "failed to create part request")
	}
	return created, nil
}

func (r *pgPartRequestRepository) Transition(ctx context.Context, id uuid.UUID, from, to partrequest.Status, d partrequest.Decision) (partrequest.PartRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return partrequest.PartRequest{}, errors.Wrap(err, "failed to get transaction")
	}

	var approverID *uuid.UUID
	var decidedAt *time.Time
	if !d.IsZero() {
		approverID = &d.ApproverID
		decidedAt = &d.DecidedAt
	}

	// Compare-and-swap on the stored status: of two concurrent decisions
	// exactly one matches WHERE status = from, the other sees no row.
	row := tx.QueryRow(ctx, `
		UPDATE wh_part_requests
		SET
			status = $3,
			approver_id = COALESCE($4, approver_id),
			approver_notes = CASE WHEN $5 <> '' THEN $5 ELSE approver_notes END,
			decided_at = COALESCE($6, decided_at),
			updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING`+partRequestSelectColumns+`
	`, id, string(from), string(to), approverID, d.Notes, decidedAt)
	updated, err := scanPartRequest(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return partrequest.PartRequest{}, errors.Wrap(err, "failed to transition part request")
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wh_part_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return partrequest.PartRequest{}, errors.Wrap(err, "failed to check part request existence")
	}
	if !exists {
		return partrequest.PartRequest{}, partrequest.ErrNotFound
	}
	return partrequest.PartRequest{}, partrequest.ErrInvalidState
}

func scanPartRequest(row rowScanner) (partrequest.PartRequest, error) {
	var r partRequestRow
	if err := row.Scan(
		&r.ID,
		&r.ServiceOrderID,
		&r.PartID,
		&r.TechnicianID,
		&r.Quantity,
		&r.Urgency,
		&r.TechnicianNotes,
		&r.Status,
		&r.ApproverID,
		&r.ApproverNotes,
		&r.DecidedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return partrequest.PartRequest{}, err
	}
	return r.toEntity(), nil
}
