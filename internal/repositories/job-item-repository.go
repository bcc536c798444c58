package repositories

import (
	"context"
	"errors"
	"fmt"

	"hvac-service/internal/entities"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const jobItemColumns = `ji.id, ji.work_order_id, ji.asset_id, ji.technician_id, ji.status, ji.tech_note, ji.checklist,
	ji.started_at, ji.finished_at, ji.created_at, ji.updated_at,
	a.asset_type, a.qr_code, a.brand, a.model, t.full_name`

const jobItemFrom = `job_items ji
	JOIN assets a ON a.id = ji.asset_id
	LEFT JOIN users t ON t.id = ji.technician_id`

type JobItemRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, item *entities.JobItem) error
	FindByID(ctx context.Context, id string) (*entities.JobItem, error)
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.JobItem, error)
	TransitionInTx(ctx context.Context, tx pgx.Tx, id string, to constants.JobItemStatus, from []constants.JobItemStatus, note *string) error
	UpdateNote(ctx context.Context, id string, note, checklist *string) error
	Assign(ctx context.Context, id, technicianID string) error
	TechnicianIDs(ctx context.Context, workOrderID string) ([]string, error)
}

type JobItemRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewJobItemRepository(storage *pgxpool.Pool, logger *zap.Logger) JobItemRepositoryInterface {
	return &JobItemRepository{storage: storage, logger: logger}
}

func scanJobItem(row pgx.Row) (*entities.JobItem, error) {
	var ji entities.JobItem
	err := row.Scan(
		&ji.ID, &ji.WorkOrderID, &ji.AssetID, &ji.TechnicianID, &ji.Status, &ji.TechNote, &ji.Checklist,
		&ji.StartedAt, &ji.FinishedAt, &ji.CreatedAt, &ji.UpdatedAt,
		&ji.AssetType, &ji.AssetQRCode, &ji.AssetBrand, &ji.AssetModel, &ji.TechnicianName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &ji, nil
}

func (r *JobItemRepository) CreateInTx(ctx context.Context, tx pgx.Tx, item *entities.JobItem) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO job_items (id, work_order_id, asset_id, technician_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		item.ID, item.WorkOrderID, item.AssetID, item.TechnicianID, item.Status,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewInvalidInputError("asset or technician does not exist")
		}
		return fmt.Errorf("insert job item: %w", err)
	}
	return nil
}

func (r *JobItemRepository) FindByID(ctx context.Context, id string) (*entities.JobItem, error) {
	return scanJobItem(r.storage.QueryRow(ctx, "SELECT "+jobItemColumns+" FROM "+jobItemFrom+" WHERE ji.id = $1", id))
}

func (r *JobItemRepository) ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.JobItem, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT "+jobItemColumns+" FROM "+jobItemFrom+" WHERE ji.work_order_id = $1 ORDER BY ji.created_at, ji.id", workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list job items: %w", err)
	}
	defer rows.Close()

	items := make([]entities.JobItem, 0)
	for rows.Next() {
		ji, err := scanJobItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job item: %w", err)
		}
		items = append(items, *ji)
	}
	return items, rows.Err()
}

// TransitionInTx stamps started_at when entering IN_PROGRESS and finished_at
// when leaving it. A nil note keeps the stored one.
func (r *JobItemRepository) TransitionInTx(ctx context.Context, tx pgx.Tx, id string, to constants.JobItemStatus, from []constants.JobItemStatus, note *string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE job_items SET
			status = $2,
			started_at = CASE WHEN $2::text = 'IN_PROGRESS' THEN now() ELSE started_at END,
			finished_at = CASE WHEN $2::text IN ('DONE', 'ISSUE_FOUND') THEN now() ELSE finished_at END,
			tech_note = COALESCE($4, tech_note),
			updated_at = now()
		WHERE id = $1 AND status = ANY($3)`,
		id, string(to), constants.JobItemStatusStrings(from), note,
	)
	if err != nil {
		return fmt.Errorf("update job item status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	exists, err := rowExists(ctx, tx, `SELECT 1 FROM job_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("lookup job item: %w", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrInvalidStatusTransition
}

func (r *JobItemRepository) UpdateNote(ctx context.Context, id string, note, checklist *string) error {
	tag, err := r.storage.Exec(ctx, `
		UPDATE job_items SET
			tech_note = COALESCE($2, tech_note),
			checklist = COALESCE($3, checklist),
			updated_at = now()
		WHERE id = $1`, id, note, checklist)
	if err != nil {
		return fmt.Errorf("update job item note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *JobItemRepository) Assign(ctx context.Context, id, technicianID string) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE job_items SET technician_id = $2, updated_at = now() WHERE id = $1`, id, technicianID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewInvalidInputError("technician does not exist")
		}
		return fmt.Errorf("assign job item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *JobItemRepository) TechnicianIDs(ctx context.Context, workOrderID string) ([]string, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT DISTINCT technician_id FROM job_items WHERE work_order_id = $1 AND technician_id IS NOT NULL`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list job item technicians: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan technician ids: %w", err)
	}
	return ids, nil
}
