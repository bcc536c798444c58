package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hvac-service/internal/entities"
	db "hvac-service/internal/infrastructure/bd"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const workOrderColumns = `wo.id, wo.number, wo.site_id, s.name, wo.job_type, wo.status, wo.scheduled_date,
	wo.description, wo.approval_token, wo.approved_at, wo.rejected_at, wo.rejection_reason,
	wo.completed_at, wo.cancelled_at, wo.created_by, wo.created_at, wo.updated_at`

// WorkOrderNumberConstraint is the unique index guarding display numbers.
const WorkOrderNumberConstraint = "work_orders_number_key"

var workOrderAllowedFields = map[string]string{
	"status":         "wo.status",
	"site_id":        "wo.site_id",
	"job_type":       "wo.job_type",
	"scheduled_date": "wo.scheduled_date",
	"created_at":     "wo.created_at",
	"number":         "wo.number",
}

type WorkOrderRepositoryInterface interface {
	NextNumber(ctx context.Context, tx pgx.Tx, prefix string) (int, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, wo *entities.WorkOrder) error
	FindByID(ctx context.Context, id string) (*entities.WorkOrder, error)
	FindByApprovalToken(ctx context.Context, token string) (*entities.WorkOrder, error)
	List(ctx context.Context, filter types.Filter, scope entities.WorkOrderScope) ([]entities.WorkOrder, uint64, error)
	TransitionStatus(ctx context.Context, id string, to constants.WorkOrderStatus, from []constants.WorkOrderStatus) (*entities.WorkOrder, error)
	Complete(ctx context.Context, id string, from []constants.WorkOrderStatus) (*entities.WorkOrder, error)
	IssueApprovalToken(ctx context.Context, id, token string, from []constants.WorkOrderStatus) (*entities.WorkOrder, error)
	DecideApproval(ctx context.Context, token string, to constants.WorkOrderStatus, reason *string) (*entities.WorkOrder, error)
	StartIfOpen(ctx context.Context, tx pgx.Tx, id string) (bool, error)
}

type WorkOrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkOrderRepositoryInterface {
	return &WorkOrderRepository{storage: storage, logger: logger}
}

func scanWorkOrder(row pgx.Row) (*entities.WorkOrder, error) {
	var wo entities.WorkOrder
	err := row.Scan(
		&wo.ID, &wo.Number, &wo.SiteID, &wo.SiteName, &wo.JobType, &wo.Status, &wo.ScheduledDate,
		&wo.Description, &wo.ApprovalToken, &wo.ApprovedAt, &wo.RejectedAt, &wo.RejectionReason,
		&wo.CompletedAt, &wo.CancelledAt, &wo.CreatedBy, &wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// NextNumber bumps and returns the sequence for prefix. The counter never falls
// behind the highest number already stored under the prefix, so numbers written
// outside the counter are skipped rather than reused.
func (r *WorkOrderRepository) NextNumber(ctx context.Context, tx pgx.Tx, prefix string) (int, error) {
	query := `
		WITH existing AS (
			SELECT COALESCE(MAX(SUBSTRING(number FROM 7)::int), 0) AS max_seq
			FROM work_orders
			WHERE number ~ ('^' || $1::text || '[0-9]{4,}$')
		)
		INSERT INTO work_order_counters (prefix, last_seq)
		SELECT $1, max_seq + 1 FROM existing
		ON CONFLICT (prefix) DO UPDATE
			SET last_seq = GREATEST(work_order_counters.last_seq, EXCLUDED.last_seq - 1) + 1
		RETURNING last_seq`
	var seq int
	if err := tx.QueryRow(ctx, query, prefix).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocate work order number: %w", err)
	}
	return seq, nil
}

func (r *WorkOrderRepository) CreateInTx(ctx context.Context, tx pgx.Tx, wo *entities.WorkOrder) error {
	query := `
		INSERT INTO work_orders (id, number, site_id, job_type, status, scheduled_date, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	err := tx.QueryRow(ctx, query,
		wo.ID, wo.Number, wo.SiteID, wo.JobType, wo.Status, wo.ScheduledDate, wo.Description, wo.CreatedBy,
	).Scan(&wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewInvalidInputError("site does not exist")
		}
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

func (r *WorkOrderRepository) FindByID(ctx context.Context, id string) (*entities.WorkOrder, error) {
	query := "SELECT " + workOrderColumns + " FROM work_orders wo JOIN sites s ON s.id = wo.site_id WHERE wo.id = $1"
	return scanWorkOrder(r.storage.QueryRow(ctx, query, id))
}

func (r *WorkOrderRepository) FindByApprovalToken(ctx context.Context, token string) (*entities.WorkOrder, error) {
	query := "SELECT " + workOrderColumns + " FROM work_orders wo JOIN sites s ON s.id = wo.site_id WHERE wo.approval_token = $1"
	return scanWorkOrder(r.storage.QueryRow(ctx, query, token))
}

func (r *WorkOrderRepository) List(ctx context.Context, filter types.Filter, scope entities.WorkOrderScope) ([]entities.WorkOrder, uint64, error) {
	base := db.Psql.Select().From("work_orders wo JOIN sites s ON s.id = wo.site_id")

	if scope.SiteID != "" {
		base = base.Where(sq.Eq{"wo.site_id": scope.SiteID})
	}
	if scope.TechnicianID != "" {
		base = base.Where(sq.Expr("EXISTS (SELECT 1 FROM job_items ji WHERE ji.work_order_id = wo.id AND ji.technician_id = ?)", scope.TechnicianID))
	}
	if filter.Search != "" {
		base = base.Where(sq.ILike{"wo.number": "%" + filter.Search + "%"})
	}
	if v, ok := filter.Filter["technician_id"].(string); ok && v != "" {
		base = base.Where(sq.Expr("EXISTS (SELECT 1 FROM job_items ji WHERE ji.work_order_id = wo.id AND ji.technician_id = ?)", v))
	}
	if v, ok := filter.Filter["date_from"].(string); ok {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			base = base.Where(sq.GtOrEq{"wo.scheduled_date": d})
		}
	}
	if v, ok := filter.Filter["date_to"].(string); ok {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			base = base.Where(sq.LtOrEq{"wo.scheduled_date": d})
		}
	}
	base = db.ApplyFilters(base, filter, workOrderAllowedFields)

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count work orders: %w", err)
	}
	if total == 0 {
		return []entities.WorkOrder{}, 0, nil
	}

	listSQL, args, err := db.ApplyListParams(base.Columns(workOrderColumns), types.Filter{
		Sort: filter.Sort, Limit: filter.Limit, Offset: filter.Offset, WithPagination: filter.WithPagination,
	}, workOrderAllowedFields, "wo.scheduled_date DESC, wo.created_at DESC").ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.WorkOrder, 0)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan work order: %w", err)
		}
		orders = append(orders, *wo)
	}
	return orders, total, rows.Err()
}

// TransitionStatus moves the work order to `to` only while it is in one of `from`.
func (r *WorkOrderRepository) TransitionStatus(ctx context.Context, id string, to constants.WorkOrderStatus, from []constants.WorkOrderStatus) (*entities.WorkOrder, error) {
	query := `
		UPDATE work_orders wo SET
			status = $2,
			cancelled_at = CASE WHEN $2::text = 'CANCELLED' THEN now() ELSE wo.cancelled_at END,
			updated_at = now()
		FROM sites s
		WHERE s.id = wo.site_id AND wo.id = $1 AND wo.status = ANY($3)
		RETURNING ` + workOrderColumns
	wo, err := scanWorkOrder(r.storage.QueryRow(ctx, query, id, string(to), constants.StatusStrings(from)))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, r.explainRejectedTransition(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update work order status: %w", err)
	}
	return wo, nil
}

// Complete also requires every job item to be finished, checked in the same statement.
func (r *WorkOrderRepository) Complete(ctx context.Context, id string, from []constants.WorkOrderStatus) (*entities.WorkOrder, error) {
	query := `
		UPDATE work_orders wo SET status = 'COMPLETED', completed_at = now(), updated_at = now()
		FROM sites s
		WHERE s.id = wo.site_id AND wo.id = $1 AND wo.status = ANY($2)
		  AND NOT EXISTS (
			SELECT 1 FROM job_items ji
			WHERE ji.work_order_id = wo.id AND ji.status <> ALL($3)
		  )
		RETURNING ` + workOrderColumns
	finished := []string{string(constants.JobItemDone), string(constants.JobItemIssueFound)}
	wo, err := scanWorkOrder(r.storage.QueryRow(ctx, query, id, constants.StatusStrings(from), finished))
	if err == nil {
		return wo, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("complete work order: %w", err)
	}

	var status constants.WorkOrderStatus
	if err := r.storage.QueryRow(ctx, `SELECT status FROM work_orders WHERE id = $1`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("load work order status: %w", err)
	}
	for _, f := range from {
		if f == status {
			return nil, apperrors.ErrJobItemsIncomplete
		}
	}
	return nil, apperrors.ErrInvalidStatusTransition
}

func (r *WorkOrderRepository) IssueApprovalToken(ctx context.Context, id, token string, from []constants.WorkOrderStatus) (*entities.WorkOrder, error) {
	query := `
		UPDATE work_orders wo SET
			approval_token = $2,
			status = 'WAITING_APPROVAL',
			approved_at = NULL,
			rejected_at = NULL,
			rejection_reason = NULL,
			updated_at = now()
		FROM sites s
		WHERE s.id = wo.site_id AND wo.id = $1 AND wo.status = ANY($3)
		RETURNING ` + workOrderColumns
	wo, err := scanWorkOrder(r.storage.QueryRow(ctx, query, id, token, constants.StatusStrings(from)))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, r.explainRejectedTransition(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store approval token: %w", err)
	}
	return wo, nil
}

// DecideApproval records the outcome in a single conditional update so that two
// concurrent decisions on one token cannot both succeed.
func (r *WorkOrderRepository) DecideApproval(ctx context.Context, token string, to constants.WorkOrderStatus, reason *string) (*entities.WorkOrder, error) {
	query := `
		UPDATE work_orders wo SET
			status = $2,
			approved_at = CASE WHEN $2::text = 'APPROVED' THEN now() ELSE NULL END,
			rejected_at = CASE WHEN $2::text = 'REJECTED' THEN now() ELSE NULL END,
			rejection_reason = $3,
			updated_at = now()
		FROM sites s
		WHERE s.id = wo.site_id AND wo.approval_token = $1 AND wo.status = 'WAITING_APPROVAL'
		RETURNING ` + workOrderColumns
	wo, err := scanWorkOrder(r.storage.QueryRow(ctx, query, token, string(to), reason))
	if err == nil {
		return wo, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("store approval decision: %w", err)
	}

	exists, err := rowExists(ctx, r.storage, `SELECT 1 FROM work_orders WHERE approval_token = $1`, token)
	if err != nil {
		return nil, fmt.Errorf("lookup approval token: %w", err)
	}
	if exists {
		return nil, apperrors.ErrApprovalAlreadyProcessed
	}
	return nil, apperrors.ErrApprovalNotFound
}

func (r *WorkOrderRepository) StartIfOpen(ctx context.Context, tx pgx.Tx, id string) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE work_orders SET status = 'IN_PROGRESS', updated_at = now() WHERE id = $1 AND status = 'OPEN'`, id)
	if err != nil {
		return false, fmt.Errorf("start work order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *WorkOrderRepository) explainRejectedTransition(ctx context.Context, id string) error {
	exists, err := rowExists(ctx, r.storage, `SELECT 1 FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("lookup work order: %w", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrInvalidStatusTransition
}
