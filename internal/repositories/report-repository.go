package repositories

import (
	"context"
	"fmt"
	"time"

	"hvac-service/internal/entities"
	db "hvac-service/internal/infrastructure/bd"
	"hvac-service/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReportRepositoryInterface interface {
	Summary(ctx context.Context, monthStart, monthEnd time.Time) (*entities.ReportSummary, error)
	Rows(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportRow, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{storage: storage, logger: logger}
}

func (r *ReportRepository) Summary(ctx context.Context, monthStart, monthEnd time.Time) (*entities.ReportSummary, error) {
	summary := &entities.ReportSummary{ByStatus: make([]entities.StatusCount, 0)}

	rows, err := r.storage.Query(ctx, `SELECT status, COUNT(*) FROM work_orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("count work orders by status: %w", err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.StatusCount, error) {
		var sc entities.StatusCount
		err := row.Scan(&sc.Status, &sc.Count)
		return sc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan status counts: %w", err)
	}
	for _, c := range counts {
		summary.Total += c.Count
	}
	summary.ByStatus = counts

	err = r.storage.QueryRow(ctx, `SELECT AVG(rating)::float8, COUNT(*) FROM feedbacks`).
		Scan(&summary.AverageRating, &summary.FeedbackCount)
	if err != nil {
		return nil, fmt.Errorf("aggregate feedback: %w", err)
	}

	err = r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM work_orders WHERE status = $1 AND completed_at >= $2 AND completed_at < $3`,
		constants.WorkOrderCompleted, monthStart, monthEnd,
	).Scan(&summary.CompletedThisMonth)
	if err != nil {
		return nil, fmt.Errorf("count completed this month: %w", err)
	}

	return summary, nil
}

func (r *ReportRepository) Rows(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportRow, error) {
	q := db.Psql.Select(
		"wo.id", "wo.number", "c.name", "s.name", "wo.job_type", "wo.status", "wo.scheduled_date",
		"COUNT(ji.id)",
		"COUNT(ji.id) FILTER (WHERE ji.status = 'DONE')",
		"COUNT(ji.id) FILTER (WHERE ji.status = 'ISSUE_FOUND')",
		"wo.completed_at",
		"(SELECT MAX(f.rating) FROM feedbacks f WHERE f.work_order_id = wo.id)",
	).
		From("work_orders wo").
		Join("sites s ON s.id = wo.site_id").
		Join("clients c ON c.id = s.client_id").
		LeftJoin("job_items ji ON ji.work_order_id = wo.id").
		GroupBy("wo.id", "c.name", "s.name").
		OrderBy("wo.scheduled_date", "wo.number")

	if filter.DateFrom != nil {
		q = q.Where(sq.GtOrEq{"wo.scheduled_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(sq.LtOrEq{"wo.scheduled_date": *filter.DateTo})
	}
	if filter.SiteID != "" {
		q = q.Where(sq.Eq{"wo.site_id": filter.SiteID})
	}
	if len(filter.Statuses) > 0 {
		q = q.Where(sq.Eq{"wo.status": constants.StatusStrings(filter.Statuses)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query report rows: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.ReportRow, error) {
		var rr entities.ReportRow
		err := row.Scan(&rr.WorkOrderID, &rr.Number, &rr.ClientName, &rr.SiteName, &rr.JobType, &rr.Status,
			&rr.ScheduledDate, &rr.ItemCount, &rr.DoneCount, &rr.IssueCount, &rr.CompletedAt, &rr.Rating)
		return rr, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan report rows: %w", err)
	}
	return out, nil
}
