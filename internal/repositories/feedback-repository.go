package repositories

import (
	"context"
	"fmt"

	"hvac-service/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type FeedbackRepositoryInterface interface {
	Exists(ctx context.Context, workOrderID, userID string) (bool, error)
	Create(ctx context.Context, f *entities.Feedback) error
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.Feedback, error)
}

type FeedbackRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewFeedbackRepository(storage *pgxpool.Pool, logger *zap.Logger) FeedbackRepositoryInterface {
	return &FeedbackRepository{storage: storage, logger: logger}
}

func (r *FeedbackRepository) Exists(ctx context.Context, workOrderID, userID string) (bool, error) {
	exists, err := rowExists(ctx, r.storage,
		`SELECT 1 FROM feedbacks WHERE work_order_id = $1 AND user_id = $2`, workOrderID, userID)
	if err != nil {
		return false, fmt.Errorf("check feedback: %w", err)
	}
	return exists, nil
}

func (r *FeedbackRepository) Create(ctx context.Context, f *entities.Feedback) error {
	err := r.storage.QueryRow(ctx, `
		INSERT INTO feedbacks (id, work_order_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		f.ID, f.WorkOrderID, f.UserID, f.Rating, f.Comment,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.Feedback, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT f.id, f.work_order_id, f.user_id, u.full_name, f.rating, f.comment, f.created_at
		FROM feedbacks f JOIN users u ON u.id = f.user_id
		WHERE f.work_order_id = $1
		ORDER BY f.created_at`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Feedback, error) {
		var f entities.Feedback
		err := row.Scan(&f.ID, &f.WorkOrderID, &f.UserID, &f.UserName, &f.Rating, &f.Comment, &f.CreatedAt)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	return list, nil
}
