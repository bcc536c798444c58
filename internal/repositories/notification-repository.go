package repositories

import (
	"context"
	"fmt"

	"hvac-service/internal/entities"
	apperrors "hvac-service/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entities.Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]entities.Notification, uint64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type NotificationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNotificationRepository(storage *pgxpool.Pool, logger *zap.Logger) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage, logger: logger}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	err := r.storage.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, related_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_read, created_at`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.RelatedID,
	).Scan(&n.IsRead, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]entities.Notification, uint64, error) {
	where := `WHERE user_id = $1 AND ($2 = false OR is_read = false)`

	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM notifications `+where, userID, unreadOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := r.storage.Query(ctx, `
		SELECT id, user_id, type, title, message, related_id, is_read, created_at
		FROM notifications `+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Notification, error) {
		var n entities.Notification
		err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.RelatedID, &n.IsRead, &n.CreatedAt)
		return n, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan notifications: %w", err)
	}
	return list, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.storage.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
