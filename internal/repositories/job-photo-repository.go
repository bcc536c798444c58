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

type JobPhotoRepositoryInterface interface {
	Create(ctx context.Context, photo *entities.JobPhoto) error
	ListByJobItem(ctx context.Context, jobItemID string) ([]entities.JobPhoto, error)
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.JobPhoto, error)
}

type JobPhotoRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewJobPhotoRepository(storage *pgxpool.Pool, logger *zap.Logger) JobPhotoRepositoryInterface {
	return &JobPhotoRepository{storage: storage, logger: logger}
}

func (r *JobPhotoRepository) Create(ctx context.Context, p *entities.JobPhoto) error {
	err := r.storage.QueryRow(ctx, `
		INSERT INTO job_photos (id, job_item_id, photo_type, url, file_path, caption, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		p.ID, p.JobItemID, p.PhotoType, p.URL, p.FilePath, p.Caption, p.UploadedBy,
	).Scan(&p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("insert job photo: %w", err)
	}
	return nil
}

func (r *JobPhotoRepository) ListByJobItem(ctx context.Context, jobItemID string) ([]entities.JobPhoto, error) {
	return r.list(ctx, `
		SELECT id, job_item_id, photo_type, url, file_path, caption, uploaded_by, created_at
		FROM job_photos WHERE job_item_id = $1 ORDER BY created_at`, jobItemID)
}

func (r *JobPhotoRepository) ListByWorkOrder(ctx context.Context, workOrderID string) ([]entities.JobPhoto, error) {
	return r.list(ctx, `
		SELECT p.id, p.job_item_id, p.photo_type, p.url, p.file_path, p.caption, p.uploaded_by, p.created_at
		FROM job_photos p JOIN job_items ji ON ji.id = p.job_item_id
		WHERE ji.work_order_id = $1 ORDER BY p.created_at`, workOrderID)
}

func (r *JobPhotoRepository) list(ctx context.Context, query string, arg string) ([]entities.JobPhoto, error) {
	rows, err := r.storage.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list job photos: %w", err)
	}
	photos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.JobPhoto, error) {
		var p entities.JobPhoto
		err := row.Scan(&p.ID, &p.JobItemID, &p.PhotoType, &p.URL, &p.FilePath, &p.Caption, &p.UploadedBy, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan job photos: %w", err)
	}
	return photos, nil
}
