package repositories

import (
	"context"
	"errors"
	"fmt"

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

const userSelectFields = "u.id, u.username, u.password_hash, u.full_name, u.email, u.phone, u.role, u.client_id, u.site_id, u.line_user_id, u.is_active, u.created_at, u.updated_at"

var userAllowedFields = map[string]string{
	"role":       "u.role",
	"client_id":  "u.client_id",
	"site_id":    "u.site_id",
	"is_active":  "u.is_active",
	"username":   "u.username",
	"full_name":  "u.full_name",
	"created_at": "u.created_at",
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) error
	List(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	SetActive(ctx context.Context, id string, active bool) error
	ListActiveByRole(ctx context.Context, role constants.Role) ([]entities.User, error)
	ListClientsBySite(ctx context.Context, siteID string) ([]entities.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]entities.User, error)
	LinkLineUser(ctx context.Context, tx pgx.Tx, username, lineUserID string) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Phone, &u.Role,
		&u.ClientID, &u.SiteID, &u.LineUserID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]entities.User, error) {
	defer rows.Close()
	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	query := "SELECT " + userSelectFields + " FROM users u WHERE u.id = $1"
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := "SELECT " + userSelectFields + " FROM users u WHERE lower(u.username) = lower($1)"
	return scanUser(r.storage.QueryRow(ctx, query, username))
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, full_name, email, phone, role, client_id, site_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`
	err := r.storage.QueryRow(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.FullName, user.Email, user.Phone,
		user.Role, user.ClientID, user.SiteID, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return apperrors.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewInvalidInputError("client or site does not exist")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	base := db.Psql.Select().From("users u")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where(sq.Or{sq.ILike{"u.username": like}, sq.ILike{"u.full_name": like}})
	}
	base = db.ApplyFilters(base, filter, userAllowedFields)

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	listSQL, args, err := db.ApplyListParams(base.Columns(userSelectFields), types.Filter{
		Sort: filter.Sort, Limit: filter.Limit, Offset: filter.Offset, WithPagination: filter.WithPagination,
	}, userAllowedFields, "u.created_at DESC").ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.storage.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListActiveByRole(ctx context.Context, role constants.Role) ([]entities.User, error) {
	query := "SELECT " + userSelectFields + " FROM users u WHERE u.role = $1 AND u.is_active ORDER BY u.created_at"
	rows, err := r.storage.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) ListClientsBySite(ctx context.Context, siteID string) ([]entities.User, error) {
	query := "SELECT " + userSelectFields + " FROM users u WHERE u.role = $1 AND u.site_id = $2 AND u.is_active ORDER BY u.created_at"
	rows, err := r.storage.Query(ctx, query, constants.RoleClient, siteID)
	if err != nil {
		return nil, fmt.Errorf("list site clients: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]entities.User, error) {
	if len(ids) == 0 {
		return []entities.User{}, nil
	}
	query := "SELECT " + userSelectFields + " FROM users u WHERE u.id = ANY($1) AND u.is_active"
	rows, err := r.storage.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list users by id: %w", err)
	}
	return collectUsers(rows)
}

// LinkLineUser moves lineUserID onto the active user named username. Any other
// account that held the same LINE identity is unlinked first.
func (r *UserRepository) LinkLineUser(ctx context.Context, tx pgx.Tx, username, lineUserID string) (*entities.User, error) {
	if _, err := tx.Exec(ctx,
		`UPDATE users SET line_user_id = NULL, updated_at = now() WHERE line_user_id = $1 AND lower(username) <> lower($2)`,
		lineUserID, username,
	); err != nil {
		return nil, fmt.Errorf("unlink previous line user: %w", err)
	}

	query := `
		UPDATE users u SET line_user_id = $2, updated_at = now()
		WHERE lower(u.username) = lower($1) AND u.is_active
		RETURNING ` + userSelectFields
	return scanUser(tx.QueryRow(ctx, query, username, lineUserID))
}
