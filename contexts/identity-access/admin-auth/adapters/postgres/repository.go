package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lanvote/contexts/identity-access/admin-auth/domain/entities"
	domainerrors "lanvote/contexts/identity-access/admin-auth/domain/errors"
	"lanvote/contexts/identity-access/admin-auth/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const adminUsersDDL = `CREATE TABLE IF NOT EXISTS admin_users (
	username      VARCHAR(64) PRIMARY KEY,
	password_hash VARCHAR(255) NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
)`

// Migrate creates the admin_users table when it is missing.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec(adminUsersDDL).Error // gorm-postgres-enforcer: allow-raw-sql schema DDL
}

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetAdmin(ctx context.Context, username string) (entities.AdminUser, error) {
	var row adminUserModel
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AdminUser{}, domainerrors.ErrAdminNotFound
		}
		return entities.AdminUser{}, r.logError("admin_repo_get_failed", err, "username", username)
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateAdminIfAbsent(ctx context.Context, admin entities.AdminUser) (bool, error) {
	row := adminUserModel{
		Username:     admin.Username,
		PasswordHash: admin.PasswordHash,
		CreatedAt:    admin.CreatedAt.UTC(),
		UpdatedAt:    admin.UpdatedAt.UTC(),
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, r.logError("admin_repo_create_failed", result.Error, "username", admin.Username)
	}
	return result.RowsAffected == 1, nil
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, username string, passwordHash string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&adminUserModel{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("admin_repo_update_password_failed", result.Error, "username", username)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAdminNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "identity-access/admin-auth",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("admin repository operation failed", fields...)
	return err
}

type adminUserModel struct {
	Username     string    `gorm:"column:username;primaryKey"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (adminUserModel) TableName() string {
	return "admin_users"
}

func (m adminUserModel) toEntity() entities.AdminUser {
	return entities.AdminUser{
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

var _ ports.AdminRepository = (*Repository)(nil)
