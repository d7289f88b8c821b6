package user

import (
	"context"
	"errors"

	userdomain "mon-panier-local/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// translateErr folds integrity errors into the domain conflict
// sentinel. Relies on TranslateError in the gorm config.
func translateErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return userdomain.ErrConflict
	default:
		return err
	}
}

func (r *PostgresRepository) Create(ctx context.Context, account *userdomain.User) error {
	return translateErr(r.db.WithContext(ctx).Create(account).Error)
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*userdomain.User, error) {
	var account userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var account userdomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) Update(ctx context.Context, account *userdomain.User) error {
	err := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"email":         account.Email,
			"username":      account.Username,
			"password_hash": account.PasswordHash,
			"is_producer":   account.IsProducer,
		}).Error
	return translateErr(err)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&userdomain.User{}, "id = ?", userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountByEmail(ctx context.Context, email, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&userdomain.User{}).Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
