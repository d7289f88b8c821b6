package product

import (
	"context"
	"errors"

	productdomain "mon-panier-local/internal/domain/product"
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
		return productdomain.ErrConflict
	default:
		return err
	}
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]productdomain.Category, error) {
	var categories []productdomain.Category
	if err := r.db.WithContext(ctx).Order("display_order asc, name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, categoryID int64) (*productdomain.Category, error) {
	var category productdomain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, productdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) ListByProducer(ctx context.Context, producerID string) ([]productdomain.Product, error) {
	var items []productdomain.Product
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Where("producer_id = ?", producerID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, productID string) (*productdomain.Product, error) {
	var item productdomain.Product
	if err := r.db.WithContext(ctx).Preload("Photos").Where("id = ?", productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, productdomain.ErrProductNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *productdomain.Product) error {
	return translateErr(r.db.WithContext(ctx).Create(item).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, item *productdomain.Product) error {
	err := r.db.WithContext(ctx).
		Model(&productdomain.Product{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"category_id":              item.CategoryID,
			"name":                     item.Name,
			"description":              item.Description,
			"availability_type":        item.AvailabilityType,
			"availability_start_month": item.AvailabilityStartMonth,
			"availability_end_month":   item.AvailabilityEndMonth,
			"updated_at":               item.UpdatedAt,
		}).Error
	return translateErr(err)
}

func (r *PostgresRepository) Delete(ctx context.Context, productID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&productdomain.Product{}, "id = ?", productID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CreatePhoto(ctx context.Context, photo *productdomain.Photo) error {
	return translateErr(r.db.WithContext(ctx).Create(photo).Error)
}

func (r *PostgresRepository) GetPhotoByID(ctx context.Context, photoID string) (*productdomain.Photo, error) {
	var photo productdomain.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", photoID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, productdomain.ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *PostgresRepository) DeletePhoto(ctx context.Context, photoID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&productdomain.Photo{}, "id = ?", photoID)
	return result.RowsAffected > 0, result.Error
}
