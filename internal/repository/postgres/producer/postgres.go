package producer

import (
	"context"
	"errors"

	producerdomain "mon-panier-local/internal/domain/producer"
	"mon-panier-local/internal/geo"
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
		return producerdomain.ErrConflict
	default:
		return err
	}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(producerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, filter producerdomain.ListFilter) ([]producerdomain.Producer, int64, error) {
	query := r.db.WithContext(ctx).Model(&producerdomain.Producer{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR address ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(filter.Ordering)).Preload("Photos")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []producerdomain.Producer
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func orderClause(ordering string) string {
	switch ordering {
	case "name":
		return "name asc"
	case "-name":
		return "name desc"
	case "created_at":
		return "created_at asc"
	default:
		return "created_at desc"
	}
}

func (r *PostgresRepository) GetByID(ctx context.Context, producerID string) (*producerdomain.Producer, error) {
	var profile producerdomain.Producer
	err := r.db.WithContext(ctx).
		Preload("Photos").
		Preload("SaleModes", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order asc, created_at asc")
		}).
		Preload("SaleModes.OpeningHours", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week asc")
		}).
		Where("id = ?", producerID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, producerdomain.ErrProducerNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*producerdomain.Producer, error) {
	var profile producerdomain.Producer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, producerdomain.ErrProducerNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresRepository) ListInBox(ctx context.Context, box geo.Box, categoryFilter []string) ([]producerdomain.Producer, error) {
	query := r.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLon, box.MaxLon)
	if len(categoryFilter) > 0 {
		query = query.Where("category IN ?", categoryFilter)
	}

	var items []producerdomain.Producer
	if err := query.Preload("Photos").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Create(ctx context.Context, profile *producerdomain.Producer) error {
	return translateErr(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, profile *producerdomain.Producer) error {
	err := r.db.WithContext(ctx).
		Model(&producerdomain.Producer{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"name":               profile.Name,
			"description":        profile.Description,
			"category":           profile.Category,
			"address":            profile.Address,
			"latitude":           profile.Latitude,
			"longitude":          profile.Longitude,
			"phone":              profile.Phone,
			"contact_email":      profile.ContactEmail,
			"website":            profile.Website,
			"opening_hours_text": profile.OpeningHoursText,
			"updated_at":         profile.UpdatedAt,
		}).Error
	return translateErr(err)
}

func (r *PostgresRepository) Delete(ctx context.Context, producerID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&producerdomain.Producer{}, "id = ?", producerID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CreatePhoto(ctx context.Context, photo *producerdomain.Photo) error {
	return translateErr(r.db.WithContext(ctx).Create(photo).Error)
}

func (r *PostgresRepository) GetPhotoByID(ctx context.Context, photoID string) (*producerdomain.Photo, error) {
	var photo producerdomain.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", photoID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, producerdomain.ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *PostgresRepository) DeletePhoto(ctx context.Context, photoID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&producerdomain.Photo{}, "id = ?", photoID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListSaleModes(ctx context.Context, producerID string) ([]producerdomain.SaleMode, error) {
	var modes []producerdomain.SaleMode
	err := r.db.WithContext(ctx).
		Preload("OpeningHours", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week asc")
		}).
		Where("producer_id = ?", producerID).
		Order("display_order asc, created_at asc").
		Find(&modes).Error
	if err != nil {
		return nil, err
	}
	return modes, nil
}

func (r *PostgresRepository) GetSaleModeByID(ctx context.Context, saleModeID string) (*producerdomain.SaleMode, error) {
	var mode producerdomain.SaleMode
	err := r.db.WithContext(ctx).
		Preload("OpeningHours", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week asc")
		}).
		Where("id = ?", saleModeID).
		First(&mode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, producerdomain.ErrSaleModeNotFound
		}
		return nil, err
	}
	return &mode, nil
}

func (r *PostgresRepository) CreateSaleMode(ctx context.Context, mode *producerdomain.SaleMode) error {
	return translateErr(r.db.WithContext(ctx).Omit("OpeningHours").Create(mode).Error)
}

func (r *PostgresRepository) UpdateSaleMode(ctx context.Context, mode *producerdomain.SaleMode) error {
	err := r.db.WithContext(ctx).
		Model(&producerdomain.SaleMode{}).
		Where("id = ?", mode.ID).
		Updates(map[string]interface{}{
			"mode_type":          mode.ModeType,
			"title":              mode.Title,
			"instructions":       mode.Instructions,
			"phone_number":       mode.PhoneNumber,
			"website_url":        mode.WebsiteURL,
			"is_24_7":            mode.Is247,
			"location_address":   mode.LocationAddress,
			"location_latitude":  mode.LocationLatitude,
			"location_longitude": mode.LocationLongitude,
			"market_info":        mode.MarketInfo,
			"display_order":      mode.DisplayOrder,
			"updated_at":         mode.UpdatedAt,
		}).Error
	return translateErr(err)
}

func (r *PostgresRepository) DeleteSaleMode(ctx context.Context, saleModeID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&producerdomain.SaleMode{}, "id = ?", saleModeID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ReplaceOpeningHours(ctx context.Context, saleModeID string, hours []producerdomain.OpeningHour) error {
	if err := r.db.WithContext(ctx).Where("sale_mode_id = ?", saleModeID).Delete(&producerdomain.OpeningHour{}).Error; err != nil {
		return err
	}
	if len(hours) == 0 {
		return nil
	}
	return translateErr(r.db.WithContext(ctx).Create(&hours).Error)
}
