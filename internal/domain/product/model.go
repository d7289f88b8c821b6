package product

import "time"

// Availability kinds.
const (
	AvailabilityAllYear = "all_year"
	AvailabilityCustom  = "custom"
)

// Category is the fixed product lookup table, seeded by migration and
// read-only over the API.
type Category struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:50;uniqueIndex;not null"`
	Icon         string `gorm:"size:100;not null"`
	DisplayName  string `gorm:"size:100;not null"`
	DisplayOrder int    `gorm:"not null;default:0"`
}

func (Category) TableName() string { return "product_categories" }

type Product struct {
	ID                     string `gorm:"type:uuid;primaryKey"`
	ProducerID             string `gorm:"type:uuid;index;not null"`
	CategoryID             *int64 `gorm:"index"`
	Name                   string `gorm:"size:200;not null"`
	Description            string `gorm:"size:1000"`
	AvailabilityType       string `gorm:"size:20;not null;default:all_year"`
	AvailabilityStartMonth *int
	AvailabilityEndMonth   *int
	CreatedAt              time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`

	Photos []Photo `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

type Photo struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProductID string    `gorm:"type:uuid;index;not null"`
	ImagePath string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Photo) TableName() string { return "product_photos" }

type CreateInput struct {
	ProducerID             string
	CategoryID             *int64
	Name                   string
	Description            string
	AvailabilityType       string
	AvailabilityStartMonth *int
	AvailabilityEndMonth   *int
}

type UpdateInput struct {
	ID                     string
	CategoryID             *int64
	Name                   string
	Description            string
	AvailabilityType       string
	AvailabilityStartMonth *int
	AvailabilityEndMonth   *int
}
