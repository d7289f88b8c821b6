package producer

import (
	"time"

	"mon-panier-local/internal/geo"
)

// Fixed agricultural categories a producer can declare.
const (
	CategoryMaraichage    = "maraîchage"
	CategoryElevage       = "élevage"
	CategoryApiculture    = "apiculture"
	CategoryArboriculture = "arboriculture"
	CategoryCerealiculture = "céréaliculture"
	CategoryPeche         = "pêche"
	CategoryBrasserie     = "brasserie"
	CategoryDistillerie   = "distillerie"
	CategoryFromagerie    = "fromagerie"
	CategoryBoulangerie   = "boulangerie"
	CategoryViticulture   = "viticulture"
	CategoryCharcuterie   = "charcuterie"
	CategoryAutre         = "autre"
)

var categories = map[string]struct{}{
	CategoryMaraichage:     {},
	CategoryElevage:        {},
	CategoryApiculture:     {},
	CategoryArboriculture:  {},
	CategoryCerealiculture: {},
	CategoryPeche:          {},
	CategoryBrasserie:      {},
	CategoryDistillerie:    {},
	CategoryFromagerie:     {},
	CategoryBoulangerie:    {},
	CategoryViticulture:    {},
	CategoryCharcuterie:    {},
	CategoryAutre:          {},
}

func ValidCategory(category string) bool {
	_, ok := categories[category]
	return ok
}

// Sale mode kinds.
const (
	ModeOnSite         = "on_site"
	ModePhoneOrder     = "phone_order"
	ModeVendingMachine = "vending_machine"
	ModeDelivery       = "delivery"
	ModeMarket         = "market"
)

var modeTypes = map[string]struct{}{
	ModeOnSite:         {},
	ModePhoneOrder:     {},
	ModeVendingMachine: {},
	ModeDelivery:       {},
	ModeMarket:         {},
}

func ValidModeType(modeType string) bool {
	_, ok := modeTypes[modeType]
	return ok
}

type Producer struct {
	ID               string  `gorm:"type:uuid;primaryKey"`
	UserID           string  `gorm:"type:uuid;uniqueIndex;not null"`
	Name             string  `gorm:"size:200;not null"`
	Description      string  `gorm:"size:2000"`
	Category         string  `gorm:"size:50;index;not null;default:autre"`
	Address          string  `gorm:"size:500;not null"`
	Latitude         float64 `gorm:"type:numeric(10,7);index;not null"`
	Longitude        float64 `gorm:"type:numeric(11,7);index;not null"`
	Phone            string  `gorm:"size:20"`
	ContactEmail     string
	Website          string
	OpeningHoursText string    `gorm:"size:500"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	Photos    []Photo    `gorm:"foreignKey:ProducerID;constraint:OnDelete:CASCADE"`
	SaleModes []SaleMode `gorm:"foreignKey:ProducerID;constraint:OnDelete:CASCADE"`
}

func (Producer) TableName() string { return "producers" }

func (p Producer) Position() geo.Point {
	return geo.Point{Lat: p.Latitude, Lon: p.Longitude}
}

type Photo struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ProducerID string    `gorm:"type:uuid;index;not null"`
	ImagePath  string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (Photo) TableName() string { return "producer_photos" }

type SaleMode struct {
	ID                string   `gorm:"type:uuid;primaryKey"`
	ProducerID        string   `gorm:"type:uuid;index;not null"`
	ModeType          string   `gorm:"size:50;not null"`
	Title             string   `gorm:"size:200;not null"`
	Instructions      string   `gorm:"size:500"`
	PhoneNumber       string   `gorm:"size:20"`
	WebsiteURL        string
	Is247             bool     `gorm:"column:is_24_7;not null;default:false"`
	LocationAddress   string   `gorm:"size:500"`
	LocationLatitude  *float64 `gorm:"type:numeric(10,7)"`
	LocationLongitude *float64 `gorm:"type:numeric(11,7)"`
	MarketInfo        string   `gorm:"size:1000"`
	DisplayOrder      int      `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`

	OpeningHours []OpeningHour `gorm:"foreignKey:SaleModeID;constraint:OnDelete:CASCADE"`
}

func (SaleMode) TableName() string { return "sale_modes" }

// OpeningHour covers one day of week for a sale mode; one row per
// (sale mode, day) pair. Times use "15:04" strings and are nil when the day
// is closed.
type OpeningHour struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	SaleModeID string  `gorm:"type:uuid;index:idx_opening_hours_mode_day,unique;not null"`
	DayOfWeek  int     `gorm:"index:idx_opening_hours_mode_day,unique;not null"`
	IsClosed   bool    `gorm:"not null;default:false"`
	OpensAt    *string `gorm:"size:5"`
	ClosesAt   *string `gorm:"size:5"`
}

func (OpeningHour) TableName() string { return "opening_hours" }

type ListFilter struct {
	Category   string
	Categories []string
	Search     string
	Ordering   string
	Limit      int
	Offset     int
}

type NearbyFilter struct {
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
	Categories []string
}

// WithDistance pairs a producer with its exact distance from the search
// center, in kilometers.
type WithDistance struct {
	Producer   Producer
	DistanceKm float64
}

type CreateInput struct {
	UserID           string
	Name             string
	Description      string
	Category         string
	Address          string
	Latitude         float64
	Longitude        float64
	Phone            string
	ContactEmail     string
	Website          string
	OpeningHoursText string
}

type UpdateInput struct {
	ID               string
	Name             string
	Description      string
	Category         string
	Address          string
	Latitude         float64
	Longitude        float64
	Phone            string
	ContactEmail     string
	Website          string
	OpeningHoursText string
}

type OpeningHourInput struct {
	DayOfWeek int
	IsClosed  bool
	OpensAt   *string
	ClosesAt  *string
}

type SaleModeInput struct {
	ModeType          string
	Title             string
	Instructions      string
	PhoneNumber       string
	WebsiteURL        string
	Is247             bool
	LocationAddress   string
	LocationLatitude  *float64
	LocationLongitude *float64
	MarketInfo        string
	DisplayOrder      int
	OpeningHours      []OpeningHourInput
}
