package producer

import (
	"context"

	"mon-panier-local/internal/geo"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	List(ctx context.Context, filter ListFilter) ([]Producer, int64, error)
	// GetByID loads a producer with its photos and sale modes (including
	// opening hours).
	GetByID(ctx context.Context, producerID string) (*Producer, error)
	GetByUserID(ctx context.Context, userID string) (*Producer, error)
	// ListInBox is the index-friendly bounding-box pre-filter of the
	// proximity search; exact distances are computed by the caller.
	ListInBox(ctx context.Context, box geo.Box, categoryFilter []string) ([]Producer, error)
	Create(ctx context.Context, producer *Producer) error
	Update(ctx context.Context, producer *Producer) error
	Delete(ctx context.Context, producerID string) (bool, error)

	CreatePhoto(ctx context.Context, photo *Photo) error
	GetPhotoByID(ctx context.Context, photoID string) (*Photo, error)
	DeletePhoto(ctx context.Context, photoID string) (bool, error)

	ListSaleModes(ctx context.Context, producerID string) ([]SaleMode, error)
	GetSaleModeByID(ctx context.Context, saleModeID string) (*SaleMode, error)
	CreateSaleMode(ctx context.Context, mode *SaleMode) error
	UpdateSaleMode(ctx context.Context, mode *SaleMode) error
	DeleteSaleMode(ctx context.Context, saleModeID string) (bool, error)
	ReplaceOpeningHours(ctx context.Context, saleModeID string, hours []OpeningHour) error
}
