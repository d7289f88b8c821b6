package product

import "context"

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByID(ctx context.Context, categoryID int64) (*Category, error)

	ListByProducer(ctx context.Context, producerID string) ([]Product, error)
	// GetByID loads a product with its photos.
	GetByID(ctx context.Context, productID string) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, productID string) (bool, error)

	CreatePhoto(ctx context.Context, photo *Photo) error
	GetPhotoByID(ctx context.Context, photoID string) (*Photo, error)
	DeletePhoto(ctx context.Context, photoID string) (bool, error)
}
