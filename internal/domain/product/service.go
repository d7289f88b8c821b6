package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListByProducer(ctx context.Context, producerID string) ([]Product, error) {
	return s.repo.ListByProducer(ctx, producerID)
}

func (s *Service) Get(ctx context.Context, productID string) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	if err := s.validate(ctx, input.Name, input.CategoryID, input.AvailabilityType, input.AvailabilityStartMonth, input.AvailabilityEndMonth); err != nil {
		return nil, err
	}

	item := Product{
		ID:               uuid.New().String(),
		ProducerID:       input.ProducerID,
		CategoryID:       input.CategoryID,
		Name:             strings.TrimSpace(input.Name),
		Description:      strings.TrimSpace(input.Description),
		AvailabilityType: availabilityOrDefault(input.AvailabilityType),
	}
	if item.AvailabilityType == AvailabilityCustom {
		item.AvailabilityStartMonth = input.AvailabilityStartMonth
		item.AvailabilityEndMonth = input.AvailabilityEndMonth
	}

	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Product, error) {
	if err := s.validate(ctx, input.Name, input.CategoryID, input.AvailabilityType, input.AvailabilityStartMonth, input.AvailabilityEndMonth); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	item.CategoryID = input.CategoryID
	item.Name = strings.TrimSpace(input.Name)
	item.Description = strings.TrimSpace(input.Description)
	item.AvailabilityType = availabilityOrDefault(input.AvailabilityType)
	if item.AvailabilityType == AvailabilityCustom {
		item.AvailabilityStartMonth = input.AvailabilityStartMonth
		item.AvailabilityEndMonth = input.AvailabilityEndMonth
	} else {
		item.AvailabilityStartMonth = nil
		item.AvailabilityEndMonth = nil
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	deleted, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProductNotFound
	}
	return nil
}

func (s *Service) AddPhoto(ctx context.Context, productID, imagePath string) (*Photo, error) {
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return nil, fmt.Errorf("image path is required")
	}

	photo := Photo{
		ID:        uuid.New().String(),
		ProductID: productID,
		ImagePath: imagePath,
	}
	if err := s.repo.CreatePhoto(ctx, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (s *Service) GetPhoto(ctx context.Context, photoID string) (*Photo, error) {
	return s.repo.GetPhotoByID(ctx, photoID)
}

func (s *Service) DeletePhoto(ctx context.Context, photoID string) error {
	deleted, err := s.repo.DeletePhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPhotoNotFound
	}
	return nil
}

func (s *Service) validate(ctx context.Context, name string, categoryID *int64, availabilityType string, startMonth, endMonth *int) error {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < 2 || len([]rune(trimmed)) > 200 {
		return ErrInvalidName
	}

	switch availabilityOrDefault(availabilityType) {
	case AvailabilityAllYear:
	case AvailabilityCustom:
		if startMonth == nil || endMonth == nil {
			return fmt.Errorf("%w: start and end months are required for a custom period", ErrInvalidAvailability)
		}
		if *startMonth < 1 || *startMonth > 12 || *endMonth < 1 || *endMonth > 12 {
			return fmt.Errorf("%w: months must be in 1..12", ErrInvalidAvailability)
		}
	default:
		return fmt.Errorf("%w: unknown availability type", ErrInvalidAvailability)
	}

	if categoryID != nil {
		if _, err := s.repo.GetCategoryByID(ctx, *categoryID); err != nil {
			return err
		}
	}
	return nil
}

func availabilityOrDefault(availabilityType string) string {
	if availabilityType == "" {
		return AvailabilityAllYear
	}
	return availabilityType
}
