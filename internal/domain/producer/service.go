package producer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"mon-panier-local/internal/geo"
)

type Service struct {
	repo        Repository
	maxRadiusKm float64
}

func NewService(repo Repository, maxRadiusKm float64) *Service {
	return &Service{repo: repo, maxRadiusKm: maxRadiusKm}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Producer, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, producerID string) (*Producer, error) {
	return s.repo.GetByID(ctx, producerID)
}

func (s *Service) GetByUser(ctx context.Context, userID string) (*Producer, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Nearby returns the producers within the radius, nearest first. The
// bounding-box pass runs as an indexed range query; exact Haversine
// distances are computed and sorted here. Callers paginate afterwards so
// nearest-first ordering survives.
func (s *Service) Nearby(ctx context.Context, filter NearbyFilter) ([]WithDistance, error) {
	if err := validateCoordinates(filter.Latitude, filter.Longitude); err != nil {
		return nil, err
	}
	if filter.RadiusKm <= 0 || filter.RadiusKm > s.maxRadiusKm {
		return nil, ErrInvalidRadius
	}

	center := geo.Point{Lat: filter.Latitude, Lon: filter.Longitude}
	box := geo.BoundingBox(center, filter.RadiusKm)

	candidates, err := s.repo.ListInBox(ctx, box, filter.Categories)
	if err != nil {
		return nil, err
	}

	matches := geo.Nearby(center, filter.RadiusKm, candidates)
	result := make([]WithDistance, 0, len(matches))
	for _, match := range matches {
		result = append(result, WithDistance{Producer: match.Item, DistanceKm: match.DistanceKm})
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Producer, error) {
	if err := validateProfile(input.Name, input.Category, input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByUserID(ctx, input.UserID)
	if err == nil {
		return nil, ErrProfileExists
	}
	if !errors.Is(err, ErrProducerNotFound) {
		return nil, err
	}

	profile := Producer{
		ID:               uuid.New().String(),
		UserID:           input.UserID,
		Name:             strings.TrimSpace(input.Name),
		Description:      strings.TrimSpace(input.Description),
		Category:         input.Category,
		Address:          strings.TrimSpace(input.Address),
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
		Phone:            strings.TrimSpace(input.Phone),
		ContactEmail:     strings.TrimSpace(input.ContactEmail),
		Website:          strings.TrimSpace(input.Website),
		OpeningHoursText: strings.TrimSpace(input.OpeningHoursText),
	}

	if err := s.repo.Create(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Producer, error) {
	if err := validateProfile(input.Name, input.Category, input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	profile.Name = strings.TrimSpace(input.Name)
	profile.Description = strings.TrimSpace(input.Description)
	profile.Category = input.Category
	profile.Address = strings.TrimSpace(input.Address)
	profile.Latitude = input.Latitude
	profile.Longitude = input.Longitude
	profile.Phone = strings.TrimSpace(input.Phone)
	profile.ContactEmail = strings.TrimSpace(input.ContactEmail)
	profile.Website = strings.TrimSpace(input.Website)
	profile.OpeningHoursText = strings.TrimSpace(input.OpeningHoursText)
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) Delete(ctx context.Context, producerID string) error {
	deleted, err := s.repo.Delete(ctx, producerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProducerNotFound
	}
	return nil
}

func (s *Service) AddPhoto(ctx context.Context, producerID, imagePath string) (*Photo, error) {
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return nil, fmt.Errorf("image path is required")
	}

	photo := Photo{
		ID:         uuid.New().String(),
		ProducerID: producerID,
		ImagePath:  imagePath,
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

func (s *Service) ListSaleModes(ctx context.Context, producerID string) ([]SaleMode, error) {
	return s.repo.ListSaleModes(ctx, producerID)
}

func (s *Service) GetSaleMode(ctx context.Context, saleModeID string) (*SaleMode, error) {
	return s.repo.GetSaleModeByID(ctx, saleModeID)
}

func (s *Service) CreateSaleMode(ctx context.Context, producerID string, input SaleModeInput) (*SaleMode, error) {
	if err := validateSaleMode(input); err != nil {
		return nil, err
	}
	hours, err := buildOpeningHours(input.OpeningHours)
	if err != nil {
		return nil, err
	}

	mode := SaleMode{
		ID:                uuid.New().String(),
		ProducerID:        producerID,
		ModeType:          input.ModeType,
		Title:             strings.TrimSpace(input.Title),
		Instructions:      strings.TrimSpace(input.Instructions),
		PhoneNumber:       strings.TrimSpace(input.PhoneNumber),
		WebsiteURL:        strings.TrimSpace(input.WebsiteURL),
		Is247:             input.Is247,
		LocationAddress:   strings.TrimSpace(input.LocationAddress),
		LocationLatitude:  input.LocationLatitude,
		LocationLongitude: input.LocationLongitude,
		MarketInfo:        strings.TrimSpace(input.MarketInfo),
		DisplayOrder:      input.DisplayOrder,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateSaleMode(ctx, &mode); err != nil {
			return err
		}
		return tx.ReplaceOpeningHours(ctx, mode.ID, withSaleModeID(mode.ID, hours))
	})
	if err != nil {
		return nil, err
	}

	mode.OpeningHours = withSaleModeID(mode.ID, hours)
	return &mode, nil
}

func (s *Service) UpdateSaleMode(ctx context.Context, saleModeID string, input SaleModeInput) (*SaleMode, error) {
	if err := validateSaleMode(input); err != nil {
		return nil, err
	}
	hours, err := buildOpeningHours(input.OpeningHours)
	if err != nil {
		return nil, err
	}

	var updated SaleMode
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		mode, err := tx.GetSaleModeByID(ctx, saleModeID)
		if err != nil {
			return err
		}

		mode.ModeType = input.ModeType
		mode.Title = strings.TrimSpace(input.Title)
		mode.Instructions = strings.TrimSpace(input.Instructions)
		mode.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
		mode.WebsiteURL = strings.TrimSpace(input.WebsiteURL)
		mode.Is247 = input.Is247
		mode.LocationAddress = strings.TrimSpace(input.LocationAddress)
		mode.LocationLatitude = input.LocationLatitude
		mode.LocationLongitude = input.LocationLongitude
		mode.MarketInfo = strings.TrimSpace(input.MarketInfo)
		mode.DisplayOrder = input.DisplayOrder
		mode.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateSaleMode(ctx, mode); err != nil {
			return err
		}
		if err := tx.ReplaceOpeningHours(ctx, mode.ID, withSaleModeID(mode.ID, hours)); err != nil {
			return err
		}

		mode.OpeningHours = withSaleModeID(mode.ID, hours)
		updated = *mode
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) DeleteSaleMode(ctx context.Context, saleModeID string) error {
	deleted, err := s.repo.DeleteSaleMode(ctx, saleModeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSaleModeNotFound
	}
	return nil
}

func validateProfile(name, category string, latitude, longitude float64) error {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < 2 || len([]rune(trimmed)) > 200 {
		return ErrInvalidName
	}
	if !ValidCategory(category) {
		return ErrInvalidCategory
	}
	return validateCoordinates(latitude, longitude)
}

func validateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

func validateSaleMode(input SaleModeInput) error {
	if !ValidModeType(input.ModeType) {
		return ErrInvalidModeType
	}
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if input.ModeType == ModePhoneOrder && strings.TrimSpace(input.PhoneNumber) == "" {
		return ErrPhoneRequired
	}
	if input.LocationLatitude != nil && input.LocationLongitude != nil {
		if err := validateCoordinates(*input.LocationLatitude, *input.LocationLongitude); err != nil {
			return err
		}
	}
	return nil
}

func buildOpeningHours(inputs []OpeningHourInput) ([]OpeningHour, error) {
	seen := make(map[int]struct{}, len(inputs))
	hours := make([]OpeningHour, 0, len(inputs))

	for _, input := range inputs {
		if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: day of week must be 0..6", ErrInvalidOpeningHours)
		}
		if _, ok := seen[input.DayOfWeek]; ok {
			return nil, fmt.Errorf("%w: duplicate day %d", ErrInvalidOpeningHours, input.DayOfWeek)
		}
		seen[input.DayOfWeek] = struct{}{}

		entry := OpeningHour{
			ID:        uuid.New().String(),
			DayOfWeek: input.DayOfWeek,
			IsClosed:  input.IsClosed,
		}

		if !input.IsClosed {
			if input.OpensAt == nil || input.ClosesAt == nil {
				return nil, fmt.Errorf("%w: opening and closing times are required when the day is open", ErrInvalidOpeningHours)
			}
			opens, err := time.Parse("15:04", *input.OpensAt)
			if err != nil {
				return nil, fmt.Errorf("%w: bad opening time %q", ErrInvalidOpeningHours, *input.OpensAt)
			}
			closes, err := time.Parse("15:04", *input.ClosesAt)
			if err != nil {
				return nil, fmt.Errorf("%w: bad closing time %q", ErrInvalidOpeningHours, *input.ClosesAt)
			}
			if !opens.Before(closes) {
				return nil, fmt.Errorf("%w: opening time must be before closing time", ErrInvalidOpeningHours)
			}
			entry.OpensAt = input.OpensAt
			entry.ClosesAt = input.ClosesAt
		}

		hours = append(hours, entry)
	}

	return hours, nil
}

func withSaleModeID(saleModeID string, hours []OpeningHour) []OpeningHour {
	result := make([]OpeningHour, len(hours))
	for i, hour := range hours {
		hour.SaleModeID = saleModeID
		result[i] = hour
	}
	return result
}
