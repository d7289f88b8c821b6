package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"mon-panier-local/internal/cache"
	"mon-panier-local/internal/config"
	producerdomain "mon-panier-local/internal/domain/producer"
	productdomain "mon-panier-local/internal/domain/product"
	userdomain "mon-panier-local/internal/domain/user"
	"mon-panier-local/internal/geo"
	"mon-panier-local/internal/transport/httpserver/middleware"
	"mon-panier-local/pkg/logger"
)

// memStore is an in-memory cache.Store for handler tests. TTLs are
// accepted but never expire within a test run.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return body, nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *memStore) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]byte)
	return nil
}

func (s *memStore) Stats(ctx context.Context) (cache.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cache.Stats{TotalKeys: int64(len(s.entries))}, nil
}

func (s *memStore) keysWithPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			count++
		}
	}
	return count
}

// stubProducerRepo is a map-backed producer repository that counts read
// calls so tests can observe whether the cache absorbed a request.
type stubProducerRepo struct {
	producers map[string]*producerdomain.Producer
	photos    map[string]*producerdomain.Photo
	saleModes map[string]*producerdomain.SaleMode

	listCalls int
	boxCalls  int
	getCalls  int

	// createErr is returned by Create when set, standing in for a
	// database constraint rejection.
	createErr error
}

func newStubProducerRepo() *stubProducerRepo {
	return &stubProducerRepo{
		producers: make(map[string]*producerdomain.Producer),
		photos:    make(map[string]*producerdomain.Photo),
		saleModes: make(map[string]*producerdomain.SaleMode),
	}
}

func (r *stubProducerRepo) Transaction(ctx context.Context, fn func(producerdomain.Repository) error) error {
	return fn(r)
}

func (r *stubProducerRepo) List(ctx context.Context, filter producerdomain.ListFilter) ([]producerdomain.Producer, int64, error) {
	r.listCalls++
	items := make([]producerdomain.Producer, 0, len(r.producers))
	for _, p := range r.producers {
		items = append(items, *p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, int64(len(items)), nil
}

func (r *stubProducerRepo) GetByID(ctx context.Context, producerID string) (*producerdomain.Producer, error) {
	r.getCalls++
	p, ok := r.producers[producerID]
	if !ok {
		return nil, producerdomain.ErrProducerNotFound
	}
	return p, nil
}

func (r *stubProducerRepo) GetByUserID(ctx context.Context, userID string) (*producerdomain.Producer, error) {
	for _, p := range r.producers {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, producerdomain.ErrProducerNotFound
}

func (r *stubProducerRepo) ListInBox(ctx context.Context, box geo.Box, categoryFilter []string) ([]producerdomain.Producer, error) {
	r.boxCalls++
	items := make([]producerdomain.Producer, 0)
	for _, p := range r.producers {
		if box.Contains(p.Latitude, p.Longitude) {
			items = append(items, *p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *stubProducerRepo) Create(ctx context.Context, producer *producerdomain.Producer) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.producers[producer.ID] = producer
	return nil
}

func (r *stubProducerRepo) Update(ctx context.Context, producer *producerdomain.Producer) error {
	r.producers[producer.ID] = producer
	return nil
}

func (r *stubProducerRepo) Delete(ctx context.Context, producerID string) (bool, error) {
	if _, ok := r.producers[producerID]; !ok {
		return false, nil
	}
	delete(r.producers, producerID)
	return true, nil
}

func (r *stubProducerRepo) CreatePhoto(ctx context.Context, photo *producerdomain.Photo) error {
	r.photos[photo.ID] = photo
	return nil
}

func (r *stubProducerRepo) GetPhotoByID(ctx context.Context, photoID string) (*producerdomain.Photo, error) {
	photo, ok := r.photos[photoID]
	if !ok {
		return nil, producerdomain.ErrPhotoNotFound
	}
	return photo, nil
}

func (r *stubProducerRepo) DeletePhoto(ctx context.Context, photoID string) (bool, error) {
	if _, ok := r.photos[photoID]; !ok {
		return false, nil
	}
	delete(r.photos, photoID)
	return true, nil
}

func (r *stubProducerRepo) ListSaleModes(ctx context.Context, producerID string) ([]producerdomain.SaleMode, error) {
	items := make([]producerdomain.SaleMode, 0)
	for _, mode := range r.saleModes {
		if mode.ProducerID == producerID {
			items = append(items, *mode)
		}
	}
	return items, nil
}

func (r *stubProducerRepo) GetSaleModeByID(ctx context.Context, saleModeID string) (*producerdomain.SaleMode, error) {
	mode, ok := r.saleModes[saleModeID]
	if !ok {
		return nil, producerdomain.ErrSaleModeNotFound
	}
	return mode, nil
}

func (r *stubProducerRepo) CreateSaleMode(ctx context.Context, mode *producerdomain.SaleMode) error {
	r.saleModes[mode.ID] = mode
	return nil
}

func (r *stubProducerRepo) UpdateSaleMode(ctx context.Context, mode *producerdomain.SaleMode) error {
	r.saleModes[mode.ID] = mode
	return nil
}

func (r *stubProducerRepo) DeleteSaleMode(ctx context.Context, saleModeID string) (bool, error) {
	if _, ok := r.saleModes[saleModeID]; !ok {
		return false, nil
	}
	delete(r.saleModes, saleModeID)
	return true, nil
}

func (r *stubProducerRepo) ReplaceOpeningHours(ctx context.Context, saleModeID string, hours []producerdomain.OpeningHour) error {
	return nil
}

type stubProductRepo struct {
	products map[string]*productdomain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*productdomain.Product)}
}

func (r *stubProductRepo) ListCategories(ctx context.Context) ([]productdomain.Category, error) {
	return []productdomain.Category{}, nil
}

func (r *stubProductRepo) GetCategoryByID(ctx context.Context, categoryID int64) (*productdomain.Category, error) {
	return nil, productdomain.ErrCategoryNotFound
}

func (r *stubProductRepo) ListByProducer(ctx context.Context, producerID string) ([]productdomain.Product, error) {
	items := make([]productdomain.Product, 0)
	for _, p := range r.products {
		if p.ProducerID == producerID {
			items = append(items, *p)
		}
	}
	return items, nil
}

func (r *stubProductRepo) GetByID(ctx context.Context, productID string) (*productdomain.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, productdomain.ErrProductNotFound
	}
	return p, nil
}

func (r *stubProductRepo) Create(ctx context.Context, product *productdomain.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) Update(ctx context.Context, product *productdomain.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) Delete(ctx context.Context, productID string) (bool, error) {
	if _, ok := r.products[productID]; !ok {
		return false, nil
	}
	delete(r.products, productID)
	return true, nil
}

func (r *stubProductRepo) CreatePhoto(ctx context.Context, photo *productdomain.Photo) error {
	return nil
}

func (r *stubProductRepo) GetPhotoByID(ctx context.Context, photoID string) (*productdomain.Photo, error) {
	return nil, productdomain.ErrPhotoNotFound
}

func (r *stubProductRepo) DeletePhoto(ctx context.Context, photoID string) (bool, error) {
	return false, nil
}

type stubUserRepo struct {
	users map[string]*userdomain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*userdomain.User)}
}

func (r *stubUserRepo) Create(ctx context.Context, user *userdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, userID string) (*userdomain.User, error) {
	account, ok := r.users[userID]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return account, nil
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	for _, account := range r.users {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, userdomain.ErrUserNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, user *userdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Delete(ctx context.Context, userID string) (bool, error) {
	if _, ok := r.users[userID]; !ok {
		return false, nil
	}
	delete(r.users, userID)
	return true, nil
}

func (r *stubUserRepo) CountByEmail(ctx context.Context, email, excludeID string) (int64, error) {
	var count int64
	for _, account := range r.users {
		if account.ID != excludeID && account.Email == email {
			count++
		}
	}
	return count, nil
}

type testEnv struct {
	handlers  *Handlers
	store     *memStore
	producers *stubProducerRepo
	products  *stubProductRepo
	users     *stubUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	producers := newStubProducerRepo()
	products := newStubProductRepo()
	users := newStubUserRepo()
	log := logger.New(io.Discard, slog.LevelError, "text")

	cacheCfg := config.CacheConfig{
		ListTTL:       5 * time.Minute,
		NearbyTTL:     5 * time.Minute,
		DetailTTL:     10 * time.Minute,
		CategoriesTTL: time.Hour,
	}
	nearbyCfg := config.NearbyConfig{DefaultRadiusKm: 50, MaxRadiusKm: 1000}

	handlers := New(
		userdomain.NewService(users, "test-secret", time.Hour),
		producerdomain.NewService(producers, nearbyCfg.MaxRadiusKm),
		productdomain.NewService(products),
		store,
		cacheCfg,
		nearbyCfg,
		log,
	)

	return &testEnv{
		handlers:  handlers,
		store:     store,
		producers: producers,
		products:  products,
		users:     users,
	}
}

func (e *testEnv) addProducer(id, userID string, lat, lon float64) {
	e.producers.producers[id] = &producerdomain.Producer{
		ID:       id,
		UserID:   userID,
		Name:     "Ferme " + id,
		Category: producerdomain.CategoryMaraichage,
		Address:  "1 rue des Champs",
		Latitude: lat, Longitude: lon,
	}
}

func userAccount(id string) *userdomain.User {
	return &userdomain.User{
		ID:           id,
		Email:        id + "@ferme.fr",
		Username:     id,
		PasswordHash: "hashed",
	}
}

func productFixture(id, producerID, name string) *productdomain.Product {
	return &productdomain.Product{
		ID:               id,
		ProducerID:       producerID,
		Name:             name,
		AvailabilityType: productdomain.AvailabilityAllYear,
	}
}

// doRequest runs a handler directly, wiring chi URL params and an
// optional authenticated user into the request context.
func doRequest(h http.HandlerFunc, method, target, userID string, body io.Reader, params map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = middleware.WithUserID(ctx, userID)
	}

	rec := httptest.NewRecorder()
	h(rec, req.WithContext(ctx))
	return rec
}
