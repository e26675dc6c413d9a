// Package testsupport provides in-memory fakes shared by unit tests.
package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
)

// FakeCustomerRepository is a map-backed CustomerRepository. Error
// fields, when set, are returned by the matching method so tests can
// exercise failure paths.
type FakeCustomerRepository struct {
	mu        sync.Mutex
	customers map[uint]*domain.Customer
	favorites map[uint][]domain.Favorite
	nextID    uint

	CreateErr error
	FindErr   error
	DeleteErr error
}

// NewFakeCustomerRepository creates an empty fake repository
func NewFakeCustomerRepository() *FakeCustomerRepository {
	return &FakeCustomerRepository{
		customers: make(map[uint]*domain.Customer),
		favorites: make(map[uint][]domain.Favorite),
		nextID:    1,
	}
}

func (r *FakeCustomerRepository) Create(customer *domain.Customer) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Email == customer.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	customer.ID = r.nextID
	r.nextID++
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *FakeCustomerRepository) FindByID(id uint) (*domain.Customer, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *FakeCustomerRepository) FindByEmail(email string) (*domain.Customer, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (r *FakeCustomerRepository) FindAll() ([]domain.Customer, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Customer, 0, len(r.customers))
	for id := uint(1); id < r.nextID; id++ {
		if c, ok := r.customers[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *FakeCustomerRepository) Delete(id uint) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.customers, id)
	delete(r.favorites, id)
	return nil
}

func (r *FakeCustomerRepository) SetAdmin(id uint) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	c.IsAdmin = true
	clone := *c
	return &clone, nil
}

func (r *FakeCustomerRepository) ListFavorites(customerID uint) ([]domain.Favorite, error) {
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Favorite(nil), r.favorites[customerID]...), nil
}

func (r *FakeCustomerRepository) AddFavorite(customerID, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.favorites[customerID] {
		if f.ProductID == productID {
			return nil
		}
	}
	r.favorites[customerID] = append(r.favorites[customerID], domain.Favorite{
		CustomerID: customerID,
		ProductID:  productID,
	})
	return nil
}

func (r *FakeCustomerRepository) RemoveFavorite(customerID, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	favs := r.favorites[customerID]
	for i, f := range favs {
		if f.ProductID == productID {
			r.favorites[customerID] = append(favs[:i], favs[i+1:]...)
			return nil
		}
	}
	return nil
}

// CountingCatalog serves products from a fixed map and counts how
// often each method hits it, so tests can prove a cache hit never
// reached the remote.
type CountingCatalog struct {
	mu       sync.Mutex
	products map[uint]catalog.Product

	ListCalls  int
	GetCalls   int
	BatchCalls int

	Err error
}

// NewCountingCatalog creates a counting catalog serving the given products
func NewCountingCatalog(products ...catalog.Product) *CountingCatalog {
	m := make(map[uint]catalog.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &CountingCatalog{products: m}
}

func (c *CountingCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ListCalls++
	if c.Err != nil {
		return nil, c.Err
	}
	out := make([]catalog.Product, 0, len(c.products))
	for id := uint(0); len(out) < len(c.products); id++ {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *CountingCatalog) GetProduct(ctx context.Context, id uint) (catalog.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++
	if c.Err != nil {
		return catalog.Product{}, c.Err
	}
	p, ok := c.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

func (c *CountingCatalog) GetProductsInBatch(ctx context.Context, ids []uint) ([]catalog.Product, error) {
	c.mu.Lock()
	c.BatchCalls++
	err := c.Err
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		c.mu.Lock()
		p, ok := c.products[id]
		c.mu.Unlock()
		if !ok {
			return nil, catalog.ErrProductNotFound
		}
		out = append(out, p)
	}
	return out, nil
}

// FailingStore is a cache.Store whose every operation returns Err.
// It distinguishes infrastructure failures from plain misses in tests.
type FailingStore struct {
	Err error
}

func (s *FailingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, s.Err
}

func (s *FailingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Err
}

func (s *FailingStore) Delete(ctx context.Context, key string) (int64, error) {
	return 0, s.Err
}

func (s *FailingStore) Pipeline() cache.Pipeline {
	return &failingPipeline{err: s.Err}
}

type failingPipeline struct{ err error }

func (p *failingPipeline) Set(key string, value []byte, ttl time.Duration) {}

func (p *failingPipeline) Exec(ctx context.Context) error { return p.err }
