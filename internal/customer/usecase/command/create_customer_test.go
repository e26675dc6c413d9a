package command

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/internal/customer/usecase/query"
	"github.com/AlexEnrique/aiqfav/pkg/auth"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/testsupport"
)

type recordedEvent struct {
	eventType  string
	customerID uint
	productID  uint
	email      string
}

type recordingPublisher struct {
	customerEvents []recordedEvent
	favoriteEvents []recordedEvent
	err            error
}

func (p *recordingPublisher) PublishCustomerEvent(ctx context.Context, eventType string, customerID uint, email string) error {
	if p.err != nil {
		return p.err
	}
	p.customerEvents = append(p.customerEvents, recordedEvent{eventType: eventType, customerID: customerID, email: email})
	return nil
}

func (p *recordingPublisher) PublishFavoriteEvent(ctx context.Context, eventType string, customerID, productID uint) error {
	if p.err != nil {
		return p.err
	}
	p.favoriteEvents = append(p.favoriteEvents, recordedEvent{eventType: eventType, customerID: customerID, productID: productID})
	return nil
}

func TestCreateCustomerValidation(t *testing.T) {
	handler := NewCreateCustomerHandler(testsupport.NewFakeCustomerRepository(), cache.NewMemoryStore(), time.Minute, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  CreateCustomerCommand
	}{
		{"missing name", CreateCustomerCommand{Email: "a@b.com", Password: "secret1"}},
		{"missing email", CreateCustomerCommand{Name: "Ana", Password: "secret1"}},
		{"missing password", CreateCustomerCommand{Name: "Ana", Email: "a@b.com"}},
		{"short password", CreateCustomerCommand{Name: "Ana", Email: "a@b.com", Password: "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(ctx, tc.cmd)
			assert.Error(t, err)
		})
	}
}

func TestCreateCustomerSuccess(t *testing.T) {
	repo := testsupport.NewFakeCustomerRepository()
	store := cache.NewMemoryStore()
	events := &recordingPublisher{}
	handler := NewCreateCustomerHandler(repo, store, time.Minute, events)
	ctx := context.Background()

	// Pre-seed the aggregate entry so the invalidation is observable
	require.NoError(t, store.Set(ctx, domain.CustomersKey, []byte("[]"), time.Minute))

	public, err := handler.Handle(ctx, CreateCustomerCommand{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), public.ID)
	assert.Equal(t, "Ana", public.Name)

	// Write-through: the fresh record is cached
	cached, err := store.Get(ctx, domain.CustomerKey(1))
	require.NoError(t, err)
	var fromCache domain.CustomerPublic
	require.NoError(t, json.Unmarshal(cached, &fromCache))
	assert.Equal(t, *public, fromCache)

	// The aggregate entry is gone
	_, err = store.Get(ctx, domain.CustomersKey)
	assert.ErrorIs(t, err, cache.ErrMiss)

	// The stored credential is a hash, never the plaintext
	stored, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.HashedPassword)
	assert.True(t, auth.CheckPassword(stored.HashedPassword, "secret1"))

	require.Len(t, events.customerEvents, 1)
	assert.Equal(t, "customer.registered", events.customerEvents[0].eventType)
	assert.Equal(t, "ana@example.com", events.customerEvents[0].email)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	repo := testsupport.NewFakeCustomerRepository()
	store := cache.NewMemoryStore()
	handler := NewCreateCustomerHandler(repo, store, time.Minute, nil)
	ctx := context.Background()

	cmd := CreateCustomerCommand{Name: "Ana", Email: "ana@example.com", Password: "secret1"}
	_, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	cmd.Name = "Other Ana"
	_, err = handler.Handle(ctx, cmd)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 1, "the duplicate attempt must not mutate anything")
}

func TestCreateCustomerServesFollowingReads(t *testing.T) {
	repo := testsupport.NewFakeCustomerRepository()
	store := cache.NewMemoryStore()
	handler := NewCreateCustomerHandler(repo, store, time.Minute, nil)
	getCustomer := query.NewGetCustomerHandler(repo, store, time.Minute)
	listCustomers := query.NewListCustomersHandler(repo, store, time.Minute)
	ctx := context.Background()

	// Cache the empty list before anything exists
	empty, err := listCustomers.Handle(ctx, query.ListCustomersQuery{})
	require.NoError(t, err)
	require.Empty(t, empty)

	created, err := handler.Handle(ctx, CreateCustomerCommand{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	// The list reflects the new member despite the earlier cached entry
	customers, err := listCustomers.Handle(ctx, query.ListCustomersQuery{})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, created.ID, customers[0].ID)

	// The write-through entry serves the read even with a dead repository
	repo.FindErr = assert.AnError

	got, err := getCustomer.Handle(ctx, query.GetCustomerQuery{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestCreateCustomerPublishFailureIsTolerated(t *testing.T) {
	repo := testsupport.NewFakeCustomerRepository()
	events := &recordingPublisher{err: assert.AnError}
	handler := NewCreateCustomerHandler(repo, cache.NewMemoryStore(), time.Minute, events)

	public, err := handler.Handle(context.Background(), CreateCustomerCommand{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret1",
	})
	require.NoError(t, err, "a broker outage must not fail the registration")
	assert.Equal(t, uint(1), public.ID)
}
