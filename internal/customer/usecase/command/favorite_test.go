package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/testsupport"
)

func favoriteFixture(t *testing.T) (*testsupport.FakeCustomerRepository, *cache.MemoryStore, *testsupport.CountingCatalog) {
	t.Helper()
	repo := testsupport.NewFakeCustomerRepository()
	require.NoError(t, repo.Create(&domain.Customer{Name: "Ana", Email: "ana@example.com", HashedPassword: "x"}))
	store := cache.NewMemoryStore()
	remote := testsupport.NewCountingCatalog(
		catalog.Product{ID: 10, Title: "Backpack", Image: "i", Price: 109.95},
	)
	return repo, store, remote
}

func TestAddFavoriteSuccess(t *testing.T) {
	repo, store, remote := favoriteFixture(t)
	events := &recordingPublisher{}
	handler := NewAddFavoriteHandler(repo, remote, store, events)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.FavoritesKey(1), []byte("[]"), time.Minute))

	product, err := handler.Handle(ctx, AddFavoriteCommand{CustomerID: 1, ProductID: 10})
	require.NoError(t, err)
	assert.Equal(t, "Backpack", product.Title)

	favorites, err := repo.ListFavorites(1)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, uint(10), favorites[0].ProductID)

	// The resolved-favorites entry is stale now
	_, err = store.Get(ctx, domain.FavoritesKey(1))
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.Len(t, events.favoriteEvents, 1)
	assert.Equal(t, "favorite.added", events.favoriteEvents[0].eventType)
	assert.Equal(t, uint(10), events.favoriteEvents[0].productID)
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	repo, store, remote := favoriteFixture(t)
	handler := NewAddFavoriteHandler(repo, remote, store, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, AddFavoriteCommand{CustomerID: 1, ProductID: 10})
	require.NoError(t, err)
	_, err = handler.Handle(ctx, AddFavoriteCommand{CustomerID: 1, ProductID: 10})
	require.NoError(t, err)

	favorites, err := repo.ListFavorites(1)
	require.NoError(t, err)
	assert.Len(t, favorites, 1, "the duplicate pair must not create a second edge")
}

func TestAddFavoriteUnknownProduct(t *testing.T) {
	repo, store, remote := favoriteFixture(t)
	handler := NewAddFavoriteHandler(repo, remote, store, nil)

	_, err := handler.Handle(context.Background(), AddFavoriteCommand{CustomerID: 1, ProductID: 999})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	favorites, err := repo.ListFavorites(1)
	require.NoError(t, err)
	assert.Empty(t, favorites, "an unknown product must never be favorited")
}

func TestAddFavoriteUnknownCustomer(t *testing.T) {
	repo, store, remote := favoriteFixture(t)
	handler := NewAddFavoriteHandler(repo, remote, store, nil)

	_, err := handler.Handle(context.Background(), AddFavoriteCommand{CustomerID: 42, ProductID: 10})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.Equal(t, 0, remote.GetCalls, "the catalog is not consulted for a missing customer")
}

func TestRemoveFavoriteSuccess(t *testing.T) {
	repo, store, remote := favoriteFixture(t)
	events := &recordingPublisher{}
	add := NewAddFavoriteHandler(repo, remote, store, nil)
	handler := NewRemoveFavoriteHandler(repo, store, events)
	ctx := context.Background()

	_, err := add.Handle(ctx, AddFavoriteCommand{CustomerID: 1, ProductID: 10})
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, domain.FavoritesKey(1), []byte("[]"), time.Minute))

	require.NoError(t, handler.Handle(ctx, RemoveFavoriteCommand{CustomerID: 1, ProductID: 10}))

	favorites, err := repo.ListFavorites(1)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	_, err = store.Get(ctx, domain.FavoritesKey(1))
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.Len(t, events.favoriteEvents, 1)
	assert.Equal(t, "favorite.removed", events.favoriteEvents[0].eventType)
}

func TestRemoveFavoriteMissingEdgeIsNoOp(t *testing.T) {
	repo, store, _ := favoriteFixture(t)
	handler := NewRemoveFavoriteHandler(repo, store, nil)

	err := handler.Handle(context.Background(), RemoveFavoriteCommand{CustomerID: 1, ProductID: 10})
	assert.NoError(t, err)
}

func TestRemoveFavoriteUnknownCustomer(t *testing.T) {
	repo, store, _ := favoriteFixture(t)
	handler := NewRemoveFavoriteHandler(repo, store, nil)

	err := handler.Handle(context.Background(), RemoveFavoriteCommand{CustomerID: 42, ProductID: 10})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}
