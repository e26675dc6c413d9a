//go:build wireinject
// +build wireinject

package customer

import (
	"time"

	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
	"github.com/AlexEnrique/aiqfav/internal/customer/delivery/http"
	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/internal/customer/repository"
	"github.com/AlexEnrique/aiqfav/internal/customer/usecase/command"
	"github.com/AlexEnrique/aiqfav/internal/customer/usecase/query"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
)

// ProvideCustomerRepository provides the customer repository
func ProvideCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return repository.NewGormCustomerRepository(db)
}

// Command handler providers
func ProvideCreateCustomerHandler(repo domain.CustomerRepository, store cache.Store, ttl time.Duration, events command.EventPublisher) *command.CreateCustomerHandler {
	return command.NewCreateCustomerHandler(repo, store, ttl, events)
}

func ProvideCreateAdminHandler(create *command.CreateCustomerHandler, repo domain.CustomerRepository) *command.CreateAdminHandler {
	return command.NewCreateAdminHandler(create, repo)
}

func ProvideDeleteCustomerHandler(repo domain.CustomerRepository, store cache.Store, events command.EventPublisher) *command.DeleteCustomerHandler {
	return command.NewDeleteCustomerHandler(repo, store, events)
}

func ProvideAddFavoriteHandler(repo domain.CustomerRepository, catalogClient catalog.Client, store cache.Store, events command.EventPublisher) *command.AddFavoriteHandler {
	return command.NewAddFavoriteHandler(repo, catalogClient, store, events)
}

func ProvideRemoveFavoriteHandler(repo domain.CustomerRepository, store cache.Store, events command.EventPublisher) *command.RemoveFavoriteHandler {
	return command.NewRemoveFavoriteHandler(repo, store, events)
}

func ProvideLoginCustomerHandler(repo domain.CustomerRepository) *command.LoginCustomerHandler {
	return command.NewLoginCustomerHandler(repo)
}

func ProvideRefreshTokenHandler(repo domain.CustomerRepository) *command.RefreshTokenHandler {
	return command.NewRefreshTokenHandler(repo)
}

// Query handler providers
func ProvideGetCustomerHandler(repo domain.CustomerRepository, store cache.Store, ttl time.Duration) *query.GetCustomerHandler {
	return query.NewGetCustomerHandler(repo, store, ttl)
}

func ProvideListCustomersHandler(repo domain.CustomerRepository, store cache.Store, ttl time.Duration) *query.ListCustomersHandler {
	return query.NewListCustomersHandler(repo, store, ttl)
}

func ProvideListFavoritesHandler(repo domain.CustomerRepository, catalogClient catalog.Client, store cache.Store, ttl time.Duration) *query.ListFavoritesHandler {
	return query.NewListFavoritesHandler(repo, catalogClient, store, ttl)
}

func ProvideCheckAdminHandler(repo domain.CustomerRepository) *query.CheckAdminHandler {
	return query.NewCheckAdminHandler(repo)
}

func ProvideCheckEmailHandler(repo domain.CustomerRepository) *query.CheckEmailHandler {
	return query.NewCheckEmailHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCustomerRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateCustomerHandler,
	ProvideCreateAdminHandler,
	ProvideDeleteCustomerHandler,
	ProvideAddFavoriteHandler,
	ProvideRemoveFavoriteHandler,
	ProvideLoginCustomerHandler,
	ProvideRefreshTokenHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetCustomerHandler,
	ProvideListCustomersHandler,
	ProvideListFavoritesHandler,
	ProvideCheckAdminHandler,
	ProvideCheckEmailHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	store cache.Store,
	catalogClient catalog.Client,
	ttl time.Duration,
	events command.EventPublisher,
) *http.CustomerHandler {
	wire.Build(
		AllHandlersSet,
		http.NewCustomerHandlerWithDI,
	)
	return nil
}
