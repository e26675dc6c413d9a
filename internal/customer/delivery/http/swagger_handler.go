package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Register godoc
// @Summary Register a new customer
// @Description Create a new customer account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "Customer registration data"
// @Success 201 {object} object{id=int,name=string,email=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/register [post]
func (h *CustomerHandler) RegisterDoc() {}

// Login godoc
// @Summary Customer login
// @Description Authenticate a customer and issue an access/refresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{access_token=string,refresh_token=string,customer=object}
// @Failure 401 {object} object{error=string}
// @Router /auth/login [post]
func (h *CustomerHandler) LoginDoc() {}

// ListFavorites godoc
// @Summary List the authenticated customer's favorite products
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Success 200 {array} object{id=int,title=string,image=string,price=number,rating=number}
// @Failure 401 {object} object{error=string}
// @Router /customers/me/favorites [get]
func (h *CustomerHandler) ListFavoritesDoc() {}

// AddFavorite godoc
// @Summary Add a product to the authenticated customer's favorites
// @Description Idempotent; repeating the same payload is a no-op
// @Tags Favorites
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=int} true "Product to favorite"
// @Success 200 {object} object{id=int,title=string,image=string,price=number,rating=number}
// @Failure 404 {object} object{error=string}
// @Router /customers/me/favorites [put]
func (h *CustomerHandler) AddFavoriteDoc() {}
