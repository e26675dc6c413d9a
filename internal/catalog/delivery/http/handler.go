package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
)

// ProductHandler exposes the cached product catalog over HTTP
type ProductHandler struct {
	catalog catalog.Client
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogClient catalog.Client) *ProductHandler {
	return &ProductHandler{catalog: catalogClient}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), uint(id))
	if err != nil {
		h.respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) respondCatalogError(w http.ResponseWriter, err error) {
	var upstream *catalog.UnexpectedResponseError

	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "Product not found")
	case errors.As(err, &upstream):
		respondError(w, http.StatusBadGateway, "Store API unavailable")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/products", h.ListProducts).Methods("GET")
	router.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
