package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/internal/customer/usecase/command"
	"github.com/AlexEnrique/aiqfav/internal/customer/usecase/query"
	"github.com/AlexEnrique/aiqfav/pkg/auth"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
)

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	// Command handlers
	createHandler         *command.CreateCustomerHandler
	createAdminHandler    *command.CreateAdminHandler
	deleteHandler         *command.DeleteCustomerHandler
	addFavoriteHandler    *command.AddFavoriteHandler
	removeFavoriteHandler *command.RemoveFavoriteHandler
	loginHandler          *command.LoginCustomerHandler
	refreshHandler        *command.RefreshTokenHandler

	// Query handlers
	getCustomerHandler   *query.GetCustomerHandler
	listHandler          *query.ListCustomersHandler
	listFavoritesHandler *query.ListFavoritesHandler
	checkAdminHandler    *query.CheckAdminHandler
	checkEmailHandler    *query.CheckEmailHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(
	repo domain.CustomerRepository,
	catalogClient catalog.Client,
	store cache.Store,
	ttl time.Duration,
	events command.EventPublisher,
) *CustomerHandler {
	createHandler := command.NewCreateCustomerHandler(repo, store, ttl, events)

	return NewCustomerHandlerWithDI(
		createHandler,
		command.NewCreateAdminHandler(createHandler, repo),
		command.NewDeleteCustomerHandler(repo, store, events),
		command.NewAddFavoriteHandler(repo, catalogClient, store, events),
		command.NewRemoveFavoriteHandler(repo, store, events),
		command.NewLoginCustomerHandler(repo),
		command.NewRefreshTokenHandler(repo),
		query.NewGetCustomerHandler(repo, store, ttl),
		query.NewListCustomersHandler(repo, store, ttl),
		query.NewListFavoritesHandler(repo, catalogClient, store, ttl),
		query.NewCheckAdminHandler(repo),
		query.NewCheckEmailHandler(repo),
	)
}

// NewCustomerHandlerWithDI creates a customer handler from
// pre-built use case handlers (used by wire)
func NewCustomerHandlerWithDI(
	createHandler *command.CreateCustomerHandler,
	createAdminHandler *command.CreateAdminHandler,
	deleteHandler *command.DeleteCustomerHandler,
	addFavoriteHandler *command.AddFavoriteHandler,
	removeFavoriteHandler *command.RemoveFavoriteHandler,
	loginHandler *command.LoginCustomerHandler,
	refreshHandler *command.RefreshTokenHandler,
	getCustomerHandler *query.GetCustomerHandler,
	listHandler *query.ListCustomersHandler,
	listFavoritesHandler *query.ListFavoritesHandler,
	checkAdminHandler *query.CheckAdminHandler,
	checkEmailHandler *query.CheckEmailHandler,
) *CustomerHandler {
	h := &CustomerHandler{
		createHandler:         createHandler,
		createAdminHandler:    createAdminHandler,
		deleteHandler:         deleteHandler,
		addFavoriteHandler:    addFavoriteHandler,
		removeFavoriteHandler: removeFavoriteHandler,
		loginHandler:          loginHandler,
		refreshHandler:        refreshHandler,
		getCustomerHandler:    getCustomerHandler,
		listHandler:           listHandler,
		listFavoritesHandler:  listFavoritesHandler,
		checkAdminHandler:     checkAdminHandler,
		checkEmailHandler:     checkEmailHandler,
	}

	registerMetrics()
	h.requestCounter = requestCounter
	h.requestLatency = requestLatency

	return h
}

var (
	metricsOnce    sync.Once
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
)

// registerMetrics registers the request metrics exactly once, however
// many handlers are constructed.
func registerMetrics() {
	metricsOnce.Do(func() {
		requestCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiqfav_requests_total",
				Help: "Total number of requests to the customer service",
			},
			[]string{"method", "endpoint", "status"},
		)
		requestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aiqfav_request_duration_seconds",
				Help:    "Duration of customer service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		)

		prometheus.MustRegister(requestCounter)
		prometheus.MustRegister(requestLatency)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CustomerHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Register handles POST /auth/register
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.CreateCustomerCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	customer, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, customer)
}

// Login handles POST /auth/login
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.LoginCustomerCommand{
		Email:    req.Email,
		Password: req.Password,
	}

	response, err := h.loginHandler.Handle(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Refresh handles POST /auth/refresh
func (h *CustomerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.RefreshTokenCommand{RefreshToken: req.RefreshToken}

	response, err := h.refreshHandler.Handle(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// EmailAvailable handles GET /auth/email-available
func (h *CustomerHandler) EmailAvailable(w http.ResponseWriter, r *http.Request) {
	q := query.CheckEmailQuery{Email: r.URL.Query().Get("email")}

	available, err := h.checkEmailHandler.Handle(r.Context(), q)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"available": available})
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.listHandler.Handle(r.Context(), query.ListCustomersQuery{})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customers)
}

// GetCustomer handles GET /customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.getCustomerHandler.Handle(r.Context(), query.GetCustomerQuery{ID: id})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// Me handles GET /customers/me (authenticated customer)
func (h *CustomerHandler) Me(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	customer, err := h.getCustomerHandler.Handle(r.Context(), query.GetCustomerQuery{ID: customerID})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// DeleteMe handles DELETE /customers/me (authenticated customer)
func (h *CustomerHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteCustomerCommand{ID: customerID}); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFavorites handles GET /customers/me/favorites
func (h *CustomerHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	products, err := h.listFavoritesHandler.Handle(r.Context(), query.ListFavoritesQuery{CustomerID: customerID})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// AddFavorite handles PUT /customers/me/favorites. Idempotent:
// repeating the same payload returns 200 with the same product.
func (h *CustomerHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.AddFavoriteCommand{
		CustomerID: customerID,
		ProductID:  req.ProductID,
	}

	product, err := h.addFavoriteHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// RemoveFavorite handles DELETE /customers/me/favorites/{product_id}
func (h *CustomerHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	customerID, ok := r.Context().Value(CustomerIDKey).(uint)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
		return
	}

	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	cmd := command.RemoveFavoriteCommand{
		CustomerID: customerID,
		ProductID:  productID,
	}

	if err := h.removeFavoriteHandler.Handle(r.Context(), cmd); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ADMIN ENDPOINTS ---

// CreateAdmin handles POST /admin/customers (admin only)
func (h *CustomerHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.CreateAdminCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	customer, err := h.createAdminHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, customer)
}

// DeleteCustomer handles DELETE /admin/customers/{id} (admin only)
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteCustomerCommand{ID: id}); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *CustomerHandler) HealthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := contextWithTimeout(r, 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// respondDomainError maps service errors to HTTP status codes
func (h *CustomerHandler) respondDomainError(w http.ResponseWriter, err error) {
	var upstream *catalog.UnexpectedResponseError

	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		respondError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		respondError(w, http.StatusConflict, "A customer with this email already exists")
	case errors.As(err, &upstream):
		respondError(w, http.StatusBadGateway, "Store API unavailable")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/auth/register", h.metricsMiddleware("/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/auth/login", h.metricsMiddleware("/auth/login", h.Login)).Methods("POST")
	router.HandleFunc("/auth/refresh", h.metricsMiddleware("/auth/refresh", h.Refresh)).Methods("POST")
	router.HandleFunc("/auth/email-available", h.metricsMiddleware("/auth/email-available", h.EmailAvailable)).Methods("GET")
	router.HandleFunc("/customers", h.metricsMiddleware("/customers", h.ListCustomers)).Methods("GET")

	// Authenticated customer routes. "me" routes must be registered
	// before the {id} route so mux does not swallow them.
	router.HandleFunc("/customers/me", h.metricsMiddleware("/customers/me", AuthMiddleware(h.Me))).Methods("GET")
	router.HandleFunc("/customers/me", h.metricsMiddleware("/customers/me", AuthMiddleware(h.DeleteMe))).Methods("DELETE")
	router.HandleFunc("/customers/me/favorites", h.metricsMiddleware("/customers/me/favorites", AuthMiddleware(h.ListFavorites))).Methods("GET")
	router.HandleFunc("/customers/me/favorites", h.metricsMiddleware("/customers/me/favorites", AuthMiddleware(h.AddFavorite))).Methods("PUT")
	router.HandleFunc("/customers/me/favorites/{product_id}", h.metricsMiddleware("/customers/me/favorites/{product_id}", AuthMiddleware(h.RemoveFavorite))).Methods("DELETE")
	router.HandleFunc("/customers/{id}", h.metricsMiddleware("/customers/{id}", h.GetCustomer)).Methods("GET")

	// Admin routes
	router.HandleFunc("/admin/customers", h.metricsMiddleware("/admin/customers", h.AdminMiddleware(h.CreateAdmin))).Methods("POST")
	router.HandleFunc("/admin/customers/{id}", h.metricsMiddleware("/admin/customers/{id}", h.AdminMiddleware(h.DeleteCustomer))).Methods("DELETE")
}

// RegisterHealthCheck registers the health check endpoint
func (h *CustomerHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", h.HealthCheck(db)).Methods("GET")
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars[name], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
