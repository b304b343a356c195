package stubapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"atelier/internal/sentinel"
	"atelier/internal/storefront/models"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "atelier_stubapi_http_requests_total",
	Help: "HTTP requests served by the stub backend.",
}, []string{"method", "route", "status"})

// Server is the stub storefront backend. It serves the same wire contract
// the client engine consumes, backed by pluggable stores.
type Server struct {
	users     UserStore
	bags      BagStore
	favorites FavoriteStore
	products  ProductStore
	tokens    *tokenService
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithUserStore swaps the account store.
func WithUserStore(store UserStore) Option {
	return func(s *Server) { s.users = store }
}

// WithBagStore swaps the bag store.
func WithBagStore(store BagStore) Option {
	return func(s *Server) { s.bags = store }
}

// WithFavoriteStore swaps the favorite store.
func WithFavoriteStore(store FavoriteStore) Option {
	return func(s *Server) { s.favorites = store }
}

// WithProductStore swaps the catalog store.
func WithProductStore(store ProductStore) Option {
	return func(s *Server) { s.products = store }
}

// NewServer constructs a Server with in-memory stores unless options
// replace them.
func NewServer(signingKey string, opts ...Option) *Server {
	s := &Server{tokens: newTokenService(signingKey)}
	for _, opt := range opts {
		opt(s)
	}
	if s.users == nil {
		s.users = NewMemoryUserStore()
	}
	if s.bags == nil {
		s.bags = NewMemoryBagStore()
	}
	if s.favorites == nil {
		s.favorites = NewMemoryFavoriteStore()
	}
	if s.products == nil {
		s.products = NewMemoryProductStore()
	}
	return s
}

// Products exposes the catalog store for seeding.
func (s *Server) Products() ProductStore {
	return s.products
}

// Router wires all endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestMetrics)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/bag", s.handleGetBag)
		r.Post("/bag", s.handleAddToBag)
		r.Put("/bag", s.handleReplaceBag)
		r.Delete("/bag/{productID}", s.handleRemoveFromBag)

		r.Get("/favorites", s.handleGetFavorites)
		r.Post("/favorites", s.handleAddFavorite)
		r.Delete("/favorites/{productID}", s.handleRemoveFavorite)
	})

	r.Get("/products", s.handleListProducts)
	r.Get("/products/{productID}", s.handleGetProduct)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, fmt.Errorf("hash password: %w", err))
		return
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		LastDevice:   deviceLabel(r.UserAgent()),
	}
	if err := s.users.Create(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logInfo(r, "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Token:  token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Same response for unknown email and bad password.
		writeError(w, fmt.Errorf("invalid credentials: %w", sentinel.ErrUnauthorized))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, fmt.Errorf("invalid credentials: %w", sentinel.ErrUnauthorized))
		return
	}

	user.LastDevice = deviceLabel(r.UserAgent())
	if err := s.users.Update(r.Context(), user); err != nil {
		s.logWarn(r, "record login device", "error", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logInfo(r, "user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, authResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Token:  token,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r.Header.Get("Authorization"))
	userID, err := s.tokens.Validate(token)
	if err != nil {
		writeError(w, err)
		return
	}
	// Tokens are stateless; logout just acknowledges so the client can
	// clear its session.
	s.logInfo(r, "user logged out", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetBag(w http.ResponseWriter, r *http.Request) {
	ids, err := s.bags.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productIDsResponse{ProductIDs: ids})
}

func (s *Server) handleAddToBag(w http.ResponseWriter, r *http.Request) {
	var req productIDRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.products.Get(r.Context(), req.ProductID); err != nil {
		writeError(w, err)
		return
	}
	ids, err := s.bags.Add(r.Context(), chi.URLParam(r, "userID"), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productIDsResponse{ProductIDs: ids})
}

func (s *Server) handleReplaceBag(w http.ResponseWriter, r *http.Request) {
	var req replaceBagRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ids, err := s.bags.Replace(r.Context(), chi.URLParam(r, "userID"), req.ProductIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productIDsResponse{ProductIDs: ids})
}

func (s *Server) handleRemoveFromBag(w http.ResponseWriter, r *http.Request) {
	ids, err := s.bags.Remove(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productIDsResponse{ProductIDs: ids})
}

func (s *Server) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := s.favorites.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productIDsResponse{ProductIDs: ids})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req productIDRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.products.Get(r.Context(), req.ProductID); err != nil {
		writeError(w, err)
		return
	}
	if err := s.favorites.Add(r.Context(), chi.URLParam(r, "userID"), req.ProductID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.favorites.Remove(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "productID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.products.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleListProducts returns the catalog, optionally filtered by the q
// free-text parameter (substring match on name and category).
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	all, err := s.products.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		writeJSON(w, http.StatusOK, all)
		return
	}

	matched := make([]models.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			matched = append(matched, p)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) logInfo(r *http.Request, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(r.Context(), msg, args...)
	}
}

func (s *Server) logWarn(r *http.Request, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(r.Context(), msg, args...)
	}
}
