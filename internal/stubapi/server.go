// Package stubapi is an in-memory marketplace backend used for local
// development and tests. It implements the same HTTP surface the real
// commerce service exposes, including server-side stock enforcement
// and server-assigned cart item ids.
package stubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/skecho/skecho-client/internal/logger"
	"github.com/skecho/skecho-client/internal/model"
	"github.com/skecho/skecho-client/internal/token"
)

type ctxKey int

const identityKey ctxKey = iota

// userState holds everything the stub tracks per authenticated user.
type userState struct {
	profileCompleted bool
	sellerComplete   bool
	cart             model.Cart
}

// Server is the in-memory backend. All state is guarded by a single
// mutex; the stub favors simplicity over throughput.
type Server struct {
	tokens *token.Manager
	logger *logger.Logger

	mu       sync.Mutex
	products map[string]*model.Product
	order    []string
	sellers  map[string]model.Seller
	users    map[string]*userState
}

// New creates a stub server verifying bearer tokens with the given
// manager, pre-seeded with a small demo catalog.
func New(tokens *token.Manager, l *logger.Logger) *Server {
	s := &Server{
		tokens:   tokens,
		logger:   l,
		products: make(map[string]*model.Product),
		sellers:  make(map[string]model.Seller),
		users:    make(map[string]*userState),
	}
	s.seed()
	return s
}

func (s *Server) seed() {
	seller := model.Seller{
		ID:            "seller-ayla",
		Name:          "Ayla Verma",
		Bio:           "Watercolor portraits and custom commissions.",
		DoesCustomArt: true,
		Pricing: model.PriceTable{
			model.SizeA1: {BasePrice: 500, PerExtraUnit: 100},
			model.SizeA2: {BasePrice: 350, PerExtraUnit: 75},
			model.SizeA4: {BasePrice: 200, PerExtraUnit: 50},
		},
		Materials: []model.MaterialOption{
			{Name: "Canvas", CostBySize: map[string]int64{model.SizeA1: 50, model.SizeA2: 40, model.SizeA4: 25}},
			{Name: "Handmade Paper", CostBySize: map[string]int64{model.SizeA1: 30, model.SizeA2: 20, model.SizeA4: 10}},
		},
	}
	s.sellers[seller.ID] = seller

	s.AddProduct(model.Product{ID: "prod-sunrise", Name: "Sunrise Over Ghats", Price: 1200, Quantity: 3, IsAvailable: true, SellerName: seller.Name})
	s.AddProduct(model.Product{ID: "prod-koi", Name: "Koi Pond Study", Price: 800, Quantity: 5, IsAvailable: true, SellerName: seller.Name})
	s.AddProduct(model.Product{ID: "prod-monsoon", Name: "Monsoon Street", Price: 1500, Quantity: 1, IsAvailable: true, SellerName: seller.Name})
}

// AddProduct registers a product in the catalog, replacing any
// existing entry with the same id.
func (s *Server) AddProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.products[p.ID] = &p
}

// SetProfile seeds the completion flags for a user, creating the user
// state if needed.
func (s *Server) SetProfile(uid string, buyerComplete, sellerComplete bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(uid)
	u.profileCompleted = buyerComplete
	u.sellerComplete = sellerComplete
}

// user returns the state for uid, creating it lazily. Caller holds mu.
func (s *Server) user(uid string) *userState {
	u, ok := s.users[uid]
	if !ok {
		u = &userState{cart: model.Cart{ID: uuid.NewString()}}
		s.users[uid] = u
	}
	return u
}

// Router builds the HTTP surface, mounted under /api to match the
// production base URL shape.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.handleListProducts)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Get("/seller/{id}", s.handleGetSeller)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/user/profile", s.handleProfile)
			r.Get("/seller/profile-complete", s.handleSellerStatus)
			r.Get("/cart", s.handleGetCart)
			r.Post("/cart/items", s.handleAddItem)
			r.Put("/cart/items/{id}", s.handleUpdateItem)
			r.Delete("/cart/items/{id}", s.handleRemoveItem)
		})
	})

	return r
}

// authenticate verifies the bearer token and stashes the identity in
// the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
			return
		}

		identity, err := s.tokens.ParseIdentity(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.logger.Debug("stub api: rejecting token", "error", err.Error())
			writeError(w, http.StatusUnauthorized, "invalid_token", "bearer token rejected")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

func identityFrom(r *http.Request) model.Identity {
	identity, _ := r.Context().Value(identityKey).(model.Identity)
	return identity
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}
