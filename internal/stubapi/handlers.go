package stubapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skecho/skecho-client/internal/model"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	products := make([]model.Product, 0, len(s.order))
	for _, id := range s.order {
		products = append(products, *s.products[id])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"total":      len(products),
		"page":       1,
		"totalPages": 1,
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	product, ok := s.products[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "product_not_found", "no such product")
		return
	}
	writeJSON(w, http.StatusOK, *product)
}

func (s *Server) handleGetSeller(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seller, ok := s.sellers[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "seller_not_found", "no such seller")
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	s.mu.Lock()
	u := s.user(identity.UID)
	profile := model.Profile{
		ID:               identity.UID,
		Name:             identity.Name,
		Email:            identity.Email,
		ProfileCompleted: u.profileCompleted,
		IsSeller:         u.sellerComplete,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSellerStatus(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	s.mu.Lock()
	complete := s.user(identity.UID).sellerComplete
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"isComplete": complete})
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	s.mu.Lock()
	cart := s.user(identity.UID).cart
	s.mu.Unlock()

	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[req.ProductID]
	if !ok || !product.IsAvailable {
		writeError(w, http.StatusNotFound, "product_not_found", "product unavailable")
		return
	}

	u := s.user(identity.UID)

	// Adding the same product again grows the existing row instead of
	// creating a duplicate.
	for i := range u.cart.Items {
		if u.cart.Items[i].ProductID == req.ProductID {
			next := u.cart.Items[i].Quantity + req.Quantity
			if next > product.Quantity {
				writeError(w, http.StatusBadRequest, "insufficient_stock", "requested quantity exceeds stock")
				return
			}
			u.cart.Items[i].Quantity = next
			writeJSON(w, http.StatusCreated, u.cart.Items[i])
			return
		}
	}

	if req.Quantity > product.Quantity {
		writeError(w, http.StatusBadRequest, "insufficient_stock", "requested quantity exceeds stock")
		return
	}

	item := model.CartItem{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
		Product:   *product,
	}
	u.cart.Items = append(u.cart.Items, item)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)
	itemID := chi.URLParam(r, "id")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(identity.UID)
	for i := range u.cart.Items {
		if u.cart.Items[i].ID != itemID {
			continue
		}
		// A zero-quantity row is never kept; removal is an explicit
		// DELETE.
		if req.Quantity < 1 {
			writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
			return
		}
		if product, ok := s.products[u.cart.Items[i].ProductID]; ok && req.Quantity > product.Quantity {
			writeError(w, http.StatusBadRequest, "insufficient_stock", "requested quantity exceeds stock")
			return
		}
		u.cart.Items[i].Quantity = req.Quantity
		writeJSON(w, http.StatusOK, u.cart.Items[i])
		return
	}

	writeError(w, http.StatusNotFound, "item_not_found", "no such cart item")
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)
	itemID := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(identity.UID)
	for i := range u.cart.Items {
		if u.cart.Items[i].ID == itemID {
			u.cart.Items = append(u.cart.Items[:i], u.cart.Items[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
			return
		}
	}

	writeError(w, http.StatusNotFound, "item_not_found", "no such cart item")
}
