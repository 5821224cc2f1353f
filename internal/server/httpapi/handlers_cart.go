package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/thriftedhq/thrifted/internal/common"
)

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	cart, err := s.carts.GetCart(r.Context(), snap.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartJSON(cart))
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ProductID == "" {
		s.writeError(w, r, fmt.Errorf("%w: productId is required", common.ErrorInvalidArgument))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := s.carts.AddItem(r.Context(), snap.UserID, req.ProductID, req.Quantity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Item added to cart",
		"cart":    toCartJSON(cart),
	})
}

// handleSetCartQuantity replaces a line's quantity in one atomic call. The
// old client contract did this as delete+add; this endpoint closes the gap
// where a concurrent add could land between the two steps.
func (s *Server) handleSetCartQuantity(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cart, err := s.carts.SetQuantity(r.Context(), snap.UserID, mux.Vars(r)["productId"], req.Quantity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Cart updated",
		"cart":    toCartJSON(cart),
	})
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	cart, err := s.carts.RemoveItem(r.Context(), snap.UserID, mux.Vars(r)["productId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Item removed from cart",
		"cart":    toCartJSON(cart),
	})
}
