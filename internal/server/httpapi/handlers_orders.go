package httpapi

import "net/http"

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	order, err := s.orders.PlaceOrder(r.Context(), snap.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order placed successfully",
		"order":   toOrderJSON(order),
	})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	orders, err := s.orders.ListOrders(r.Context(), snap.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderJSON(o))
	}
	writeJSON(w, http.StatusOK, result)
}
