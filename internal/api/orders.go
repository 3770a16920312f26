package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"MiniShop/internal/auth"
	"MiniShop/internal/authz"
	"MiniShop/internal/order"
	"MiniShop/pkg/kit"
)

type createOrderReq struct {
	ProductName string   `json:"product_name"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
	Status      *string  `json:"status"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())

	var req createOrderReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "bad json")
		return
	}

	if req.ProductName == "" || req.Quantity == nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "product_name and quantity are required")
		return
	}
	if *req.Quantity < 1 {
		kit.WriteMessage(w, r, http.StatusBadRequest, "quantity must be positive")
		return
	}

	// Price and status are admin knobs; for everyone else the price is
	// computed and the status starts at pending.
	status := ""
	if req.Status != nil && caller.IsAdmin() {
		status = *req.Status
	}

	o, err := order.New(req.ProductName, *req.Quantity, caller.ID, status, s.Products)
	if err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "product not found")
		return
	}
	if req.Price != nil && authz.CanOverridePrice(caller) {
		o.Price = *req.Price
	}

	created, err := s.Orders.Create(o)
	if err != nil {
		s.Log.Error("create order", zap.Error(err))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())

	var orders []order.Order
	if caller.IsAdmin() {
		orders = s.Orders.List()
	} else {
		orders = s.Orders.ListByUser(caller.ID)
	}
	if orders == nil {
		orders = []order.Order{}
	}
	kit.WriteJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())

	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "order not found")
		return
	}

	o, err := s.Orders.Get(id)
	if err != nil {
		kit.WriteMessage(w, r, http.StatusNotFound, "order not found")
		return
	}
	if !authz.CanReadOrder(caller, o.UserID) {
		kit.WriteMessage(w, r, http.StatusForbidden, "access denied")
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}

type updateOrderReq struct {
	ProductName *string  `json:"product_name"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
	Status      *string  `json:"status"`
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())

	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "order not found")
		return
	}

	existing, err := s.Orders.Get(id)
	if err != nil {
		kit.WriteMessage(w, r, http.StatusNotFound, "order not found")
		return
	}
	if !authz.CanUpdateOrder(caller, existing.UserID) {
		kit.WriteMessage(w, r, http.StatusForbidden, "access denied")
		return
	}

	var req updateOrderReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "bad json")
		return
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		kit.WriteMessage(w, r, http.StatusBadRequest, "quantity must be positive")
		return
	}

	fields := order.UpdateFields{
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Status:      req.Status,
	}
	perms := order.Permissions{
		OverridePrice: authz.CanOverridePrice(caller),
		StatusAllowed: func(requested string) bool { return authz.AllowedStatus(caller, requested) },
	}

	err = s.Orders.Update(id, func(o *order.Order) error {
		return order.ApplyUpdate(o, fields, perms, s.Products)
	})
	switch {
	case errors.Is(err, order.ErrUnknownProduct):
		kit.WriteMessage(w, r, http.StatusBadRequest, "product not found")
		return
	case errors.Is(err, order.ErrNotFound):
		kit.WriteMessage(w, r, http.StatusNotFound, "order not found")
		return
	case err != nil:
		s.Log.Error("update order", zap.Error(err), zap.Int("order_id", id))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteMessage(w, r, http.StatusOK, "order updated")
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())

	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "order not found")
		return
	}

	// Existence is checked before ownership: deleting a missing order is a
	// 404 for everyone, an existing one a 403 for non-admins.
	if _, err := s.Orders.Get(id); err != nil {
		kit.WriteMessage(w, r, http.StatusNotFound, "order not found")
		return
	}
	if !authz.CanDeleteOrder(caller) {
		kit.WriteMessage(w, r, http.StatusForbidden, "access denied")
		return
	}

	if err := s.Orders.Delete(id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			kit.WriteMessage(w, r, http.StatusNotFound, "order not found")
			return
		}
		s.Log.Error("delete order", zap.Error(err), zap.Int("order_id", id))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteMessage(w, r, http.StatusOK, "order deleted")
}
