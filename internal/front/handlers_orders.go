package front

import (
	"net/http"
	"strconv"
)

type orderFormData struct {
	IsEdit   bool
	Order    Order
	Products []Product
	Action   string
}

func (s *Server) orders(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}

	orders, err := s.API.Orders(r.Context(), token)
	if err != nil {
		// A failed list fetch usually means the token expired; drop the
		// session rather than render a broken page.
		s.forceLogout(w, r, "Could not fetch orders, please log in again.")
		return
	}

	s.render(w, r, "orders", "Orders", orders)
}

func (s *Server) newOrderForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireLogin(w, r); !ok {
		return
	}

	products, err := s.API.Products(r.Context())
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not fetch the product list.")
		products = nil
	}

	s.render(w, r, "order_form", "New order", orderFormData{
		Products: products,
		Action:   "/orders/new",
	})
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, "/orders")
		return
	}

	// The API identifies order products by name, the form by id; resolve
	// through the catalog before submitting.
	products, _ := s.API.Products(r.Context())
	productName := "Unknown"
	if id, err := strconv.Atoi(r.PostFormValue("product_id")); err == nil {
		for _, p := range products {
			if p.ID == id {
				productName = p.Name
				break
			}
		}
	}

	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Quantity must be a number.")
		s.redirect(w, r, "/orders/new")
		return
	}

	payload := OrderPayload{ProductName: &productName, Quantity: &quantity}
	if s.Sessions.Role(r) == "admin" {
		addAdminOrderFields(&payload, r)
	}

	if err := s.API.CreateOrder(r.Context(), token, payload); err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not create the order.")
	} else {
		s.Sessions.Flash(w, r, FlashSuccess, "Order created.")
	}
	s.redirect(w, r, "/orders")
}

func (s *Server) editOrderForm(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, "/orders")
		return
	}

	o, err := s.API.Order(r.Context(), token, id)
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Order not found or access denied.")
		s.redirect(w, r, "/orders")
		return
	}

	products, err := s.API.Products(r.Context())
	if err != nil {
		products = nil
	}

	s.render(w, r, "order_form", "Edit order", orderFormData{
		IsEdit:   true,
		Order:    o,
		Products: products,
		Action:   "/orders/" + strconv.Itoa(id) + "/edit",
	})
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, "/orders")
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, "/orders")
		return
	}

	// Current record fills in whatever the form left blank.
	existing, err := s.API.Order(r.Context(), token, id)
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Order not found or access denied.")
		s.redirect(w, r, "/orders")
		return
	}

	products, _ := s.API.Products(r.Context())
	productName := existing.ProductName
	if pid, err := strconv.Atoi(r.PostFormValue("product_id")); err == nil {
		for _, p := range products {
			if p.ID == pid {
				productName = p.Name
				break
			}
		}
	}

	quantity := existing.Quantity
	if q, err := strconv.Atoi(r.PostFormValue("quantity")); err == nil {
		quantity = q
	}

	payload := OrderPayload{ProductName: &productName, Quantity: &quantity}
	if s.Sessions.Role(r) == "admin" {
		addAdminOrderFields(&payload, r)
	}

	switch err := s.API.UpdateOrder(r.Context(), token, id, payload); {
	case err == nil:
		s.Sessions.Flash(w, r, FlashSuccess, "Order updated.")
	case StatusOf(err) == http.StatusForbidden:
		s.Sessions.Flash(w, r, FlashDanger, "You are not allowed to update this order.")
	default:
		s.Sessions.Flash(w, r, FlashDanger, "Could not update the order.")
	}
	s.redirect(w, r, "/orders")
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, "/orders")
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, "/orders")
		return
	}

	canceled := "canceled"
	err := s.API.UpdateOrder(r.Context(), token, id, OrderPayload{Status: &canceled})
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not cancel the order.")
	} else {
		s.Sessions.Flash(w, r, FlashInfo, "Order canceled.")
	}
	s.redirect(w, r, "/orders")
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, "/orders")
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, "/orders")
		return
	}

	switch err := s.API.DeleteOrder(r.Context(), token, id); {
	case err == nil:
		s.Sessions.Flash(w, r, FlashInfo, "Order deleted.")
	case StatusOf(err) == http.StatusForbidden:
		s.Sessions.Flash(w, r, FlashDanger, "You are not allowed to delete this order.")
	default:
		s.Sessions.Flash(w, r, FlashDanger, "Could not delete the order.")
	}
	s.redirect(w, r, "/orders")
}

// addAdminOrderFields copies the admin-only form fields into the payload
// when present. The API ignores them for everyone else anyway; this just
// keeps non-admin requests clean.
func addAdminOrderFields(p *OrderPayload, r *http.Request) {
	if raw := r.PostFormValue("price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			p.Price = &v
		}
	}
	if status := r.PostFormValue("status"); status != "" {
		p.Status = &status
	}
}
