package front

import (
	"net/http"
	"strconv"
)

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireLogin(w, r); !ok {
		return
	}

	products, err := s.API.Products(r.Context())
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not fetch the product list.")
		products = nil
	}

	s.render(w, r, "products", "Products", products)
}

// requireAdmin duplicates the API's role check for UX only; the API
// re-checks everything.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request, backTo string) (string, bool) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return "", false
	}
	if s.Sessions.Role(r) != "admin" {
		s.Sessions.Flash(w, r, FlashDanger, "Admin rights required.")
		s.redirect(w, r, backTo)
		return "", false
	}
	return token, true
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireAdmin(w, r, "/products")
	if !ok {
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, "/products")
		return
	}

	name := r.PostFormValue("name")
	price, err := strconv.ParseFloat(r.PostFormValue("price"), 64)
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Price must be a number.")
		s.redirect(w, r, "/products")
		return
	}

	if err := s.API.CreateProduct(r.Context(), token, name, price); err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not create the product.")
	} else {
		s.Sessions.Flash(w, r, FlashSuccess, "Product created.")
	}
	s.redirect(w, r, "/products")
}

func (s *Server) editProductForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r, "/products"); !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, "/products")
		return
	}

	p, err := s.API.Product(r.Context(), id)
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Product not found.")
		s.redirect(w, r, "/products")
		return
	}

	s.render(w, r, "product_form", "Edit product", p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireAdmin(w, r, "/products")
	if !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, "/products")
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, "/products")
		return
	}

	// Blank fields fall back to the current record.
	existing, err := s.API.Product(r.Context(), id)
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Product not found.")
		s.redirect(w, r, "/products")
		return
	}

	name := r.PostFormValue("name")
	if name == "" {
		name = existing.Name
	}
	price := existing.Price
	if raw := r.PostFormValue("price"); raw != "" {
		if v, perr := strconv.ParseFloat(raw, 64); perr == nil {
			price = v
		}
	}

	if err := s.API.UpdateProduct(r.Context(), token, id, name, price); err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not update the product.")
	} else {
		s.Sessions.Flash(w, r, FlashSuccess, "Product updated.")
	}
	s.redirect(w, r, "/products")
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireAdmin(w, r, "/products")
	if !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, "/products")
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, "/products")
		return
	}

	if err := s.API.DeleteProduct(r.Context(), token, id); err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not delete the product.")
	} else {
		s.Sessions.Flash(w, r, FlashInfo, "Product deleted.")
	}
	s.redirect(w, r, "/products")
}
