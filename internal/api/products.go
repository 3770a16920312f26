package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"MiniShop/internal/product"
	"MiniShop/pkg/kit"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := s.Products.List()
	if products == nil {
		products = []product.Product{}
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "product not found")
		return
	}

	p, err := s.Products.Get(id)
	if err != nil {
		kit.WriteMessage(w, r, http.StatusNotFound, "product not found")
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type createProductReq struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "bad json")
		return
	}

	// Price zero is a valid price; only an absent field is rejected.
	if req.Name == "" || req.Price == nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "name and price are required")
		return
	}
	if *req.Price < 0 {
		kit.WriteMessage(w, r, http.StatusBadRequest, "price must not be negative")
		return
	}

	if _, err := s.Products.Create(req.Name, *req.Price); err != nil {
		s.Log.Error("create product", zap.Error(err))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteMessage(w, r, http.StatusCreated, "product created")
}

type updateProductReq struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "product not found")
		return
	}

	var req updateProductReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "bad json")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		kit.WriteMessage(w, r, http.StatusBadRequest, "price must not be negative")
		return
	}

	err := s.Products.Update(id, func(p *product.Product) {
		if req.Name != nil && *req.Name != "" {
			p.Name = *req.Name
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
	})
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			kit.WriteMessage(w, r, http.StatusNotFound, "product not found")
			return
		}
		s.Log.Error("update product", zap.Error(err), zap.Int("product_id", id))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteMessage(w, r, http.StatusOK, "product updated")
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "product not found")
		return
	}

	if err := s.Products.Delete(id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			kit.WriteMessage(w, r, http.StatusNotFound, "product not found")
			return
		}
		s.Log.Error("delete product", zap.Error(err), zap.Int("product_id", id))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteMessage(w, r, http.StatusOK, "product deleted")
}
