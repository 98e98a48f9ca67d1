package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopveda/storefront/internal/domain/product"
)

// productResponse is the catalog item as exposed over the API.
type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Image       string          `json:"image,omitempty"`
	Stock       int             `json:"stock"`
	Active      bool            `json:"active"`
}

func (h *Handler) toProductResponse(p product.Product) productResponse {
	image := p.Image
	if image != "" && !strings.HasPrefix(image, "http") {
		image = h.imageBaseURL + image
	}
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        product.Slugify(p.Name),
		Price:       p.Price,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Image:       image,
		Stock:       p.Stock,
		Active:      p.Active,
	}
}

// ListProducts returns every product in the catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = h.toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toProductResponse(*p))
}

// productRequest is the admin create/update payload.
type productRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
	Active      bool            `json:"active"`
}

func (req *productRequest) validate() string {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return "name required"
	case req.Price.IsNegative() || req.Price.IsZero():
		return "price must be positive"
	case strings.TrimSpace(req.Category) == "":
		return "category required"
	case req.Stock < 0:
		return "stock must not be negative"
	}
	return ""
}

// AdminCreateProduct adds a catalog item.
func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if reason := req.validate(); reason != "" {
		writeError(w, http.StatusBadRequest, reason)
		return
	}

	p := product.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Image:       req.Image,
		Stock:       req.Stock,
		Active:      req.Active,
	}
	if err := h.products.Create(r.Context(), &p); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toProductResponse(p))
}

// AdminUpdateProduct replaces a catalog item's fields.
func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if reason := req.validate(); reason != "" {
		writeError(w, http.StatusBadRequest, reason)
		return
	}

	p := product.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Image:       req.Image,
		Stock:       req.Stock,
		Active:      req.Active,
	}
	if err := h.products.Update(r.Context(), &p); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toProductResponse(p))
}

// AdminDeleteProduct removes a catalog item.
func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
