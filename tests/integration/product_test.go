//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	products := decodeJSONBody[[]productResponse](t, resp)
	if len(products) != 6 {
		t.Fatalf("got %d products, want 6", len(products))
	}
	for _, p := range products {
		if p.ID == "" || p.Name == "" || p.Slug == "" {
			t.Fatalf("incomplete product: %+v", p)
		}
	}
}

func TestGetProduct(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		resp := doGet(t, "/api/products/prod-kashmiri-saffron")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d, want 200", resp.StatusCode)
		}
		p := decodeJSONBody[productResponse](t, resp)
		if p.Name != "Kashmiri Saffron 1g" || p.Price != "950" {
			t.Fatalf("got %s / %s", p.Name, p.Price)
		}
	})

	t.Run("not found", func(t *testing.T) {
		resp := doGet(t, "/api/products/no-such-product")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status %d, want 404", resp.StatusCode)
		}
	})
}

func TestAdminProductCRUD(t *testing.T) {
	created := func() productResponse {
		resp := doJSON(t, http.MethodPost, "/api/admin/products", map[string]any{
			"name": "Terracotta Planter", "price": "275", "category": "Garden", "stock": 12, "active": true,
		}, adminHeaders())
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: status %d", resp.StatusCode)
		}
		return decodeJSONBody[productResponse](t, resp)
	}()

	resp := doJSON(t, http.MethodPut, "/api/admin/products/"+created.ID, map[string]any{
		"name": "Terracotta Planter", "price": "300", "category": "Garden", "stock": 10, "active": true,
	}, adminHeaders())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}
	updated := decodeJSONBody[productResponse](t, resp)
	resp.Body.Close()
	if updated.Price != "300" {
		t.Fatalf("price = %s, want 300", updated.Price)
	}

	resp = doJSON(t, http.MethodDelete, "/api/admin/products/"+created.ID, nil, adminHeaders())
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	resp = doGet(t, "/api/products/"+created.ID)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("after delete: status %d, want 404", resp.StatusCode)
	}
}
