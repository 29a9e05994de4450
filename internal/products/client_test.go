package products

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/product/3017620422003.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
  "status_verbose": "product found",
  "product": {
    "lang": "fr",
    "images": {
      "1": {}, "2": {}, "10": {},
      "front_fr": {}, "nutrition_fr": {}
    }
  }
}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	product, err := client.GetProduct(context.Background(), "3017620422003")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}

	if product.MainLanguage != "fr" {
		t.Errorf("MainLanguage = %s, want fr", product.MainLanguage)
	}
	if want := []int{1, 2, 10}; !reflect.DeepEqual(product.ImageIDs, want) {
		t.Errorf("ImageIDs = %v, want %v (raw uploads only, sorted)", product.ImageIDs, want)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Run("http 404", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).GetProduct(context.Background(), "x")
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("status verbose", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status_verbose": "product not found"}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).GetProduct(context.Background(), "x")
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})
}

func TestGetProductRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status_verbose": "product found", "product": {"lang": "en", "images": {"1": {}}}}`))
	}))
	defer srv.Close()

	product, err := NewClient(srv.URL).GetProduct(context.Background(), "x")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if product.MainLanguage != "en" {
		t.Errorf("MainLanguage = %s, want en", product.MainLanguage)
	}
}
