package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultAPIURL)
	}

	u, err = parseBaseURL("example.com:1234/api/products/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Path != "/api/products" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL accepted url without host")
	}
}

func TestClient_ListCreateUpdate(t *testing.T) {
	t.Parallel()

	var (
		gotCreate   Payload
		gotUpdate   Payload
		updatePath  string
		contentType string
		requestID   string
		userAgent   string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		requestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/products":
			_, _ = io.WriteString(w, `[
				{"id": 1, "title": "Apple", "price": 10, "category": {"id": 2, "name": "Fruit"}, "images": ["a.png"]},
				{"id": "x-2", "title": "banana", "price": "bad", "category": 7}
			]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/products":
			contentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&gotCreate)
			_, _ = io.WriteString(w, `{"id": 99, "title": "Cherry", "price": 3}`)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/v1/products/"):
			updatePath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotUpdate)
			_, _ = io.WriteString(w, `{"id": 1, "title": "Green Apple", "price": 12}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api/v1/products/", WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	products, f := c.List(ctx)
	if f != nil {
		t.Fatalf("List returned failure: %v", f)
	}
	if len(products) != 2 {
		t.Fatalf("List returned %d products, want 2", len(products))
	}
	if products[0].ID != "1" || products[0].Category.Label() != "Fruit" || products[0].Images.First() != "a.png" {
		t.Fatalf("first product = %#v", products[0])
	}
	if products[1].ID != "x-2" || products[1].Price.Amount() != 0 || products[1].Price.String() != "bad" {
		t.Fatalf("second product = %#v, want coerced price", products[1])
	}
	if products[1].Category.Label() != "7" {
		t.Fatalf("legacy category label = %q, want 7", products[1].Category.Label())
	}

	cat := 4
	res := c.Create(ctx, Payload{Title: "Cherry", Price: 3, CategoryID: &cat, Images: []string{}})
	if !res.OK() {
		t.Fatalf("Create failed: %v", res.Failure)
	}
	if res.Product.ID != "99" {
		t.Fatalf("created id = %q, want 99", res.Product.ID)
	}
	if contentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", contentType)
	}
	if gotCreate.Title != "Cherry" || gotCreate.CategoryID == nil || *gotCreate.CategoryID != 4 {
		t.Fatalf("create body = %#v", gotCreate)
	}

	res = c.Update(ctx, "1", Payload{Title: "Green Apple", Price: 12, Images: []string{"b.png"}})
	if !res.OK() {
		t.Fatalf("Update failed: %v", res.Failure)
	}
	if updatePath != "/api/v1/products/1" {
		t.Fatalf("update path = %q, want /api/v1/products/1", updatePath)
	}
	if gotUpdate.CategoryID != nil || len(gotUpdate.Images) != 1 {
		t.Fatalf("update body = %#v", gotUpdate)
	}
	if res.Product.Title != "Green Apple" {
		t.Fatalf("updated title = %q", res.Product.Title)
	}

	if !strings.HasPrefix(userAgent, "shopkeep/") {
		t.Fatalf("User-Agent = %q, want shopkeep/*", userAgent)
	}
	if requestID == "" {
		t.Fatalf("X-Request-ID not set")
	}
}

func TestClient_ServerRejectedAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case http.MethodPut:
			http.Error(w, `{"message":"nope"}`, http.StatusInternalServerError)
		case http.MethodPost:
			http.Error(w, "bad", http.StatusBadRequest)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	products, f := c.List(context.Background())
	if f == nil || f.Kind != ServerRejected || !strings.Contains(f.Error(), "decode response") {
		t.Fatalf("List failure = %v, want decode failure", f)
	}
	if products == nil || len(products) != 0 {
		t.Fatalf("List products = %#v, want empty non-nil slice", products)
	}

	res := c.Update(context.Background(), "5", Payload{Title: "x"})
	if res.OK() || res.Failure.Kind != ServerRejected || res.Failure.Status != http.StatusInternalServerError {
		t.Fatalf("Update failure = %#v, want server rejected 500", res.Failure)
	}

	res = c.Create(context.Background(), Payload{Title: "x"})
	if res.OK() || res.Failure.Status != http.StatusBadRequest {
		t.Fatalf("Create failure = %#v, want status 400", res.Failure)
	}
}

func TestClient_NetworkUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	res := c.Update(context.Background(), "1", Payload{Title: "x"})
	if res.OK() || res.Failure.Kind != NetworkUnavailable {
		t.Fatalf("Update failure = %#v, want network unavailable", res.Failure)
	}
	if res.Failure.Status != 0 {
		t.Fatalf("Status = %d, want 0 for connectivity failures", res.Failure.Status)
	}

	products, f := c.List(context.Background())
	if f == nil || f.Kind != NetworkUnavailable || len(products) != 0 {
		t.Fatalf("List = (%v, %v), want empty + network unavailable", products, f)
	}
}

func TestClient_UpdateRequiresID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	res := c.Update(context.Background(), " ", Payload{})
	if res.OK() {
		t.Fatalf("Update with blank id succeeded")
	}
}

func TestClient_EscapesStringIDs(t *testing.T) {
	c, err := NewClient("http://example.com/products")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	got := c.itemURL("a b/c").String()
	if got != "http://example.com/products/a%20b%2Fc" {
		t.Fatalf("itemURL = %q", got)
	}
}
