package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticTokenSource struct {
	token string
}

func (source *staticTokenSource) Token(_ context.Context) string {
	return source.token
}

func TestClientInjectsBearerToken(test *testing.T) {
	test.Parallel()

	var seenAuthorization string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seenAuthorization = request.Header.Get("Authorization")
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"status":"ok"}`))
	}))
	test.Cleanup(server.Close)

	client, err := New(server.URL, WithTokenSource(&staticTokenSource{token: "abc123"}))
	if err != nil {
		test.Fatalf("client init failed: %v", err)
	}
	if err := client.doJSON(context.Background(), http.MethodGet, "/anything", nil, nil); err != nil {
		test.Fatalf("unexpected error: %v", err)
	}
	if seenAuthorization != "Bearer abc123" {
		test.Fatalf("expected bearer header, got %q", seenAuthorization)
	}
}

func TestClientSkipsAuthorizationWhenLoggedOut(test *testing.T) {
	test.Parallel()

	var seenAuthorization string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seenAuthorization = request.Header.Get("Authorization")
		_, _ = writer.Write([]byte(`{}`))
	}))
	test.Cleanup(server.Close)

	client, err := New(server.URL, WithTokenSource(&staticTokenSource{token: ""}))
	if err != nil {
		test.Fatalf("client init failed: %v", err)
	}
	if err := client.doJSON(context.Background(), http.MethodGet, "/anything", nil, nil); err != nil {
		test.Fatalf("unexpected error: %v", err)
	}
	if seenAuthorization != "" {
		test.Fatalf("expected no authorization header, got %q", seenAuthorization)
	}
}

func TestClientMapsStatusCodesToErrors(test *testing.T) {
	test.Parallel()

	testCases := []struct {
		name       string
		status     int
		body       string
		wantTarget error
		wantCode   string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"code":"unauthorized","message":"missing bearer token"}}`, wantTarget: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":{"code":"forbidden","message":"staff access required"}}`, wantTarget: ErrForbidden},
		{name: "not found", status: http.StatusNotFound, body: `{"error":{"code":"unknown_item","message":"no such cart item"}}`, wantTarget: ErrNotFound},
		{name: "conflict carries the envelope", status: http.StatusConflict, body: `{"error":{"code":"out_of_stock","message":"not enough keys in stock"}}`, wantCode: "out_of_stock"},
		{name: "malformed error body", status: http.StatusInternalServerError, body: `boom`, wantCode: "unknown"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.status)
				_, _ = writer.Write([]byte(testCase.body))
			}))
			test.Cleanup(server.Close)

			client, err := New(server.URL)
			if err != nil {
				test.Fatalf("client init failed: %v", err)
			}
			operationError := client.doJSON(context.Background(), http.MethodGet, "/anything", nil, nil)
			if operationError == nil {
				test.Fatalf("expected error for status %d", testCase.status)
			}
			if testCase.wantTarget != nil && !errors.Is(operationError, testCase.wantTarget) {
				test.Fatalf("expected %v, got %v", testCase.wantTarget, operationError)
			}
			if testCase.wantCode != "" {
				var apiError *APIError
				if !errors.As(operationError, &apiError) {
					test.Fatalf("expected APIError, got %v", operationError)
				}
				if apiError.Code != testCase.wantCode {
					test.Fatalf("expected code %q, got %q", testCase.wantCode, apiError.Code)
				}
			}
		})
	}
}

func TestClientInvokesUnauthorizedCallback(test *testing.T) {
	test.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"error":{"code":"unauthorized","message":"invalid or expired token"}}`))
	}))
	test.Cleanup(server.Close)

	evictions := 0
	client, err := New(server.URL, WithOnUnauthorized(func(_ context.Context) { evictions++ }))
	if err != nil {
		test.Fatalf("client init failed: %v", err)
	}
	if err := client.doJSON(context.Background(), http.MethodGet, "/cart/items", nil, nil); !errors.Is(err, ErrUnauthorized) {
		test.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if evictions != 1 {
		test.Fatalf("expected one eviction callback, got %d", evictions)
	}
}

func TestCartAPIUsesTheExpectedRoutes(test *testing.T) {
	test.Parallel()

	type recordedRequest struct {
		method string
		path   string
		body   map[string]any
	}
	var recorded []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		entry := recordedRequest{method: request.Method, path: request.URL.Path}
		if request.Body != nil {
			_ = json.NewDecoder(request.Body).Decode(&entry.body)
		}
		recorded = append(recorded, entry)
		writer.Header().Set("Content-Type", "application/json")
		switch {
		case request.URL.Path == "/cart/items" && request.Method == http.MethodGet:
			_, _ = writer.Write([]byte(`{"data":[{"id":"item-1","game_key_id":"key-1","quantity":2,"unit_price_cents":1999}]}`))
		case request.URL.Path == "/cart/add":
			_, _ = writer.Write([]byte(`{"id":"item-1","game_key_id":"key-1","quantity":2,"unit_price_cents":1999}`))
		default:
			_, _ = writer.Write([]byte(`{"status":"ok"}`))
		}
	}))
	test.Cleanup(server.Close)

	client, err := New(server.URL)
	if err != nil {
		test.Fatalf("client init failed: %v", err)
	}
	api := NewCartAPI(client)
	ctx := context.Background()

	items, err := api.FetchItems(ctx)
	if err != nil {
		test.Fatalf("fetch failed: %v", err)
	}
	if len(items) != 1 || items[0].UnitPriceCents != 1999 {
		test.Fatalf("unexpected items: %+v", items)
	}
	if _, err := api.AddItem(ctx, "key-1", 2); err != nil {
		test.Fatalf("add failed: %v", err)
	}
	if _, err := api.UpdateQuantity(ctx, "item-1", 3); err != nil {
		test.Fatalf("update failed: %v", err)
	}
	if err := api.RemoveItem(ctx, "item-1"); err != nil {
		test.Fatalf("remove failed: %v", err)
	}
	if err := api.Clear(ctx); err != nil {
		test.Fatalf("clear failed: %v", err)
	}

	wantPaths := []recordedRequest{
		{method: http.MethodGet, path: "/cart/items"},
		{method: http.MethodPost, path: "/cart/add"},
		{method: http.MethodPut, path: "/cart/items/item-1"},
		{method: http.MethodDelete, path: "/cart/remove/item-1"},
		{method: http.MethodDelete, path: "/cart/clear"},
	}
	if len(recorded) != len(wantPaths) {
		test.Fatalf("expected %d requests, got %d", len(wantPaths), len(recorded))
	}
	for index, want := range wantPaths {
		if recorded[index].method != want.method || recorded[index].path != want.path {
			test.Fatalf("request %d: expected %s %s, got %s %s",
				index, want.method, want.path, recorded[index].method, recorded[index].path)
		}
	}
	if quantity, ok := recorded[1].body["quantity"].(float64); !ok || quantity != 2 {
		test.Fatalf("add request should carry quantity 2, got %v", recorded[1].body)
	}
}
