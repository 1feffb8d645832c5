package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, baseURL string) Client {
	t.Helper()
	client, err := NewInstrumentedClient(
		WithProviderName("test"),
		WithBaseURL(baseURL),
		WithRequestTimeout(time.Second),
		WithHeaders(map[string]string{"X-Api-Key": "secret"}),
	)
	if err != nil {
		t.Fatalf("NewInstrumentedClient: %v", err)
	}
	return client
}

func TestGetDecodesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("X-Api-Key = %q, want %q", got, "secret")
		}
		if got := r.URL.Query().Get("symbol"); got != "GALA" {
			t.Errorf("symbol = %q, want %q", got, "GALA")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	var result struct {
		Status string `json:"status"`
	}
	resp, err := testClient(t, server.URL).NewRequest().
		SetQueryParam("symbol", "GALA").
		SetResult(&result).
		Get(context.Background(), "/v1/pools")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !resp.IsSuccess() {
		t.Fatalf("status = %d, want success", resp.StatusCode)
	}
	if result.Status != "ok" {
		t.Errorf("result.Status = %q, want %q", result.Status, "ok")
	}
}

func TestPostEncodesJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		var body map[string]int
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["amount"] != 100 {
			t.Errorf("amount = %d, want 100", body["amount"])
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	resp, err := testClient(t, server.URL).NewRequest().
		SetBody(map[string]int{"amount": 100}).
		Post(context.Background(), "/v1/settlements")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
}

func TestErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	resp, err := testClient(t, server.URL).NewRequest().Get(context.Background(), "/v1/pools")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !resp.IsError() {
		t.Errorf("IsError() = false for status %d", resp.StatusCode)
	}
}

func TestResponseErrorHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	wantErr := errors.New("throttled")
	client := testClient(t, server.URL)
	resp, err := client.NewRequestWithOptions(
		WithResponseErrorHandler(func(statusCode int, body []byte) error {
			if statusCode == http.StatusTooManyRequests {
				return wantErr
			}
			return nil
		}),
	).Get(context.Background(), "/v1/pools")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("response not returned alongside handler error")
	}
}

func TestAbsoluteURLBypassesBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Base URL points nowhere; the absolute request URL must win.
	resp, err := testClient(t, "http://127.0.0.1:0").NewRequest().
		Get(context.Background(), server.URL+"/v1/pools")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("status = %d, want success", resp.StatusCode)
	}
}
