package taxgw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"duplo-orders/domain/taxjob"

	"github.com/shopspring/decimal"
)

func testOrderData() taxjob.OrderData {
	return taxjob.OrderData{
		OrderID:    "order-1",
		BusinessID: "biz-1",
		Amount:     decimal.NewFromInt(250),
		Timestamp:  time.Now().UTC(),
	}
}

func fastClient(url string, maxAttempts int) *Client {
	c := NewClient(url, 5*time.Second, maxAttempts)
	c.retryCfg.InitialDelay = time.Millisecond
	c.retryCfg.MaxDelay = 5 * time.Millisecond
	c.retryCfg.JitterEnabled = false
	return c
}

func TestLogTaxSuccess(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"receipt":"abc-123","status":"logged"}`))
	}))
	defer server.Close()

	client := fastClient(server.URL, 3)
	resp, err := client.LogTax(context.Background(), testOrderData())
	if err != nil {
		t.Fatalf("LogTax failed: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}
	if resp["receipt"] != "abc-123" {
		t.Errorf("response = %v, want the decoded body", resp)
	}
}

func TestLogTaxRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"receipt":"eventually"}`))
	}))
	defer server.Close()

	client := fastClient(server.URL, 3)
	resp, err := client.LogTax(context.Background(), testOrderData())
	if err != nil {
		t.Fatalf("LogTax failed after recovery: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if resp["receipt"] != "eventually" {
		t.Errorf("response = %v", resp)
	}
}

func TestLogTaxExhaustsAttemptBudget(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := fastClient(server.URL, 3)
	_, err := client.LogTax(context.Background(), testOrderData())
	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want exactly the attempt budget", calls)
	}
}

func TestLogTaxErrorStatusIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad payload"}`))
	}))
	defer server.Close()

	client := fastClient(server.URL, 1)
	_, err := client.LogTax(context.Background(), testOrderData())
	if err == nil {
		t.Fatal("4xx response must be an error")
	}
}

func TestLogTaxKeepsNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	client := fastClient(server.URL, 1)
	resp, err := client.LogTax(context.Background(), testOrderData())
	if err != nil {
		t.Fatalf("LogTax failed: %v", err)
	}
	if resp["raw"] != "OK" {
		t.Errorf("response = %v, want the raw body preserved", resp)
	}
}

func TestLogTaxEmptyBodyYieldsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := fastClient(server.URL, 1)
	resp, err := client.LogTax(context.Background(), testOrderData())
	if err != nil {
		t.Fatalf("LogTax failed: %v", err)
	}
	if len(resp) != 0 {
		t.Errorf("response = %v, want empty map", resp)
	}
}
