package recaptcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(endpoint string, timeout time.Duration) *Client {
	c := New("test-secret", timeout)
	c.endpoint = endpoint
	return c
}

func TestVerifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if r.PostFormValue("secret") != "test-secret" {
			t.Errorf("Expected secret to be forwarded, got %q", r.PostFormValue("secret"))
		}
		if r.PostFormValue("response") != "proof-token" {
			t.Errorf("Expected proof token to be forwarded, got %q", r.PostFormValue("response"))
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	c := testClient(server.URL, time.Second)
	if !c.Verify(context.Background(), "proof-token", "203.0.113.7") {
		t.Error("Expected verification to succeed")
	}
}

func TestVerifyFailureReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	c := testClient(server.URL, time.Second)
	if c.Verify(context.Background(), "proof-token", "") {
		t.Error("Expected verification to fail when service reports failure")
	}
}

func TestVerifyMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := testClient(server.URL, time.Second)
	if c.Verify(context.Background(), "proof-token", "") {
		t.Error("Expected verification to fail on malformed response")
	}
}

func TestVerifyNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := testClient(server.URL, time.Second)
	if c.Verify(context.Background(), "proof-token", "") {
		t.Error("Expected verification to fail on non-200 status")
	}
}

func TestVerifyTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	c := testClient(server.URL, 50*time.Millisecond)
	if c.Verify(context.Background(), "proof-token", "") {
		t.Error("Expected verification to fail on timeout, never to succeed")
	}
}
