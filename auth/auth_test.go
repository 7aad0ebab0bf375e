package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token123","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenIsCached(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)
	c := NewClientCred(Config{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL})

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token123", tok)
	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, c.SetAuthHeader(req))
	assert.Equal(t, "Bearer token123", req.Header.Get("Authorization"))
}

func TestTokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()
	_, err := NewClientCred(Config{ClientID: "id", ClientSecret: "bad", TokenURL: srv.URL}).Token(context.Background())
	assert.Error(t, err)
}

func TestConcurrentSetAuthHeader(t *testing.T) {
	var calls int32
	srv := tokenServer(t, &calls)
	c := NewClientCred(Config{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
			if err := c.SetAuthHeader(req); err != nil {
				errs <- err
				return
			}
			if req.Header.Get("Authorization") != "Bearer token123" {
				errs <- fmt.Errorf("header %q", req.Header.Get("Authorization"))
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{TokenURL: "http://x"}.Validate())
	assert.NoError(t, Config{TokenURL: "http://x", ClientID: "a", ClientSecret: "b"}.Validate())
}
