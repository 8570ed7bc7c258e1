package registry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "registry-token"})
		}))
		defer srv.Close()

		client := &Client{tokenURL: srv.URL}
		token, err := client.Token(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "registry-token", token)
	})

	t.Run("UpstreamError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer srv.Close()

		client := &Client{tokenURL: srv.URL}
		_, err := client.Token(t.Context())
		assert.Error(t, err)
	})
}

func TestSearch(t *testing.T) {
	t.Run("ForwardsAuthorizationAndQuery", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "pytorch", r.URL.Query().Get("query"))
			assert.Equal(t, "20", r.URL.Query().Get("size"))
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": []string{"pytorch/pytorch"}})
		}))
		defer srv.Close()

		client := &Client{searchURL: srv.URL}
		raw, err := client.Search(t.Context(), "pytorch", "Bearer abc")
		require.NoError(t, err)

		parsed := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(raw, &parsed))
		assert.Contains(t, parsed, "results")
	})

	t.Run("EscapesQuery", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "a b&c", r.URL.Query().Get("query"))
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := &Client{searchURL: srv.URL}
		_, err := client.Search(t.Context(), "a b&c", "")
		assert.NoError(t, err)
	})

	t.Run("UpstreamError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such endpoint", http.StatusNotFound)
		}))
		defer srv.Close()

		client := &Client{searchURL: srv.URL}
		_, err := client.Search(t.Context(), "x", "")
		assert.Error(t, err)
	})
}
