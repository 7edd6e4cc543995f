package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPContentClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `*[_type == "product"]`, r.URL.Query().Get("query"))
		assert.Equal(t, `"steel-bracket"`, r.URL.Query().Get("$slug"))
		w.Write([]byte(`{"result": {"_id": "prod-1"}}`))
	}))
	defer server.Close()

	client := NewHTTPContentClient(server.URL, nil)
	raw, err := client.Fetch(context.Background(), `*[_type == "product"]`, map[string]string{"slug": "steel-bracket"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"_id": "prod-1"}`, string(raw))
}

func TestHTTPContentClient_NullResultIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": null}`))
	}))
	defer server.Close()

	client := NewHTTPContentClient(server.URL, nil)
	raw, err := client.Fetch(context.Background(), "query", nil)

	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestHTTPContentClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPContentClient(server.URL, nil)
	_, err := client.Fetch(context.Background(), "query", nil)

	assert.Error(t, err)
}
