package smythos

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostSendsJSONBody(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EndpointGenerateListings, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "text/plain, application/json", r.Header.Get("Accept"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, `{"Output":{"listings":[]}}`)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	text, err := c.Call(context.Background(), EndpointGenerateListings, http.MethodPost, map[string]string{"location": "Redmond"}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"Output":{"listings":[]}}`, text)
	assert.Equal(t, "Redmond", gotBody["location"])
}

func TestClient_GetSendsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "SoMa", r.URL.Query().Get("neighborhood"))
		assert.Equal(t, "SF", r.URL.Query().Get("city"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		_, _ = io.WriteString(w, "plain answer")
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL + "/"})
	q := url.Values{"neighborhood": {"SoMa"}, "city": {"SF"}}
	text, err := c.Call(context.Background(), EndpointNeighborhoodData, http.MethodGet, map[string]string{"ignored": "x"}, q)
	require.NoError(t, err)
	assert.Equal(t, "plain answer", text)
}

func TestClient_Non2xxIsHTTPError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "agent crashed")
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	_, err := c.Call(context.Background(), EndpointGenerateAds, http.MethodPost, map[string]string{}, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, "agent crashed", httpErr.Body)
	assert.Contains(t, err.Error(), "SmythOS API Error (502)")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "single attempt only")
}

func TestClient_ConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: addr})
	_, err := c.Call(context.Background(), EndpointAgentProfiles, http.MethodPost, map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable), err.Error())
}

func TestClient_TimeoutIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.Call(context.Background(), EndpointPropertyDetail, http.MethodPost, map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamTimeout), err.Error())
}

func TestClient_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 64))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, MaxBodyBytes: 16})
	_, err := c.Call(context.Background(), EndpointGenerateListings, http.MethodPost, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errPayloadTooLarge))
}
