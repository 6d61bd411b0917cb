package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := DefaultOptions()
	opts.BaseURL = srv.URL
	opts.RetryCount = 2
	opts.RetryWaitTime = time.Millisecond
	opts.RetryMaxWaitTime = 5 * time.Millisecond

	c := NewClient(opts, zerolog.Nop())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetRepeatDecodes(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/thing", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("onlineFetch"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"name":"ok"}`)
	}))

	var out struct {
		Name string `json:"name"`
	}
	err := c.GetRepeat(context.Background(), "/api/v1/thing", map[string][]string{"onlineFetch": {"true"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
}

func TestGetRepeatRetriesTransientStatus(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `[]`)
	}))

	var out []int
	err := c.GetRepeat(context.Background(), "/flaky", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetRepeatSurfacesStatusAfterRetries(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.GetRepeat(context.Background(), "/down", nil, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))

	err := c.GetRepeat(context.Background(), "/missing", nil, nil)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDecodeFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	}))

	var out []int
	err := c.GetRepeat(context.Background(), "/bad", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /bad")
}

func TestSubmitFormRepeatRetriesPatch(t *testing.T) {
	var calls int32
	var bodies []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, formContentType, r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
	}))

	form := NewForm().Set("key", "k").Set("value", "v")
	err := c.SubmitFormRepeat(context.Background(), http.MethodPatch, "/meta", form, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"key=k&value=v", "key=k&value=v"}, bodies)
}

func TestDeleteRepeat(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
	}))

	assert.NoError(t, c.DeleteRepeat(context.Background(), "/x", nil))
}

func TestGetBytesRepeatAppliesOptions(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))

	body, header, err := c.GetBytesRepeat(context.Background(), "/img", func(r *resty.Request) {
		r.SetHeader("Authorization", "Bearer token")
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body)
	assert.Equal(t, "image/png", header.Get("Content-Type"))
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.GetRepeat(ctx, "/x", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
