package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"order-etl/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Observe(t *testing.T) {
	r := NewRegistry()

	r.ObserveExtract(3, 7)
	r.ObserveLoad(model.LoadResult{Requested: 3, Inserted: 2, Duplicates: 1})
	r.ObserveRun(1500*time.Millisecond, nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.OrdersExtracted))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.ItemsExtracted))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.DocumentsInserted))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.DuplicatesSkipped))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.RunDurationSec))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.RunFailed))
	assert.Greater(t, testutil.ToFloat64(r.LastSuccessUnix), 0.0)
}

func TestRegistry_ObserveFailedRun(t *testing.T) {
	r := NewRegistry()

	r.ObserveRun(time.Second, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.RunFailed))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.LastSuccessUnix))
}

func TestRegistry_Push(t *testing.T) {
	var path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path = req.URL.Path
		data, _ := io.ReadAll(req.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := NewRegistry()
	r.ObserveExtract(4, 9)

	require.NoError(t, r.Push(context.Background(), server.URL, "order_etl"))
	assert.Equal(t, "/metrics/job/order_etl", path)
	assert.NotEmpty(t, body)
}

func TestRegistry_PushFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewRegistry().Push(context.Background(), server.URL, "order_etl")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to push metrics"))
}
