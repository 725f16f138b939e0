package actionapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) (*Client, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:        server.URL,
		Timeout:        2 * time.Second,
		MaxRetries:     maxRetries,
		RetryBaseDelay: 100 * time.Millisecond,
	})

	var delays []time.Duration
	client.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return client, &delays
}

func TestGetRetriesServerErrorsWithExponentialBackoff(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"success":true,"data":{"name":"UV sterilizer"}}`)
	})

	client, delays := newTestClient(t, handler, 3)

	data, err := client.Get(context.Background(), "getEquipment", map[string]string{"id": "eq-1"})
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "UV sterilizer", payload["name"])

	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	// delay between attempt i and i+1 doubles from the base delay
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	}, *delays)
}

func TestGetSurfacesServerErrorAfterRetriesExhausted(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, delays := newTestClient(t, handler, 2)

	_, err := client.Get(context.Background(), "listEquipment", nil)
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls)) // 1 attempt + 2 retries
	assert.Len(t, *delays, 2)
}

func TestTimeoutIsNeverRetried(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"success":true}`)
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:        server.URL,
		Timeout:        50 * time.Millisecond,
		MaxRetries:     3,
		RetryBaseDelay: 10 * time.Millisecond,
	})
	var delays []time.Duration
	client.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := client.Get(context.Background(), "getEquipment", map[string]string{"id": "eq-1"})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindTimeout, apiErr.Kind)
	assert.Greater(t, apiErr.Elapsed, time.Duration(0))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, delays)
}

func TestClientErrorIsNeverRetried(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	client, delays := newTestClient(t, handler, 3)

	_, err := client.Get(context.Background(), "getEquipment", map[string]string{"id": "missing"})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, *delays)
}

func TestBusinessErrorIsNeverRetried(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"success":false,"error":"equipment not found"}`)
	})

	client, delays := newTestClient(t, handler, 3)

	_, err := client.Post(context.Background(), "updateEquipment", map[string]interface{}{"id": "eq-9"})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindBusiness, apiErr.Kind)
	assert.Equal(t, "equipment not found", apiErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, *delays)
}

func TestGetSkipsEmptyParamsAndSerializesAction(t *testing.T) {
	var gotQuery map[string][]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"success":true,"data":[]}`)
	})

	client, _ := newTestClient(t, handler, 0)

	_, err := client.Get(context.Background(), "searchEquipment", map[string]string{
		"query":  "softener",
		"status": "",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"searchEquipment"}, gotQuery["action"])
	assert.Equal(t, []string{"softener"}, gotQuery["query"])
	_, present := gotQuery["status"]
	assert.False(t, present)
}

func TestPostMergesActionIntoBody(t *testing.T) {
	var gotBody map[string]interface{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"success":true}`)
	})

	client, _ := newTestClient(t, handler, 0)

	_, err := client.Post(context.Background(), "createEquipment", map[string]interface{}{
		"name": "Dosing pump",
	})
	require.NoError(t, err)

	assert.Equal(t, "createEquipment", gotBody["action"])
	assert.Equal(t, "Dosing pump", gotBody["name"])
}
