package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainmyanmar/rainmap/internal/selection"
)

func testRequest() Request {
	return Request{
		StartDate: "2020-01-01",
		EndDate:   "2020-12-31",
		Target: selection.QueryTarget{
			Method:    selection.ModeArea,
			Target:    "Yangon",
			AreaType:  selection.AreaRegion,
			Products:  []string{"CHIRPS"},
			Timestep:  "day",
			Statistic: "mean",
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, zerolog.Nop())
}

func TestRequestValues(t *testing.T) {
	v := testRequest().values()
	assert.Equal(t, "area", v.Get("method"))
	assert.Equal(t, "Yangon", v.Get("target"))
	assert.Equal(t, "regions", v.Get("areaType"), "areaType travels in plural wire form")
	assert.Equal(t, "CHIRPS", v.Get("product"))

	r := testRequest()
	r.Target.Method = selection.ModeShapefile
	r.Target.Products = []string{"CHIRPS", "TRMM"}
	v = r.values()
	assert.Equal(t, "CHIRPS,TRMM", v.Get("product"))
	assert.False(t, v.Has("areaType"), "areaType only travels in area mode")
}

func TestGraph(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/graph", r.URL.Path)
		fmt.Fprint(w, `[["Date","Yangon"],["2020-01-01",4.2],["2020-01-02",0]]`)
	})

	data, err := c.Graph(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.Equal(t, []any{"Date", "Yangon"}, []any(data[0]))

	// Second identical request is served from cache.
	_, err = c.Graph(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestGraphBackendError(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"error": "Area too large, deadline exceeded"}`)
	})

	_, err := c.Graph(context.Background(), testRequest())
	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "Area too large, deadline exceeded", berr.Message)

	// Failures are not cached.
	_, _ = c.Graph(context.Background(), testRequest())
	assert.Equal(t, 2, hits)
}

func TestGraphNetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1", zerolog.Nop())
	_, err := c.Graph(context.Background(), testRequest())
	var nerr *NetworkError
	assert.ErrorAs(t, err, &nerr)
}

func TestOverlay(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/overlay", r.URL.Path)
		fmt.Fprint(w, `{"mapid":"abc","token":"tok","max":31.5,"min":0,"download_url":"https://example.org/dl"}`)
	})

	info, err := c.Overlay(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "abc", info.MapID)
	assert.Equal(t, 31.5, info.Max)
}

func TestOverlayRetriesTimeout(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			fmt.Fprint(w, `{"error": "Timeout, deadline exceeded"}`)
			return
		}
		fmt.Fprint(w, `{"mapid":"abc","token":"tok","max":1,"min":0,"download_url":""}`)
	})

	info, err := c.Overlay(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "abc", info.MapID)
	assert.Equal(t, 3, hits)
}

func TestOverlayGivesUpAfterRetries(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"error": "Timeout, deadline exceeded"}`)
	})

	_, err := c.Overlay(context.Background(), testRequest())
	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "Timeout, deadline exceeded", berr.Message)
	assert.Equal(t, 5, hits, "initial attempt plus four retries")
}

func TestOverlayNonTimeoutErrorNotRetried(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"error": "Did not set correct method!"}`)
	})

	_, err := c.Overlay(context.Background(), testRequest())
	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 1, hits)
}

func TestValidateShapefile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shapefile", r.URL.Path)
		if r.URL.Query().Get("link") == "users/someone/good" {
			fmt.Fprint(w, `{"success": "true"}`)
			return
		}
		fmt.Fprint(w, `{"error": "Collection not found"}`)
	})

	assert.NoError(t, c.ValidateShapefile(context.Background(), "users/someone/good"))

	err := c.ValidateShapefile(context.Background(), "users/someone/bad")
	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "Collection not found", berr.Message)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "boom", UserMessage(&BackendError{Message: "boom"}))
	assert.Equal(t, "Error obtaining data!", UserMessage(&NetworkError{Err: errors.New("refused")}))
	assert.Equal(t, "Error obtaining data!", UserMessage(errors.New("other")))
}

func TestChartDataCSV(t *testing.T) {
	d := ChartData{
		{"Date", "Yangon, City"},
		{"2020-01-01", 4.2},
		{"2020-01-02", 0},
	}
	want := "\"Date\",\"Yangon, City\"\r\n\"2020-01-01\",4.2\r\n\"2020-01-02\",0"
	assert.Equal(t, want, d.CSV())
}
