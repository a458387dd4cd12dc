package mockapi_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/mockapi"
	"github.com/alex-user-go/hotelview/internal/obs"
	"github.com/alex-user-go/hotelview/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	handler *mockapi.Handler
	metrics *obs.Metrics
}

func newTestServer(t *testing.T, pendingRounds, rate int) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := obs.NewMetrics(logger)
	fixtures, err := mockapi.LoadFixtures()
	require.NoError(t, err)

	limiter := ratelimit.New(rate, time.Minute)
	t.Cleanup(limiter.Close)

	h := mockapi.NewHandler(fixtures, pendingRounds, metrics, logger)
	return &testServer{
		router:  mockapi.NewRouter(h, limiter, []string{"http://localhost:3000"}, metrics, logger),
		handler: h,
		metrics: metrics,
	}
}

func (s *testServer) get(t *testing.T, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func TestHandler_ListHotels(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []string
		wantError  string
	}{
		{
			name:       "destination with hotels",
			query:      "destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=2",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"diH7", "SjyX", "o0Kg"},
		},
		{
			name:       "unknown destination",
			query:      "destination_id=nope",
			wantStatus: http.StatusOK,
			wantIDs:    []string{},
		},
		{
			name:       "missing destination",
			query:      "checkin=2025-12-01",
			wantStatus: http.StatusBadRequest,
			wantError:  "destination_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, 0, 100)
			w := s.get(t, "/api/hotels?"+tt.query)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, w))
				return
			}

			var hotels []booking.Hotel
			require.NoError(t, json.NewDecoder(w.Body).Decode(&hotels))
			ids := make([]string, 0, len(hotels))
			for _, h := range hotels {
				ids = append(ids, h.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestHandler_GetHotel(t *testing.T) {
	s := newTestServer(t, 0, 100)

	w := s.get(t, "/api/hotels/diH7")
	require.Equal(t, http.StatusOK, w.Code)

	var hotel booking.Hotel
	require.NoError(t, json.NewDecoder(w.Body).Decode(&hotel))
	assert.Equal(t, "The Fullerton Hotel", hotel.Name)
	assert.Len(t, hotel.Photos(), 5)
	assert.Equal(t, "https://d2ey9sqrvkqdfs.cloudfront.net/diH7/0.jpg", hotel.Photos()[0])

	missing := s.get(t, "/api/hotels/nope")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "hotel not found", decodeError(t, missing))
}

func TestHandler_GetPrice_PendingRounds(t *testing.T) {
	s := newTestServer(t, 2, 100)
	target := "/hotels/diH7/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=2&rooms=2"

	for round := 1; round <= 2; round++ {
		w := s.get(t, target)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"completed":false,"rooms":[]}`, w.Body.String(), "round %d", round)
	}

	w := s.get(t, target)
	require.Equal(t, http.StatusOK, w.Code)

	var resp mockapi.PriceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.True(t, resp.Completed)
	require.Len(t, resp.Rooms, 3)

	// 310 per night, 2 nights, 2 rooms.
	assert.Equal(t, 1240.0, resp.Rooms[0].Price)
	want := []mockapi.Image{
		{URL: "https://i.travelapi.com/hotels/diH7/premier_0.jpg"},
		{URL: "https://i.travelapi.com/hotels/diH7/premier_1.jpg"},
		{URL: "https://i.travelapi.com/hotels/diH7/premier_2.jpg"},
	}
	if diff := cmp.Diff(want, resp.Rooms[0].Images); diff != "" {
		t.Errorf("images mismatch (-want +got):\n%s", diff)
	}

	// A different query has its own round counter.
	other := s.get(t, strings.Replace(target, "guests=2", "guests=3", 1))
	assert.JSONEq(t, `{"completed":false,"rooms":[]}`, other.Body.String())

	reset := httptest.NewRecorder()
	s.router.ServeHTTP(reset, httptest.NewRequest(http.MethodPost, "/admin/reset", nil))
	assert.Equal(t, http.StatusNoContent, reset.Code)
	assert.JSONEq(t, `{"completed":false,"rooms":[]}`, s.get(t, target).Body.String())

	assert.Equal(t, int64(5), s.metrics.Snapshot().PollAttempts)
}

func TestHandler_GetPrice_RoomsDefaultToOne(t *testing.T) {
	s := newTestServer(t, 0, 100)

	w := s.get(t, "/hotels/SjyX/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-04&guests=3")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp mockapi.PriceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.True(t, resp.Completed)
	// 230 per night, 3 nights, 1 room; the guest count does not change the price.
	assert.Equal(t, 690.0, resp.Rooms[0].Price)
}

func TestHandler_Reset(t *testing.T) {
	s := newTestServer(t, 1, 100)
	target := "/hotels/SjyX/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=2"

	assert.JSONEq(t, `{"completed":false,"rooms":[]}`, s.get(t, target).Body.String())
	assert.Contains(t, s.get(t, target).Body.String(), `"completed":true`)

	s.handler.Reset()
	assert.JSONEq(t, `{"completed":false,"rooms":[]}`, s.get(t, target).Body.String())
}

func TestParsePriceParams_ErrorsCarryStack(t *testing.T) {
	tests := []struct {
		name  string
		query string
		frame string
	}{
		{name: "missing destination", query: "checkin=2025-12-01", frame: "mockapi.ParsePriceParams"},
		{name: "bad date", query: "destination_id=WD0M&checkin=2025/12/01", frame: "mockapi.parseDate"},
		{name: "bad guests", query: "destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=0", frame: "mockapi.parseCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/hotels/diH7/prices?"+tt.query, nil)
			_, err := mockapi.ParsePriceParams(req)
			require.Error(t, err)
			assert.Contains(t, fmt.Sprintf("%+v", err), tt.frame)
		})
	}
}

func TestParsePriceParams_Query(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/hotels/diH7/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=2&rooms=2", nil)

	p, err := mockapi.ParsePriceParams(req)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Nights())

	q := p.Query("diH7")
	require.NoError(t, q.Validate())
	assert.Equal(t, "diH7:WD0M:2025-12-01:2025-12-03:2:2", q.Key())
}

func TestHandler_GetPrice_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{
			name:       "unknown hotel",
			target:     "/hotels/nope/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=2",
			wantStatus: http.StatusNotFound,
			wantError:  "hotel not found",
		},
		{
			name:       "missing destination",
			target:     "/hotels/diH7/prices?checkin=2025-12-01&checkout=2025-12-03&guests=2",
			wantStatus: http.StatusBadRequest,
			wantError:  "destination_id is required",
		},
		{
			name:       "bad checkin",
			target:     "/hotels/diH7/prices?destination_id=WD0M&checkin=01/12/2025&checkout=2025-12-03&guests=2",
			wantStatus: http.StatusBadRequest,
			wantError:  "checkin must be in YYYY-MM-DD format",
		},
		{
			name:       "missing checkout",
			target:     "/hotels/diH7/prices?destination_id=WD0M&checkin=2025-12-01&guests=2",
			wantStatus: http.StatusBadRequest,
			wantError:  "checkout is required",
		},
		{
			name:       "checkout before checkin",
			target:     "/hotels/diH7/prices?destination_id=WD0M&checkin=2025-12-03&checkout=2025-12-01&guests=2",
			wantStatus: http.StatusBadRequest,
			wantError:  "checkout must be after checkin",
		},
		{
			name:       "missing guests",
			target:     "/hotels/diH7/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03",
			wantStatus: http.StatusBadRequest,
			wantError:  "guests is required",
		},
		{
			name:       "malformed guests",
			target:     "/hotels/diH7/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=two",
			wantStatus: http.StatusBadRequest,
			wantError:  "guests must be a positive integer",
		},
		{
			name:       "zero rooms",
			target:     "/hotels/diH7/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=2&rooms=0",
			wantStatus: http.StatusBadRequest,
			wantError:  "rooms must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, 0, 100)
			w := s.get(t, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeError(t, w))
		})
	}
}

func TestRouter_Middleware(t *testing.T) {
	t.Run("request id is echoed", func(t *testing.T) {
		s := newTestServer(t, 0, 100)
		w := s.get(t, "/api/hotels/diH7", booking.RequestIDHeader, "req-123")
		assert.Equal(t, "req-123", w.Header().Get(booking.RequestIDHeader))
	})

	t.Run("request id is generated", func(t *testing.T) {
		s := newTestServer(t, 0, 100)
		w := s.get(t, "/healthz")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
		assert.Len(t, w.Header().Get(booking.RequestIDHeader), 36)
	})

	t.Run("cors", func(t *testing.T) {
		s := newTestServer(t, 0, 100)
		w := s.get(t, "/api/hotels/diH7", "Origin", "http://localhost:3000")
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rate limit covers api only", func(t *testing.T) {
		s := newTestServer(t, 0, 1)
		assert.Equal(t, http.StatusOK, s.get(t, "/api/hotels/diH7").Code)
		assert.Equal(t, http.StatusTooManyRequests, s.get(t, "/api/hotels/diH7").Code)
		assert.Equal(t, http.StatusTooManyRequests,
			s.get(t, "/hotels/diH7/prices?destination_id=WD0M&checkin=2025-12-01&checkout=2025-12-03&guests=2").Code)
		assert.Equal(t, http.StatusOK, s.get(t, "/healthz").Code)
	})

	t.Run("metrics", func(t *testing.T) {
		s := newTestServer(t, 0, 100)
		s.get(t, "/api/hotels/diH7")
		w := s.get(t, "/metrics")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "requests_total 1\n")
	})
}
