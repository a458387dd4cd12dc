package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alex-user-go/hotelview/internal/errs"
	"github.com/alex-user-go/hotelview/internal/obs"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is kept for logging.
const maxErrorBody = 512

// Client queries the booking API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *obs.Metrics
	logger     *slog.Logger
}

// NewClient creates a new Client.
func NewClient(baseURL string, timeout time.Duration, metrics *obs.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// GetHotel fetches the detail record of a hotel.
func (c *Client) GetHotel(ctx context.Context, id string) (*Hotel, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.Mark(errs.New("hotel id is required"), ErrNotFound)
	}

	var hotel Hotel
	if err := c.get(ctx, "/api/hotels/"+url.PathEscape(id), nil, &hotel); err != nil {
		return nil, errs.Wrapf(err, "get hotel %s", id)
	}
	return &hotel, nil
}

// GetPrices fetches one round of room prices for a hotel. The API answers
// with completed=false until it has collected every offer.
func (c *Client) GetPrices(ctx context.Context, q PriceQuery) (*PriceResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("destination_id", q.DestinationID)
	params.Set("checkin", q.CheckIn.Format(DateLayout))
	params.Set("checkout", q.CheckOut.Format(DateLayout))
	params.Set("guests", strconv.Itoa(q.Guests))
	params.Set("rooms", strconv.Itoa(q.RoomCount()))

	var wire priceResponse
	if err := c.get(ctx, "/hotels/"+url.PathEscape(q.HotelID)+"/prices", params, &wire); err != nil {
		return nil, errs.Wrapf(err, "get prices for %s", q.HotelID)
	}
	return wire.toResult(), nil
}

// SearchHotels lists hotels for a destination.
func (c *Client) SearchHotels(ctx context.Context, q SearchQuery) ([]Hotel, error) {
	params := url.Values{}
	params.Set("destination_id", q.DestinationID)
	if !q.CheckIn.IsZero() {
		params.Set("checkIn", q.CheckIn.Format(DateLayout))
	}
	if !q.CheckOut.IsZero() {
		params.Set("checkOut", q.CheckOut.Format(DateLayout))
	}
	if q.Adults > 0 {
		params.Set("adults", strconv.Itoa(q.Adults))
	}
	if q.Children > 0 {
		params.Set("children", strconv.Itoa(q.Children))
	}
	if q.Rooms > 0 {
		params.Set("rooms", strconv.Itoa(q.Rooms))
	}

	var hotels []Hotel
	if err := c.get(ctx, "/api/hotels", params, &hotels); err != nil {
		return nil, errs.Wrapf(err, "search hotels in %s", q.DestinationID)
	}
	return hotels, nil
}

// get issues a GET request and decodes a JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return errs.Mark(fmt.Errorf("invalid base URL: %w", err), ErrTransport)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errs.Mark(fmt.Errorf("failed to create request: %w", err), ErrTransport)
	}
	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	c.metrics.IncRequests()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IncTransportErrors()
		return errs.Mark(fmt.Errorf("request failed: %w", err), ErrTransport)
	}
	defer func() {
		_ = resp.Body.Close() // Explicitly ignore close error
	}()

	c.logger.Debug("booking api response",
		"request_id", requestID,
		"path", u.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.Mark(fmt.Errorf("%s returned 404", u.Path), ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.metrics.IncTransportErrors()
		return errs.Mark(fmt.Errorf("api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), ErrTransport)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.IncTransportErrors()
		return errs.Mark(fmt.Errorf("failed to parse response: %w", err), ErrTransport)
	}
	return nil
}

// priceResponse mirrors the price endpoint, where room images are objects.
type priceResponse struct {
	Completed bool       `json:"completed"`
	Rooms     []wireRoom `json:"rooms"`
}

type wireRoom struct {
	Key         string      `json:"key"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Images      []wireImage `json:"images"`
	Amenities   []string    `json:"amenities"`
}

type wireImage struct {
	URL string `json:"url"`
}

func (r priceResponse) toResult() *PriceResult {
	result := &PriceResult{Completed: r.Completed}
	if !r.Completed {
		return result
	}
	result.Rooms = make([]RoomOffer, 0, len(r.Rooms))
	for _, room := range r.Rooms {
		images := make([]string, 0, len(room.Images))
		for _, img := range room.Images {
			if u := strings.TrimSpace(img.URL); u != "" {
				images = append(images, u)
			}
		}
		result.Rooms = append(result.Rooms, RoomOffer{
			Key:         room.Key,
			Description: strings.TrimSpace(room.Description),
			Price:       room.Price,
			Images:      images,
			Amenities:   room.Amenities,
		})
	}
	return result
}
