// Package mockapi serves a local stand-in for the booking API. Hotel data
// comes from an embedded catalogue, and the price endpoint reports results
// as incomplete for a configurable number of rounds before answering.
package mockapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/errs"
	"github.com/alex-user-go/hotelview/internal/obs"
)

// Handler handles booking API requests.
type Handler struct {
	fixtures      *Fixtures
	pendingRounds int
	metrics       *obs.Metrics
	logger        *slog.Logger

	mu     sync.Mutex
	rounds map[string]int
}

// NewHandler creates a Handler whose price endpoint stays incomplete for the
// first pendingRounds calls of every distinct query.
func NewHandler(fixtures *Fixtures, pendingRounds int, metrics *obs.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		fixtures:      fixtures,
		pendingRounds: pendingRounds,
		metrics:       metrics,
		logger:        logger,
		rounds:        make(map[string]int),
	}
}

// ListHotels handles GET /api/hotels.
func (h *Handler) ListHotels(c *gin.Context) {
	h.metrics.IncRequests()

	destinationID := strings.TrimSpace(c.Query("destination_id"))
	if destinationID == "" {
		writeError(c, http.StatusBadRequest, "destination_id is required")
		return
	}

	c.JSON(http.StatusOK, h.fixtures.InDestination(destinationID))
}

// GetHotel handles GET /api/hotels/:id.
func (h *Handler) GetHotel(c *gin.Context) {
	h.metrics.IncRequests()

	hotel, ok := h.fixtures.Hotel(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "hotel not found")
		return
	}
	c.JSON(http.StatusOK, hotel.Detail())
}

// GetPrice handles GET /hotels/:id/prices.
func (h *Handler) GetPrice(c *gin.Context) {
	h.metrics.IncRequests()
	h.metrics.IncPollAttempts()

	hotel, ok := h.fixtures.Hotel(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "hotel not found")
		return
	}

	params, err := ParsePriceParams(c.Request)
	if err != nil {
		h.logger.Debug("invalid price parameters", "request_id", RequestID(c), "error", err)
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	round := h.nextRound(params.Query(hotel.ID).Key())
	if round <= h.pendingRounds {
		h.logger.Debug("prices pending", "request_id", RequestID(c), "hotel_id", hotel.ID, "round", round)
		c.JSON(http.StatusOK, PriceResponse{Completed: false, Rooms: []Room{}})
		return
	}

	c.JSON(http.StatusOK, PriceResponse{Completed: true, Rooms: priceRooms(hotel, params)})
}

// Reset forgets how often each query has been polled.
func (h *Handler) Reset() {
	h.mu.Lock()
	clear(h.rounds)
	h.mu.Unlock()
}

// ResetRounds handles POST /admin/reset.
func (h *Handler) ResetRounds(c *gin.Context) {
	h.Reset()
	h.logger.Info("price rounds reset", "request_id", RequestID(c))
	c.Status(http.StatusNoContent)
}

func (h *Handler) nextRound(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rounds[key]++
	return h.rounds[key]
}

// PriceResponse is the body of the price endpoint.
type PriceResponse struct {
	Completed bool   `json:"completed"`
	Rooms     []Room `json:"rooms"`
}

// Room is a priced room on the wire. Images are objects, as in the upstream
// API.
type Room struct {
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []Image  `json:"images"`
	Amenities   []string `json:"amenities"`
}

// Image is a room photo.
type Image struct {
	URL string `json:"url"`
}

func priceRooms(hotel *HotelFixture, p *PriceParams) []Room {
	rooms := make([]Room, 0, len(hotel.Rooms))
	for _, r := range hotel.Rooms {
		images := make([]Image, 0, len(r.Images))
		for _, u := range r.Images {
			images = append(images, Image{URL: u})
		}
		rooms = append(rooms, Room{
			Key:         r.Key,
			Description: r.Description,
			Price:       r.Price * float64(p.Nights()*p.Rooms),
			Images:      images,
			Amenities:   r.Amenities,
		})
	}
	return rooms
}

// PriceParams holds validated price query parameters.
type PriceParams struct {
	DestinationID string
	CheckIn       time.Time
	CheckOut      time.Time
	Guests        int
	Rooms         int
}

// Nights is the length of the stay.
func (p *PriceParams) Nights() int {
	return int(p.CheckOut.Sub(p.CheckIn).Hours() / 24)
}

// Query converts the parameters to the client-side query for a hotel.
func (p *PriceParams) Query(hotelID string) booking.PriceQuery {
	return booking.PriceQuery{
		DestinationID: p.DestinationID,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		Guests:        p.Guests,
		Rooms:         p.Rooms,
		HotelID:       hotelID,
	}
}

// ParsePriceParams parses and validates price query parameters. Rooms is
// optional and defaults to one.
func ParsePriceParams(r *http.Request) (*PriceParams, error) {
	query := r.URL.Query()

	destinationID := strings.TrimSpace(query.Get("destination_id"))
	if destinationID == "" {
		return nil, errs.New("destination_id is required")
	}

	checkIn, err := parseDate(query.Get("checkin"), "checkin")
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate(query.Get("checkout"), "checkout")
	if err != nil {
		return nil, err
	}
	if !checkOut.After(checkIn) {
		return nil, errs.New("checkout must be after checkin")
	}

	guests, err := parseCount(query.Get("guests"), "guests")
	if err != nil {
		return nil, err
	}
	rooms := 1
	if query.Has("rooms") {
		if rooms, err = parseCount(query.Get("rooms"), "rooms"); err != nil {
			return nil, err
		}
	}

	return &PriceParams{
		DestinationID: destinationID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        guests,
		Rooms:         rooms,
	}, nil
}

func parseCount(value, name string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errs.Newf("%s is required", name)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, errs.Newf("%s must be a positive integer", name)
	}
	return n, nil
}

func parseDate(value, name string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errs.Newf("%s is required", name)
	}
	t, err := time.Parse(booking.DateLayout, value)
	if err != nil {
		return time.Time{}, errs.Newf("%s must be in YYYY-MM-DD format", name)
	}
	return t, nil
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
