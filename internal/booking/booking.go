package booking

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/alex-user-go/hotelview/internal/errs"
)

// DateLayout is the date format used on the wire.
const DateLayout = "2006-01-02"

var (
	// ErrTransport is returned for network failures, unexpected statuses and
	// undecodable bodies.
	ErrTransport = errs.New("booking api unavailable")
	// ErrNotFound is returned when the API has no record for an identifier.
	ErrNotFound = errs.New("not found")
	// ErrInvalidQuery is returned when a price query fails validation.
	ErrInvalidQuery = errs.New("invalid price query")
)

// ImageDetails describes how hotel photo URLs are assembled.
type ImageDetails struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

// Hotel is the detail record for a single hotel.
type Hotel struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Address          string              `json:"address"`
	Description      string              `json:"description"`
	Price            float64             `json:"price"`
	Rating           float64             `json:"rating"`
	Latitude         float64             `json:"latitude"`
	Longitude        float64             `json:"longitude"`
	Distance         float64             `json:"distance"`
	ImageDetails     ImageDetails        `json:"image_details"`
	ImageCount       int                 `json:"imageCount"`
	TrustYou         TrustYou            `json:"trustyou"`
	Categories       map[string]Category `json:"categories"`
	AmenitiesRatings []AmenityRating     `json:"amenities_ratings"`
	Amenities        map[string]bool     `json:"amenities"`
	OriginalMetadata Metadata            `json:"original_metadata"`
}

// TrustYou holds the review scores of a hotel.
type TrustYou struct {
	Score TrustYouScore `json:"score"`
}

// TrustYouScore is out of 10 for KaligoOverall and out of 100 otherwise.
type TrustYouScore struct {
	KaligoOverall float64 `json:"kaligo_overall"`
	Overall       float64 `json:"overall"`
	Solo          float64 `json:"solo"`
	Couple        float64 `json:"couple"`
	Family        float64 `json:"family"`
	Business      float64 `json:"business"`
}

// Category is a named traveller-type score, e.g. "Family Hotel".
type Category struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// AmenityRating scores one amenity out of 100.
type AmenityRating struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Metadata carries provider fields kept verbatim.
type Metadata struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// FamilyCategory is the category key that marks a family hotel.
const FamilyCategory = "family_hotel"

// Photos expands the image details into an ordered list of photo URLs.
// A hotel without an image prefix has no photos.
func (h Hotel) Photos() []string {
	if h.ImageDetails.Prefix == "" || h.ImageCount <= 0 {
		return nil
	}
	photos := make([]string, h.ImageCount)
	for i := range photos {
		photos[i] = h.ImageDetails.Prefix + strconv.Itoa(i) + h.ImageDetails.Suffix
	}
	return photos
}

// StayType is "Family" when the hotel carries the family category and
// "Business" otherwise.
func (h Hotel) StayType() string {
	if _, ok := h.Categories[FamilyCategory]; ok {
		return "Family"
	}
	return "Business"
}

// SortedCategories returns the categories ordered by key.
func (h Hotel) SortedCategories() []Category {
	keys := slices.Sorted(maps.Keys(h.Categories))
	out := make([]Category, len(keys))
	for i, k := range keys {
		out[i] = h.Categories[k]
	}
	return out
}

// AmenityNames returns the amenities the hotel offers, humanized and ordered
// by key.
func (h Hotel) AmenityNames() []string {
	var names []string
	for _, k := range slices.Sorted(maps.Keys(h.Amenities)) {
		if h.Amenities[k] {
			names = append(names, HumanizeKey(k))
		}
	}
	return names
}

// HumanizeKey turns a camelCase amenity key into words:
// "airConditioning" becomes "Air Conditioning".
func HumanizeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RatingText describes a star rating in words.
func RatingText(rating float64) string {
	switch {
	case rating >= 4:
		return "Excellent"
	case rating >= 3.5:
		return "Very Good"
	case rating >= 3:
		return "Good"
	case rating >= 2.5:
		return "Average"
	case rating >= 1.5:
		return "Below Average"
	default:
		return "Poor"
	}
}

// RoomOffer is a single bookable room returned by the price endpoint.
type RoomOffer struct {
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
}

// PriceResult is the response of the price endpoint. A result that is not
// completed carries no usable rooms.
type PriceResult struct {
	Completed bool        `json:"completed"`
	Rooms     []RoomOffer `json:"rooms"`
}

// Pending reports whether the API is still collecting prices.
func (r PriceResult) Pending() bool {
	return !r.Completed
}

// PriceQuery identifies a room price lookup. Guests is the number of adults,
// which is what the price endpoint prices for.
type PriceQuery struct {
	DestinationID string
	CheckIn       time.Time
	CheckOut      time.Time
	Guests        int
	Rooms         int
	HotelID       string
}

// Validate reports whether the query can be sent.
func (q PriceQuery) Validate() error {
	switch {
	case strings.TrimSpace(q.HotelID) == "":
		return errs.Mark(errs.New("hotel id is required"), ErrInvalidQuery)
	case strings.TrimSpace(q.DestinationID) == "":
		return errs.Mark(errs.New("destination id is required"), ErrInvalidQuery)
	case q.CheckIn.IsZero() || q.CheckOut.IsZero():
		return errs.Mark(errs.New("check-in and check-out are required"), ErrInvalidQuery)
	case !q.CheckOut.After(q.CheckIn):
		return errs.Mark(errs.New("check-out must be after check-in"), ErrInvalidQuery)
	case q.Guests < 1:
		return errs.Mark(errs.New("at least one guest is required"), ErrInvalidQuery)
	}
	return nil
}

// RoomCount is Rooms, or 1 when unset.
func (q PriceQuery) RoomCount() int {
	if q.Rooms < 1 {
		return 1
	}
	return q.Rooms
}

// Key identifies the query for logging and deduplication.
func (q PriceQuery) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s:%d:%d", q.HotelID, q.DestinationID,
		q.CheckIn.Format(DateLayout), q.CheckOut.Format(DateLayout), q.Guests, q.RoomCount())
}

// SearchQuery is a hotel list search by destination.
type SearchQuery struct {
	DestinationID string
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
	Rooms         int
}

// HotelGetter fetches hotel detail records.
type HotelGetter interface {
	GetHotel(ctx context.Context, id string) (*Hotel, error)
}

// PriceGetter fetches room prices.
type PriceGetter interface {
	GetPrices(ctx context.Context, q PriceQuery) (*PriceResult, error)
}

// HotelSearcher lists hotels for a destination.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, q SearchQuery) ([]Hotel, error)
}

// API is the full booking API surface.
//
//go:generate mockgen -destination=bookingmock/api.go -package=bookingmock github.com/alex-user-go/hotelview/internal/booking API
type API interface {
	HotelGetter
	PriceGetter
	HotelSearcher
}
