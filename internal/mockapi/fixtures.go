package mockapi

import (
	_ "embed"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/errs"
)

//go:embed data/fixtures.yaml
var fixturesYAML []byte

// Fixtures is the hotel catalogue served by the mock API.
type Fixtures struct {
	Hotels []HotelFixture `yaml:"hotels"`

	byID map[string]*HotelFixture
}

// HotelFixture is one hotel with its bookable rooms.
type HotelFixture struct {
	ID               string                `yaml:"id"`
	DestinationID    string                `yaml:"destination_id"`
	Name             string                `yaml:"name"`
	Address          string                `yaml:"address"`
	Description      string                `yaml:"description"`
	Price            float64               `yaml:"price"`
	Rating           float64               `yaml:"rating"`
	Latitude         float64               `yaml:"latitude"`
	Longitude        float64               `yaml:"longitude"`
	Distance         float64               `yaml:"distance"`
	City             string                `yaml:"city"`
	ImageDetails     imageDetails          `yaml:"image_details"`
	ImageCount       int                   `yaml:"imageCount"`
	TrustYou         trustYouScore         `yaml:"trustyou"`
	Categories       map[string]namedScore `yaml:"categories"`
	AmenitiesRatings []namedScore          `yaml:"amenities_ratings"`
	Amenities        map[string]bool       `yaml:"amenities"`
	Rooms            []RoomFixture         `yaml:"rooms"`
}

type imageDetails struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

type trustYouScore struct {
	KaligoOverall float64 `yaml:"kaligo_overall"`
	Overall       float64 `yaml:"overall"`
	Solo          float64 `yaml:"solo"`
	Couple        float64 `yaml:"couple"`
	Family        float64 `yaml:"family"`
	Business      float64 `yaml:"business"`
}

type namedScore struct {
	Name  string  `yaml:"name"`
	Score float64 `yaml:"score"`
}

// RoomFixture is a room type priced per night.
type RoomFixture struct {
	Key         string   `yaml:"key"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Images      []string `yaml:"images"`
	Amenities   []string `yaml:"amenities"`
}

// LoadFixtures returns the built-in catalogue.
func LoadFixtures() (*Fixtures, error) {
	return ParseFixtures(fixturesYAML)
}

// ParseFixtures decodes a YAML catalogue. Hotel ids must be unique.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(err, "failed to parse fixtures")
	}

	f.byID = make(map[string]*HotelFixture, len(f.Hotels))
	for i := range f.Hotels {
		h := &f.Hotels[i]
		if h.ID == "" {
			return nil, errs.Newf("fixture %d has no id", i)
		}
		if _, dup := f.byID[h.ID]; dup {
			return nil, errs.Newf("duplicate hotel id %q", h.ID)
		}
		f.byID[h.ID] = h
	}
	return &f, nil
}

// Hotel returns the fixture with the given id.
func (f *Fixtures) Hotel(id string) (*HotelFixture, bool) {
	h, ok := f.byID[id]
	return h, ok
}

// InDestination returns the hotels of a destination in catalogue order.
func (f *Fixtures) InDestination(destinationID string) []booking.Hotel {
	hotels := make([]booking.Hotel, 0)
	for i := range f.Hotels {
		if f.Hotels[i].DestinationID == destinationID {
			hotels = append(hotels, f.Hotels[i].Detail())
		}
	}
	return hotels
}

// Detail renders the fixture as the API's hotel record.
func (h *HotelFixture) Detail() booking.Hotel {
	var categories map[string]booking.Category
	if len(h.Categories) > 0 {
		categories = make(map[string]booking.Category, len(h.Categories))
		for k, c := range h.Categories {
			categories[k] = booking.Category{Name: c.Name, Score: c.Score}
		}
	}
	var ratings []booking.AmenityRating
	for _, r := range h.AmenitiesRatings {
		ratings = append(ratings, booking.AmenityRating{Name: r.Name, Score: r.Score})
	}

	return booking.Hotel{
		ID:          h.ID,
		Name:        h.Name,
		Address:     h.Address,
		Description: h.Description,
		Price:       h.Price,
		Rating:      h.Rating,
		Latitude:    h.Latitude,
		Longitude:   h.Longitude,
		ImageDetails: booking.ImageDetails{
			Prefix: h.ImageDetails.Prefix,
			Suffix: h.ImageDetails.Suffix,
		},
		ImageCount: h.ImageCount,
		Distance:   h.Distance,
		TrustYou: booking.TrustYou{Score: booking.TrustYouScore{
			KaligoOverall: h.TrustYou.KaligoOverall,
			Overall:       h.TrustYou.Overall,
			Solo:          h.TrustYou.Solo,
			Couple:        h.TrustYou.Couple,
			Family:        h.TrustYou.Family,
			Business:      h.TrustYou.Business,
		}},
		Categories:       categories,
		AmenitiesRatings: ratings,
		Amenities:        maps.Clone(h.Amenities),
		OriginalMetadata: booking.Metadata{City: h.City},
	}
}
