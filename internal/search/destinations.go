package search

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/alex-user-go/hotelview/internal/errs"
)

//go:embed data/destinations.yaml
var destinationsYAML []byte

// ErrUnknownDestination is returned when a term matches no destination.
var ErrUnknownDestination = errs.New("unknown destination")

// Destination is an autocomplete entry of the search form.
type Destination struct {
	UID  string  `yaml:"uid"`
	Term string  `yaml:"term"`
	Type string  `yaml:"type"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

// Label is the text shown for the destination.
func (d Destination) Label() string {
	if d.Term != "" {
		return d.Term
	}
	if d.Type != "" {
		return d.Type
	}
	return "Unknown"
}

// Destinations is an ordered, uid-unique destination table.
type Destinations struct {
	list []Destination
}

// ParseDestinations decodes a YAML list of destinations. Entries repeating
// an earlier uid are dropped.
func ParseDestinations(data []byte) (*Destinations, error) {
	var raw []Destination
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errs.Wrap(err, "failed to parse destinations")
	}

	seen := make(map[string]struct{}, len(raw))
	list := make([]Destination, 0, len(raw))
	for _, d := range raw {
		if d.UID == "" {
			continue
		}
		if _, dup := seen[d.UID]; dup {
			continue
		}
		seen[d.UID] = struct{}{}
		list = append(list, d)
	}
	return &Destinations{list: list}, nil
}

var defaultDestinations = sync.OnceValues(func() (*Destinations, error) {
	return ParseDestinations(destinationsYAML)
})

// DefaultDestinations returns the built-in destination table.
func DefaultDestinations() (*Destinations, error) {
	return defaultDestinations()
}

// Len returns the number of destinations.
func (d *Destinations) Len() int {
	return len(d.list)
}

// Lookup resolves a destination by uid or by its full term, ignoring case.
func (d *Destinations) Lookup(term string) (Destination, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Destination{}, errs.Mark(errs.New("destination is required"), ErrUnknownDestination)
	}
	for _, dest := range d.list {
		if dest.UID == term || strings.EqualFold(dest.Term, term) {
			return dest, nil
		}
	}
	return Destination{}, errs.Wrapf(ErrUnknownDestination, "%q", term)
}

// Suggest returns up to limit destinations whose term starts with prefix,
// ignoring case, in table order. A limit of 0 returns every match.
func (d *Destinations) Suggest(prefix string, limit int) []Destination {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	var out []Destination
	for _, dest := range d.list {
		if dest.Term == "" || !strings.HasPrefix(strings.ToLower(dest.Term), prefix) {
			continue
		}
		out = append(out, dest)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
