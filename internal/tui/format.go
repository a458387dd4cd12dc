package tui

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alex-user-go/hotelview/internal/booking"
)

// How many amenities are listed before the rest are counted.
const (
	HotelAmenities = 5
	RoomAmenities  = 3
)

var printer = message.NewPrinter(language.English)

// FormatPrice renders an amount with thousands separators, e.g. "$1,240.00".
func FormatPrice(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}

// FormatRating renders a star rating with its description, e.g. "4.5 Excellent".
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64) + " " + booking.RatingText(rating)
}

// FormatScore renders a review score without trailing zeros.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Summarize joins the first n items and counts the rest, e.g.
// "wifi, safe +2 more". A non-positive n joins everything.
func Summarize(items []string, n int) string {
	if n <= 0 || len(items) <= n {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(items[:n], ", "), len(items)-n)
}

// TrustYouLine renders the review scores on one line, or "" when the hotel
// has none.
func TrustYouLine(s booking.TrustYouScore) string {
	if s == (booking.TrustYouScore{}) {
		return ""
	}
	return fmt.Sprintf("Kaligo Overall %s/10 · Overall %s · Solo %s · Couple %s · Family %s · Business %s",
		FormatScore(s.KaligoOverall), FormatScore(s.Overall), FormatScore(s.Solo),
		FormatScore(s.Couple), FormatScore(s.Family), FormatScore(s.Business))
}
