package handlers

import (
	"strconv"
	"strings"
	"time"
)

// maxPublicationYear allows next-year releases, like pre-orders.
func maxPublicationYear() int {
	return time.Now().Year() + 1
}

// parseYear validates a publication year in [0, currentYear+1].
func parseYear(text string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	if year < 0 || year > maxPublicationYear() {
		return 0, false
	}
	return year, true
}

// parseRating validates a rating in [1,5].
func parseRating(text string) (int, bool) {
	rating, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	if rating < 1 || rating > 5 {
		return 0, false
	}
	return rating, true
}
