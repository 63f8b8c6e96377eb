package common

import "strings"

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IconURL builds the display icon URL for an icon id under base,
// e.g. https://openweathermap.org/img/wn/01d@2x.png.
func IconURL(base, iconID string) string {
	if iconID == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + iconID + "@2x.png"
}
