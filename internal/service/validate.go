package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// ParseAmount parses a user-supplied amount as a non-negative integer in
// currency minor units. Separators like "15.000" or "15,000" are tolerated.
func ParseAmount(input string) (int64, error) {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrBadAmount
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, ErrBadAmount
	}
	return n, nil
}

// ParseClock validates a wall-clock HH:MM string and returns it normalized
// to two-digit form. The zone it is interpreted in is the fixed reference
// zone, never the server's local zone.
func ParseClock(input string) (string, error) {
	s := strings.TrimSpace(input)
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return "", ErrBadClock
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
