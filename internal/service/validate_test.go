package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"plain", "15000", 15000, false},
		{"zero", "0", 0, false},
		{"dot separators", "15.000", 15000, false},
		{"comma separators", "1,500,000", 1500000, false},
		{"surrounding spaces", "  5000  ", 5000, false},
		{"negative", "-5", 0, true},
		{"words", "abc", 0, true},
		{"mixed", "12abc", 0, true},
		{"empty", "", 0, true},
		{"just separators", ".,", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadAmount)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"evening", "21:00", "21:00", false},
		{"single digit hour", "9:05", "09:05", false},
		{"midnight", "00:00", "00:00", false},
		{"last minute", "23:59", "23:59", false},
		{"out of range", "25:99", "", true},
		{"bad hour", "24:00", "", true},
		{"bad minute", "12:60", "", true},
		{"no colon", "2100", "", true},
		{"empty", "", "", true},
		{"words", "nine pm", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseClock(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadClock)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
