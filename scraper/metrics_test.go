package scraper

import "testing"

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"0", 0},
		{"7", 7},
		{"42", 42},
		{"1,234", 1234},
		{"12,345,678", 12345678},
		{"1.2K", 1200},
		{"1.2k", 1200},
		{"999K", 999000},
		{"3M", 3000000},
		{"4.5M", 4500000},
		{"1.1B", 1100000000},
		{"1.2K Likes", 1200},
		{"12 replies, 30 reposts", 12},
		{"· 1.5M Views", 1500000},
		{"no digits here", 0},
	}
	for _, tt := range tests {
		if got := ParseMetric(tt.in); got != tt.want {
			t.Errorf("ParseMetric(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
