package sanitizer

import (
	"reflect"
	"testing"
)

func TestSanitizeClock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "09:00", "09:00"},
		{"single digit hour", "9:00", "09:00"},
		{"surrounding spaces", "  14:30 ", "14:30"},
		{"late evening", "23:59", "23:59"},
		{"invalid hour kept", "25:00", "25:00"},
		{"garbage kept trimmed", " noon ", "noon"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeClock(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeClock(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeClock(got); again != got {
				t.Errorf("SanitizeClock is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-05-10", "2025-05-10"},
		{" 2025-05-10\t", "2025-05-10"},
		{"2025-02-30", "2025-02-30"},
		{"10/05/2025", "10/05/2025"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeDate(tt.input); got != tt.want {
				t.Errorf("SanitizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeGuestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Alice  ", "Alice"},
		{"Conference\t\nA", "Conference A"},
		{"Mary   Jane", "Mary Jane"},
		{"   ", ""},
		{" Zoë ", "Zoë"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeGuestName(tt.input); got != tt.want {
				t.Errorf("SanitizeGuestName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFeatures(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil input", nil, []string{}},
		{"trim and keep order", []string{" WiFi", "TV "}, []string{"WiFi", "TV"}},
		{"remove duplicates", []string{"WiFi", "WiFi ", "TV"}, []string{"WiFi", "TV"}},
		{"drop empty", []string{"", "  ", "Kitchen"}, []string{"Kitchen"}},
		{"collapse inner spaces", []string{"Ocean   View"}, []string{"Ocean View"}},
		{"case is preserved", []string{"wifi", "WiFi"}, []string{"wifi", "WiFi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFeatures(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SanitizeFeatures(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
