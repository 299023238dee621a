package update

import (
	"reflect"
	"testing"
)

func TestIsUpdateAvailable(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		latest    string
		want      bool
	}{
		{"newer minor", "1.2.3", "1.3.0", true},
		{"older major", "2.0", "1.9.9", false},
		{"equal", "1.0", "1.0", false},
		{"missing trailing component", "1.0", "1.0.1", true},
		{"trailing zero is equal", "1.0.0", "1.0", false},
		{"empty latest", "1.0", "", false},
		{"empty installed", "", "1.0", false},
		{"both empty", "", "", false},
		{"numeric not lexical", "1.9", "1.10", true},
		{"suffix stripped", "3.0.01-beta", "3.0.2", true},
		{"installed ahead", "3.2", "3.1.99", false},
		{"non numeric latest", "1.0", "beta", false},
		{"overflow component dropped", "1.0", "1.99999999999999999999999", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUpdateAvailable(tt.installed, tt.latest); got != tt.want {
				t.Errorf("IsUpdateAvailable(%q, %q) = %v, want %v", tt.installed, tt.latest, got, tt.want)
			}
		})
	}
}

func TestParseComponents(t *testing.T) {
	tests := []struct {
		input string
		want  []int
	}{
		{"1.2.3", []int{1, 2, 3}},
		{"v2.0", []int{2, 0}},
		{"1.x.3", []int{1, 3}},
		{"10.4.00.12", []int{10, 4, 0, 12}},
		{"release", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseComponents(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseComponents(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
