package catalog

import (
	"regexp"
	"testing"
)

func TestIdentifierDeterministic(t *testing.T) {
	a := Identifier("Abbey Road", "The Beatles")
	b := Identifier("Abbey Road", "The Beatles")
	if a != b {
		t.Errorf("Expected equal identifiers, got %s and %s", a, b)
	}
}

func TestIdentifierNormalization(t *testing.T) {
	base := Identifier("Abbey Road", "The Beatles")

	tests := []struct {
		name   string
		title  string
		artist string
	}{
		{"case differences", "ABBEY ROAD", "the beatles"},
		{"surrounding whitespace", "  Abbey Road  ", " The Beatles "},
		{"collapsed inner whitespace", "Abbey  Road", "The   Beatles"},
		{"mixed", "  abbey ROAD ", "THE  beatles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identifier(tt.title, tt.artist)
			if got != base {
				t.Errorf("Expected %s, got %s", base, got)
			}
		})
	}
}

func TestIdentifierDistinctInputs(t *testing.T) {
	a := Identifier("Abbey Road", "The Beatles")
	b := Identifier("Let It Be", "The Beatles")
	if a == b {
		t.Errorf("Expected distinct identifiers, both were %s", a)
	}
}

func TestIdentifierShape(t *testing.T) {
	got := Identifier("Kind of Blue", "Miles Davis")
	if !regexp.MustCompile(`^[0-9A-F]{8}$`).MatchString(got) {
		t.Errorf("Expected 8 uppercase hex characters, got %q", got)
	}
}
