package diagram

import (
	"reflect"
	"testing"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"a | b | c", []string{"a", "b", "c"}},
		{" a|b ", []string{"a", "b"}},
		{"a || c", []string{"a", "", "c"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		if got := SplitFields(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitFields(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSplitItem(t *testing.T) {
	name, details := splitItem(" Build ; fast ;cheap;  ")
	if name != "Build" {
		t.Errorf("name = %q, want Build", name)
	}
	if want := []string{"fast", "cheap", ""}; !reflect.DeepEqual(details, want) {
		t.Errorf("details = %q, want %q", details, want)
	}

	name, details = splitItem("solo")
	if name != "solo" || len(details) != 0 {
		t.Errorf("splitItem(solo) = %q, %q", name, details)
	}
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		row         string
		left, right string
		ok          bool
	}{
		{"slow:fast", "slow", "fast", true},
		{" a : b ", "a", "b", true},
		{"time: 10:30", "time", "10:30", true},
		{"no colon", "", "", false},
		{":", "", "", true},
	}
	for _, tt := range tests {
		l, r, ok := splitRow(tt.row)
		if l != tt.left || r != tt.right || ok != tt.ok {
			t.Errorf("splitRow(%q) = %q, %q, %v; want %q, %q, %v",
				tt.row, l, r, ok, tt.left, tt.right, tt.ok)
		}
	}
}
