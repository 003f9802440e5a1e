package vectorize

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "Winter Jacket", []string{"winter", "jacket"}},
		{"punctuation split", "snow, boots! (large)", []string{"snow", "boots", "large"}},
		{"drops single alphanumerics", "a 5 size m jacket", []string{"size", "jacket"}},
		{"keeps model codes", "S-10+ usb_c adapter", []string{"s-10+", "usb_c", "adapter"}},
		{"empty", "", nil},
		{"only separators", "!!! ???", nil},
		{"unicode separators", "café-créme", []string{"caf", "-cr", "me"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpand_KnownSynonym(t *testing.T) {
	out := Expand("show me your stuff")

	if !strings.HasPrefix(out, "show me your stuff ") {
		t.Fatalf("expansion must keep the original text first, got %q", out)
	}
	for _, syn := range []string{"products", "items", "parts", "catalog", "collections"} {
		if !strings.Contains(out, syn) {
			t.Errorf("expected synonym %q in %q", syn, out)
		}
	}
}

func TestExpand_NoSynonym(t *testing.T) {
	if out := Expand("winter jacket"); out != "winter jacket" {
		t.Errorf("expected unchanged query, got %q", out)
	}
}

func TestExpand_Deterministic(t *testing.T) {
	a := Expand("cheap stuff shipping")
	b := Expand("cheap stuff shipping")
	if a != b {
		t.Errorf("expansion not deterministic: %q vs %q", a, b)
	}
}
