package core

import (
	"testing"

	"github.com/dshills/dragselect/internal/dragselect"
)

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#000000", Color{}, false},
		{"#ff8000", Color{R: 255, G: 128, B: 0}, false},
		{"#3A6EA5", Color{R: 0x3a, G: 0x6e, B: 0xa5}, false},
		{"red", Color{}, true},
		{"#12345", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ColorFromHex(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorString(t *testing.T) {
	if got := ColorFromRGB(1, 2, 255).String(); got != "#0102FF" {
		t.Errorf("String() = %q", got)
	}
	if got := ColorDefault.String(); got != "default" {
		t.Errorf("String() = %q", got)
	}
}

func TestColorBlend(t *testing.T) {
	a := MustHex("#000000")
	b := MustHex("#ffffff")

	if got := a.Blend(b, 0); got != a {
		t.Errorf("Blend(0) = %v, want %v", got, a)
	}
	if got := a.Blend(b, 1); got != b {
		t.Errorf("Blend(1) = %v, want %v", got, b)
	}
	if got := a.Blend(b, 2); got != b {
		t.Errorf("Blend(2) = %v, want clamped %v", got, b)
	}
	mid := a.Blend(b, 0.5)
	if mid.R < 64 || mid.R > 192 || absDiff(mid.R, mid.G) > 1 || absDiff(mid.G, mid.B) > 1 {
		t.Errorf("Blend(0.5) = %v, want a mid gray", mid)
	}

	if got := ColorDefault.Blend(b, 0.2); got != ColorDefault {
		t.Errorf("default Blend(0.2) = %v", got)
	}
	if got := ColorDefault.Blend(b, 0.8); got != b {
		t.Errorf("default Blend(0.8) = %v", got)
	}
}

func TestColorContrast(t *testing.T) {
	if got := MustHex("#ffffff").Contrast(); got != (Color{}) {
		t.Errorf("Contrast(white) = %v, want black", got)
	}
	if got := MustHex("#1c1c1c").Contrast(); got != (Color{R: 255, G: 255, B: 255}) {
		t.Errorf("Contrast(dark) = %v, want white", got)
	}
}

func TestStyleAttributes(t *testing.T) {
	s := DefaultStyle().Bold().Reverse()
	if !s.Attributes.Has(AttrBold) || !s.Attributes.Has(AttrReverse) {
		t.Errorf("Attributes = %b", s.Attributes)
	}
	if s.Attributes.Has(AttrItalic) {
		t.Error("italic set")
	}
}

func TestWidths(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"abc", 3},
		{"日本", 4},
		{"é", 1},
		{"🇩🇪", 2},
		{"", 0},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.s); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
	if RuneWidth('\t') != 0 || RuneWidth('x') != 1 || RuneWidth('日') != 2 {
		t.Error("RuneWidth() mismatch")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"item 12", 10, "item 12"},
		{"item 1234567", 8, "item 12…"},
		{"日本語テキスト", 7, "日本語…"},
		{"ééé", 2, "é…"},
		{"abc", 1, "a"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.s, tt.width, "…"); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestCellsFromString(t *testing.T) {
	cells := CellsFromString("a日", DefaultStyle())
	if len(cells) != 3 {
		t.Fatalf("len = %d, want 3", len(cells))
	}
	if cells[0].Rune != 'a' || cells[1].Rune != '日' || cells[1].Width != 2 || !cells[2].IsContinuation() {
		t.Errorf("cells = %+v", cells)
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(2, 3, 4, 5)
	if r.Width() != 5 || r.Height() != 4 {
		t.Errorf("size = %dx%d", r.Width(), r.Height())
	}

	other := ScreenRect{Top: 4, Left: 0, Bottom: 10, Right: 5}
	if got := r.Intersection(other); got != (ScreenRect{Top: 4, Left: 3, Bottom: 6, Right: 5}) {
		t.Errorf("Intersection() = %+v", got)
	}
	if got := r.Intersection(ScreenRect{Top: 50, Bottom: 60, Right: 10}); !got.IsEmpty() {
		t.Errorf("disjoint Intersection() = %+v", got)
	}

	dr := dragselect.Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}
	if FromRect(dr).Rect() != dr {
		t.Error("FromRect().Rect() does not round-trip")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
