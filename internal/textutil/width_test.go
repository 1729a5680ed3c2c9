package textutil

import "testing"

func TestDisplayWidthGraphemeClusters(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"warning emoji with VS16", "⚠️", 2},
		{"thumbs up with skin tone", "\U0001F44D\U0001F3FB", 2},
		{"family zwj", "\U0001F468‍\U0001F469‍\U0001F467", 2},
		{"flag regional indicators", "\U0001F1F5\U0001F1F1", 2},
		{"cjk", "日本", 4},
		{"combining accent", "é", 1},
		{"mixed ascii + emoji", "a⚠️b", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.text); got != tt.want {
				t.Fatalf("DisplayWidth(%q)=%d want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestExpandTabsUsesColumnStops(t *testing.T) {
	if got := ExpandTabs("ab\tc", 4); got != "ab  c" {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := ExpandTabs("日\tx", 4); got != "日  x" {
		t.Fatalf("wide rune should count two cells, got %q", got)
	}
	if got := TabAdvance(4, 4); got != 4 {
		t.Fatalf("tab at stop should advance a full width, got %d", got)
	}
}
