package timer

import (
	"strings"
	"testing"
)

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "00:00", 59: "00:59", 300: "05:00", 1499: "24:59", -3: "00:00"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDotsCount(t *testing.T) {
	out := Dots(3)
	if strings.Count(out, "●") != 3 || strings.Count(out, "○") != 1 {
		t.Fatalf("unexpected dots %q", out)
	}
}
