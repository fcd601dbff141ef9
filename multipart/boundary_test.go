package multipart

import "testing"

func TestBoundaryClassify(t *testing.T) {
	m := newBoundaryMatcher("gc0p4Jq0M2Yt08j")

	cases := map[string]boundaryKind{
		"--gc0p4Jq0M2Yt08j\r\n":     boundaryPart,
		"--gc0p4Jq0M2Yt08j--\r\n":   boundaryFinal,
		"--gc0p4Jq0M2Yt08j":         boundaryPart,
		"--gc0p4Jq0M2Yt08j--":       boundaryFinal,
		"  --gc0p4Jq0M2Yt08j\r\n":   boundaryPart,
		"\t--gc0p4Jq0M2Yt08j--\r\n": boundaryFinal,
		"--gc0p4Jq0M2Yt08j \t\r\n":  boundaryPart,
		"--gc0p4Jq0M2Yt08j-- \r\n":  boundaryFinal,
		"--gc0p4Jq0M2Yt08jX\r\n":    boundaryNone,
		"--gc0p4Jq0M2Yt08":          boundaryNone,
		"gc0p4Jq0M2Yt08j\r\n":       boundaryNone,
		"plain content\r\n":         boundaryNone,
		"--other--\r\n":             boundaryNone,
		"":                          boundaryNone,
	}

	for line, want := range cases {
		if got := m.classify([]byte(line)); got != want {
			t.Errorf("classify(%q): expected %v, got %v", line, want, got)
		}
	}
}

func TestBoundaryClassifyNilLine(t *testing.T) {
	m := newBoundaryMatcher("B")
	if got := m.classify(nil); got != boundaryNone {
		t.Errorf("classify(nil): expected boundaryNone, got %v", got)
	}
}
