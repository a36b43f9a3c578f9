package og

import (
	"strings"
	"testing"

	"golang.org/x/image/font"
)

func testFace(t *testing.T, bold bool, size float64) font.Face {
	t.Helper()
	fonts, err := loadFonts("", "")
	if err != nil {
		t.Fatal(err)
	}
	f, err := fonts.face(bold, size)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWrapText_FitsOnOneLine(t *testing.T) {
	face := testFace(t, false, 24)

	lines := wrapText(face, "Learn Rust", 1000, 3)
	if len(lines) != 1 || lines[0] != "Learn Rust" {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestWrapText_BreaksBetweenWords(t *testing.T) {
	face := testFace(t, false, 24)
	text := "alpha beta gamma delta epsilon zeta eta theta"
	width := measure(face, "alpha beta gamma")

	lines := wrapText(face, text, width, 10)

	if len(lines) < 3 {
		t.Fatalf("expected several lines, got %q", lines)
	}
	if strings.Join(lines, " ") != text {
		t.Errorf("wrapping lost text: %q", lines)
	}
	for _, line := range lines {
		if strings.HasSuffix(line, " ") || strings.HasPrefix(line, " ") {
			t.Errorf("line %q has stray spaces", line)
		}
		if measure(face, line) > width {
			t.Errorf("line %q exceeds width", line)
		}
	}
}

func TestWrapText_SplitsOverlongWord(t *testing.T) {
	face := testFace(t, true, 56)
	word := strings.Repeat("W", 60)

	lines := wrapText(face, word, 400, 20)

	if len(lines) < 2 {
		t.Fatalf("expected the word to be split, got %q", lines)
	}
	if strings.Join(lines, "") != word {
		t.Errorf("splitting lost characters: %q", lines)
	}
	for _, line := range lines {
		if measure(face, line) > 400 {
			t.Errorf("line %q exceeds width", line)
		}
	}
}

func TestWrapText_CJKBreaksAnywhere(t *testing.T) {
	face := testFace(t, false, 24)
	text := strings.Repeat("宣言", 50)

	lines := wrapText(face, text, 300, 50)

	if len(lines) < 2 {
		t.Fatalf("expected CJK text to wrap, got %d lines", len(lines))
	}
	if strings.Join(lines, "") != text {
		t.Error("wrapping lost characters")
	}
}

func TestWrapText_HonorsNewlines(t *testing.T) {
	face := testFace(t, false, 24)

	lines := wrapText(face, "one\ntwo\r\nthree", 1000, 5)

	want := []string{"one", "two", "three"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", lines, want)
	}
}

func TestWrapText_TruncatesWithEllipsis(t *testing.T) {
	face := testFace(t, false, 24)
	text := strings.Repeat("word ", 100)

	lines := wrapText(face, text, 200, 2)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], ellipsis) {
		t.Errorf("expected ellipsis on last line, got %q", lines[1])
	}
	if measure(face, lines[1]) > 200 {
		t.Errorf("truncated line %q exceeds width", lines[1])
	}
}

func TestWrapText_TruncatesExtraParagraphs(t *testing.T) {
	face := testFace(t, false, 24)

	lines := wrapText(face, "a\nb\nc", 1000, 2)

	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b"+ellipsis {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestWrapText_NoLines(t *testing.T) {
	face := testFace(t, false, 24)

	if lines := wrapText(face, "anything", 1000, 0); lines != nil {
		t.Errorf("expected nil, got %q", lines)
	}
}

func TestFallbackFace_PrefersFirstFontWithGlyph(t *testing.T) {
	f := testFace(t, false, 24).(*fallbackFace)

	// Only Go Regular is loaded, so every rune resolves to it.
	if f.pick('A') != f.faces[0] {
		t.Error("expected Go font for latin glyph")
	}
	if f.pick('宣') != f.faces[len(f.faces)-1] {
		t.Error("expected last resort face for missing glyph")
	}
}
