package report

import "testing"

func TestExtractNarrative(t *testing.T) {
	t.Parallel()

	raw := "**Overall Summary:** The candidate performed well across the board.\n" +
		"**Strengths:** Clear explanations and solid fundamentals.\n" +
		"**Areas of Improvement:** Go deeper on system design."

	n := ExtractNarrative(raw)

	if n.Summary != "The candidate performed well across the board." {
		t.Fatalf("unexpected summary: %q", n.Summary)
	}
	if n.Strengths != "Clear explanations and solid fundamentals." {
		t.Fatalf("unexpected strengths: %q", n.Strengths)
	}
	if n.AreaOfImprovement != "Go deeper on system design." {
		t.Fatalf("unexpected improvement: %q", n.AreaOfImprovement)
	}
}

func TestExtractNarrativeCaseInsensitive(t *testing.T) {
	t.Parallel()

	raw := "**overall summary:** lower-case labels still match.\n" +
		"**STRENGTHS:** so do upper-case ones."

	n := ExtractNarrative(raw)

	if n.Summary != "lower-case labels still match." {
		t.Fatalf("unexpected summary: %q", n.Summary)
	}
	if n.Strengths != "so do upper-case ones." {
		t.Fatalf("unexpected strengths: %q", n.Strengths)
	}
}

func TestExtractNarrativeMissingSections(t *testing.T) {
	t.Parallel()

	n := ExtractNarrative("**Strengths:** Only one section present.")

	if n.Summary != "" {
		t.Fatalf("expected empty summary, got %q", n.Summary)
	}
	if n.Strengths != "Only one section present." {
		t.Fatalf("unexpected strengths: %q", n.Strengths)
	}
	if n.AreaOfImprovement != "" {
		t.Fatalf("expected empty improvement, got %q", n.AreaOfImprovement)
	}
}

func TestExtractNarrativeSpansLines(t *testing.T) {
	t.Parallel()

	raw := "**Overall Summary:** First sentence.\nSecond sentence on a new line.\n\n**Strengths:** Short."

	n := ExtractNarrative(raw)

	want := "First sentence.\nSecond sentence on a new line."
	if n.Summary != want {
		t.Fatalf("expected %q, got %q", want, n.Summary)
	}
}

func TestExtractNarrativeLastSectionRunsToEnd(t *testing.T) {
	t.Parallel()

	n := ExtractNarrative("**Areas of Improvement:** Keep practicing behavioral answers.")

	if n.AreaOfImprovement != "Keep practicing behavioral answers." {
		t.Fatalf("unexpected improvement: %q", n.AreaOfImprovement)
	}
}

func TestExtractNarrativeEmptyInput(t *testing.T) {
	t.Parallel()

	n := ExtractNarrative("")

	if n.Summary != "" || n.Strengths != "" || n.AreaOfImprovement != "" {
		t.Fatalf("expected all sections empty, got %+v", n)
	}
}
