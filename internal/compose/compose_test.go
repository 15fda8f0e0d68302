package compose

import (
	"errors"
	"strings"
	"testing"
)

func TestDirect_SingleMessage(t *testing.T) {
	t.Parallel()
	got, err := Direct([]string{"hello world"})
	if err != nil {
		t.Fatalf("Direct() error: %v", err)
	}
	want := "Message 1:\n\nhello world"
	if got != want {
		t.Errorf("Direct() = %q, want %q", got, want)
	}
}

func TestDirect_BlocksJoinedByBlankLines(t *testing.T) {
	t.Parallel()
	got, err := Direct([]string{"first", "second", "third"})
	if err != nil {
		t.Fatalf("Direct() error: %v", err)
	}
	want := "Message 1:\n\nfirst\n\nMessage 2:\n\nsecond\n\nMessage 3:\n\nthird"
	if got != want {
		t.Errorf("Direct() = %q, want %q", got, want)
	}
}

func TestDirect_CountBounds(t *testing.T) {
	t.Parallel()
	if _, err := Direct(nil); !errors.Is(err, ErrMessageCount) {
		t.Errorf("Direct(nil) error = %v, want ErrMessageCount", err)
	}

	msgs := make([]string, MaxMessages+1)
	if _, err := Direct(msgs); !errors.Is(err, ErrMessageCount) {
		t.Errorf("Direct(51 messages) error = %v, want ErrMessageCount", err)
	}

	if _, err := Direct(make([]string, MaxMessages)); err != nil {
		t.Errorf("Direct(50 messages) unexpected error: %v", err)
	}
}

func TestDirectAutoFill_SecondMessageIsAcknowledgement(t *testing.T) {
	t.Parallel()
	got := DirectAutoFill("what is 1+1?")
	want := "Message 1:\n\nwhat is 1+1?\n\nMessage 2:\n\n" + Acknowledgement
	if got != want {
		t.Errorf("DirectAutoFill() = %q, want %q", got, want)
	}
}

func TestGuided_Ordering(t *testing.T) {
	t.Parallel()
	content := "Paris is the capital of France."
	directive := "Name the country."

	got, err := Guided(content, directive)
	if err != nil {
		t.Fatalf("Guided() error: %v", err)
	}

	// Preamble, literal content, end marker, literal directive, in order.
	idxPreamble := strings.Index(got, "used verbatim as a conversation title")
	idxStart := strings.Index(got, "--- CONTENT ---")
	idxContent := strings.Index(got, content)
	idxEnd := strings.Index(got, "--- END CONTENT ---")
	idxDirective := strings.Index(got, directive)

	for name, idx := range map[string]int{
		"preamble": idxPreamble, "start marker": idxStart, "content": idxContent,
		"end marker": idxEnd, "directive": idxDirective,
	} {
		if idx < 0 {
			t.Fatalf("Guided() output missing %s: %q", name, got)
		}
	}
	if !(idxPreamble < idxStart && idxStart < idxContent && idxContent < idxEnd && idxEnd < idxDirective) {
		t.Errorf("Guided() sections out of order: %q", got)
	}
}

func TestGuided_EmptyContent(t *testing.T) {
	t.Parallel()
	if _, err := Guided("   \n\t ", "Name the country."); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Guided(blank content) error = %v, want ErrEmptyContent", err)
	}
}

func TestGuided_EmptyDirective(t *testing.T) {
	t.Parallel()
	if _, err := Guided("some content", "  "); !errors.Is(err, ErrEmptyDirective) {
		t.Errorf("Guided(blank directive) error = %v, want ErrEmptyDirective", err)
	}
}

func TestGuided_TrimsInputs(t *testing.T) {
	t.Parallel()
	got, err := Guided("  content here \n", "\tdo the thing ")
	if err != nil {
		t.Fatalf("Guided() error: %v", err)
	}
	if strings.Contains(got, "  content here") {
		t.Errorf("Guided() did not trim content: %q", got)
	}
	if !strings.Contains(got, "Task: do the thing\n") {
		t.Errorf("Guided() did not trim directive: %q", got)
	}
}
