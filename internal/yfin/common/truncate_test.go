package common

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate_UnderLimitPassesThrough(t *testing.T) {
	in := strings.Repeat("a", CharacterLimit)
	if got := Truncate(in, "hint"); got != in {
		t.Error("Payload exactly at the limit should pass through unchanged")
	}
	if got := Truncate("short", "hint"); got != "short" {
		t.Error("Short payload should pass through unchanged")
	}
}

func TestTruncate_OverLimit(t *testing.T) {
	in := strings.Repeat("a", CharacterLimit+500)
	hint := "Use a shorter period."
	got := Truncate(in, hint)

	disclosure := fmt.Sprintf("\n\n⚠️ Response truncated at %d characters. %s", CharacterLimit, hint)
	if !strings.HasSuffix(got, disclosure) {
		t.Errorf("Truncated payload should end with the disclosure, got suffix %q", got[len(got)-80:])
	}
	if !strings.HasPrefix(got, strings.Repeat("a", CharacterLimit)) {
		t.Error("Truncated payload should preserve the first CharacterLimit characters")
	}

	wantRunes := CharacterLimit + utf8.RuneCountInString(disclosure)
	if n := utf8.RuneCountInString(got); n != wantRunes {
		t.Errorf("Truncated payload length = %d runes, want %d", n, wantRunes)
	}
}

func TestTruncate_MultibyteSafe(t *testing.T) {
	// Cutting by code points must never split a multibyte character.
	in := strings.Repeat("é", CharacterLimit+10)
	got := Truncate(in, "")

	if !utf8.ValidString(got) {
		t.Fatal("Truncated payload must remain valid UTF-8")
	}
	if !strings.HasPrefix(got, strings.Repeat("é", CharacterLimit)) {
		t.Error("Truncation should keep exactly CharacterLimit code points of the payload")
	}
}
