package common

import "fmt"

// CharacterLimit is the hard ceiling on every tool response, in Unicode code
// points. Applied once, as the last step before a handler returns.
const CharacterLimit = 25000

// Truncate enforces the response size ceiling. Payloads within budget pass
// through unchanged; over-budget payloads are cut at exactly CharacterLimit
// code points and a disclosure is appended, optionally carrying a hint about
// how to request a smaller result. Truncation is positional: a truncated JSON
// payload may no longer parse, which is an accepted tradeoff of the cap.
func Truncate(response, hint string) string {
	runes := []rune(response)
	if len(runes) <= CharacterLimit {
		return response
	}

	msg := fmt.Sprintf("\n\n⚠️ Response truncated at %d characters. %s", CharacterLimit, hint)
	return string(runes[:CharacterLimit]) + msg
}
