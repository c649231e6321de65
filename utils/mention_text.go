package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// PrefixMode selects how the addressing prefix is removed from a mention body
type PrefixMode string

const (
	// PrefixModeTag strips leading Chatwork addressing tags by content
	PrefixModeTag PrefixMode = "tag"
	// PrefixModeOffset skips a fixed number of characters
	PrefixModeOffset PrefixMode = "offset"
)

// DefaultPrefixOffset is the length of a "[To:1234567]" tag for a seven digit account id
const DefaultPrefixOffset = 12

// ParsePrefixMode converts a configuration value into a PrefixMode
func ParsePrefixMode(value string) (PrefixMode, error) {
	switch PrefixMode(strings.ToLower(strings.TrimSpace(value))) {
	case PrefixModeTag, "":
		return PrefixModeTag, nil
	case PrefixModeOffset:
		return PrefixModeOffset, nil
	default:
		return "", fmt.Errorf("unknown prefix mode %q (expected %q or %q)", value, PrefixModeTag, PrefixModeOffset)
	}
}

// Matches one addressing tag at the start of the text: [To:123], [toall], [rp aid=1 to=2-3], [Reply aid=1 to=2-3]
var leadingTagRegex = regexp.MustCompile(`(?i)^\s*\[(?:to:\d+|toall|rp\s+aid=\d+\s+to=\d+-\d+|reply\s+aid=\d+\s+to=\d+-\d+)\]`)

// ExtractMessage removes the addressing prefix from a mention body
func ExtractMessage(body string, mode PrefixMode, offset int) string {
	if mode == PrefixModeOffset {
		return SkipRunes(body, offset)
	}
	return StripLeadingTags(body)
}

// SkipRunes drops the first n characters of s. A string shorter than n yields "".
func SkipRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[pos:]
		}
		i++
	}
	return ""
}

// StripLeadingTags removes every addressing tag at the start of text and trims the remainder
func StripLeadingTags(text string) string {
	for {
		loc := leadingTagRegex.FindStringIndex(text)
		if loc == nil {
			break
		}
		text = text[loc[1]:]
	}
	return strings.TrimSpace(text)
}

// FormatReply builds the message posted back to the room
func FormatReply(senderID, displayName, generated string) string {
	return fmt.Sprintf("[To:%s] %s\n%s", senderID, displayName, generated)
}
