package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseModelJSON parses JSON out of LLM output. Model replies are rarely
// clean: the payload may be wrapped in a markdown code fence, surrounded by
// prose, or carry trailing commas. Strategies are tried in order from
// cheapest to most forgiving.
func ParseModelJSON(input string, target interface{}) error {
	if input == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := ExtractJSONObject(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
		if cleaned := cleanJSON(extracted); cleaned != "" {
			if err := json.Unmarshal([]byte(cleaned), target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", truncateString(input, 100))
}

// ExtractJSONObject finds the first balanced JSON object or array embedded
// in free text, or "" when none exists.
func ExtractJSONObject(input string) string {
	if start := strings.IndexAny(input, "{["); start >= 0 {
		open := rune(input[start])
		close := '}'
		if open == '[' {
			close = ']'
		}
		return extractBalanced(input[start:], open, close)
	}
	return ""
}

// extractFromMarkdown pulls the body out of a ```json fenced block
func extractFromMarkdown(input string) string {
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	if matches := re.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}
	return ""
}

// extractBalanced returns the prefix of input up to the bracket balancing
// the opening one, respecting string literals and escapes.
func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}
	return ""
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	controlCharRe   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// cleanJSON strips common model formatting mistakes: a BOM, trailing commas
// before closers, and raw control characters.
func cleanJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = controlCharRe.ReplaceAllString(s, "")
	return s
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
