package command

import (
	"strings"
)

// Command represents a parsed slash command.
type Command struct {
	Name      string
	Args      []string
	Raw       string
	Remainder string
}

// Parse parses a line and returns a Command if it starts with "/". Arguments
// are split on whitespace; a double-quoted argument may contain spaces.
func Parse(input string) (Command, bool) {
	trimmed := strings.TrimLeft(input, " \t")
	if !strings.HasPrefix(trimmed, "/") {
		return Command{}, false
	}
	raw := strings.TrimSpace(trimmed[1:])
	if raw == "" {
		return Command{}, true
	}
	tokens, ends := tokenize(raw)
	cmd := Command{
		Name: strings.ToLower(tokens[0]),
		Args: tokens[1:],
		Raw:  raw,
	}
	cmd.Remainder = strings.TrimSpace(raw[ends[0]:])
	return cmd, true
}

// Rest returns the unparsed text after the first n arguments.
func (c Command) Rest(n int) string {
	if n <= 0 {
		return c.Remainder
	}
	_, ends := tokenize(c.Remainder)
	if n > len(ends) {
		return ""
	}
	return strings.TrimSpace(c.Remainder[ends[n-1]:])
}

// tokenize splits raw into arguments and returns the byte offset just past
// each token.
func tokenize(raw string) ([]string, []int) {
	var tokens []string
	var ends []int
	i := 0
	for i < len(raw) {
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) {
			break
		}
		var b strings.Builder
		if raw[i] == '"' {
			i++
			for i < len(raw) && raw[i] != '"' {
				b.WriteByte(raw[i])
				i++
			}
			if i < len(raw) {
				i++
			}
		} else {
			for i < len(raw) && !isSpace(raw[i]) {
				b.WriteByte(raw[i])
				i++
			}
		}
		tokens = append(tokens, b.String())
		ends = append(ends, i)
	}
	return tokens, ends
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
