package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// ShebangMarker starts an interpreter line that the builder ignores.
	ShebangMarker = "#!"

	// FrontmatterDelimiter opens and closes the manifest block when it is alone on a line.
	FrontmatterDelimiter = "+++"
)

// Script is a parsed script source.
type Script struct {
	// Frontmatter is the manifest text between the delimiters, without them.
	Frontmatter string
	// Body is the program source handed to the compiler.
	Body string
}

// DecodeScript checks that raw is UTF-8 text and returns it as a string.
func DecodeScript(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", ErrInputNotText
	}
	return string(raw), nil
}

// ParseScript splits source into its frontmatter and body.
//
// A leading shebang line is dropped. If the remaining text opens with a "+++" line,
// everything up to the next "+++" line is frontmatter and the rest is the body.
func ParseScript(source string) (Script, error) {
	text := strings.TrimSpace(source)
	if strings.HasPrefix(text, ShebangMarker) {
		_, rest, _ := strings.Cut(text, "\n")
		text = strings.TrimSpace(rest)
	}

	first, remaining, _ := strings.Cut(text, "\n")
	if !isDelimiter(first) {
		return Script{Body: text}, nil
	}

	var front []string
	for remaining != "" {
		line, next, found := strings.Cut(remaining, "\n")
		if isDelimiter(line) {
			return Script{
				Frontmatter: strings.Join(front, "\n"),
				Body:        strings.TrimSpace(next),
			}, nil
		}
		front = append(front, line)
		if !found {
			break
		}
		remaining = next
	}

	return Script{}, ErrFrontmatterUnterminated
}

func isDelimiter(line string) bool {
	return strings.TrimSuffix(line, "\r") == FrontmatterDelimiter
}
