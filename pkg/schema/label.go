package schema

import (
	"regexp"
	"strconv"
	"strings"
)

var wordSeparators = regexp.MustCompile(`[_\-\s]+`)

// DisplayLabel returns the declared label, falling back to a human-friendly
// rendering of the last path segment: "billing.postalCode" becomes
// "Postal Code" and "tags[2]" becomes "Tags 3".
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return labelFromPath(f.Path)
}

func labelFromPath(path string) string {
	segment := path
	if dot := strings.LastIndexByte(segment, '.'); dot >= 0 {
		segment = segment[dot+1:]
	}
	suffix := ""
	if open := strings.IndexByte(segment, '['); open >= 0 {
		if n, ok := parseInt(strings.Trim(segment[open:], "[]")); ok {
			suffix = " " + strconv.Itoa(n+1)
		}
		segment = segment[:open]
	}
	return humanize(segment) + suffix
}

// humanize splits on underscores, dashes, and camelCase boundaries, then
// title-cases each word.
func humanize(name string) string {
	if name == "" {
		return ""
	}
	var words []string
	for _, word := range wordSeparators.Split(name, -1) {
		if word == "" {
			continue
		}
		words = append(words, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && camelBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func camelBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	var out []string
	for _, part := range strings.Split(word, " ") {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		out = append(out, strings.ToUpper(lower[:1])+lower[1:])
	}
	return strings.Join(out, " ")
}
