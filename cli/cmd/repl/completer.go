package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/langgen/tlang"
)

// words are the Tlang keywords that can be completed: the alphabetic ones.
var words = func() []string {
	var ws []string

	for _, k := range tlang.Keywords {
		if strings.IndexFunc(k, func(r rune) bool { return !unicode.IsLetter(r) }) < 0 {
			ws = append(ws, k)
		}
	}

	return ws
}()

// isWordRune reports whether r can be part of an identifier.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when the cursor is not touching one.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// isCommand reports whether input is a REPL command line.
func isCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), commandPrefix)
}

// candidates returns command names for a command line, otherwise keywords
// and the names in scope.
func candidates(command bool, names []string) []string {
	if command {
		cs := make([]string, len(commands))
		for i, c := range commands {
			cs[i] = c.name
		}

		return cs
	}

	cs := slices.Concat(names, words)
	slices.Sort(cs)

	return slices.Compact(cs)
}

// complete ranks the candidates for the word at cursor, best first, and
// returns the byte offsets of the word. On a command line only the command
// name, directly after the prefix, is completed.
func complete(input string, cursor int, names []string) (fuzzy.Matches, int, int) {
	word, start, end := wordBounds(input, cursor)
	if word == "" {
		return nil, start, end
	}

	command := isCommand(input)
	if command && strings.TrimSpace(input[:start]) != commandPrefix {
		return nil, start, end
	}

	return fuzzy.Find(word, candidates(command, names)), start, end
}

// renderCandidateBar renders matches on one line, ellipsized to width. The
// selected match is highlighted while the user is cycling.
func renderCandidateBar(matches fuzzy.Matches, selected int, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders match with its matched runes emphasized.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, hl := suggestionStyle, matchStyle
	if selected {
		base, hl = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	// MatchedIndexes are byte offsets into Str.
	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
