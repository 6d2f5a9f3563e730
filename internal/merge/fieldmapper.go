// =============================================================================
// MailPrep - Field Mapper
// =============================================================================
//
// A FieldMapper recognizes the spreadsheet headers that belong to one output
// field and formats them into a merge expression.
//
// MATCHING:
//   Each input pattern is wrapped in word boundaries and all patterns are
//   joined into one alternation. A header matches when, after trimming
//   surrounding whitespace, the alternation matches case-insensitively at
//   the start of the header. The match is not required to span the whole
//   header:
//
//     pattern  \bid\d?\b
//     "ID"     match
//     " id1"   match (trimmed first)
//     "id x"   match (anchored at the start only)
//     "ida"    no match (no word boundary after "id")
//     "list_id" no match (underscore is a word character)
//     "Idée"   no match (é is a word character)
//
//   Word characters are Unicode letters, digits and underscore, and \d
//   matches any Unicode decimal digit. RE2 only knows the ASCII forms, so
//   the compiled expression spells the trailing boundary out as "end of
//   header or a non-word rune". The leading boundary is implied by the
//   anchor, since every pattern starts with a word character.
//
// FORMATTING:
//   Matched headers are wrapped in braces and joined by the mapper's join
//   string: ["City", "State"] -> "{City} {State}".
//
// =============================================================================

package merge

import (
	"fmt"
	"regexp"
	"strings"
)

// wordEnd matches where a Unicode-aware \b would after a word character.
const wordEnd = `(?:$|[^\p{L}\p{N}_])`

// DefaultJoinString separates headers combined into one expression.
const DefaultJoinString = " "

// FieldMapper matches headers for a single output field.
type FieldMapper struct {
	// OutputFieldName is the canonical field the matched headers map to.
	OutputFieldName string

	// JoinString separates the matched headers in the merge expression.
	JoinString string

	pattern string
	re      *regexp.Regexp

	// format post-processes the joined expression, if set.
	format func(string) string
}

// NewFieldMapper compiles a mapper for the given output field.
//
// PARAMETERS:
//   - outputFieldName: The canonical field name (e.g. "city").
//   - patterns: Regular expression fragments; each is wrapped in \b...\b.
//   - joinString: The separator for combined headers.
//
// RETURNS:
//   - The compiled mapper.
//   - An error if the patterns do not form a valid regular expression.
func NewFieldMapper(outputFieldName string, patterns []string, joinString string) (*FieldMapper, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("field %q has no patterns", outputFieldName)
	}

	pattern := buildPattern(patterns)
	re, err := regexp.Compile(`(?i)^(?:` + compilePattern(patterns) + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern for field %q: %w", outputFieldName, err)
	}

	return &FieldMapper{
		OutputFieldName: outputFieldName,
		JoinString:      joinString,
		pattern:         pattern,
		re:              re,
	}, nil
}

// NewNameFieldMapper compiles a mapper that also inserts a comma before a
// {name9} field, so "{name1} {name9}" becomes "{name1}, {name9}".
func NewNameFieldMapper(outputFieldName string, patterns []string, joinString string) (*FieldMapper, error) {
	mapper, err := NewFieldMapper(outputFieldName, patterns, joinString)
	if err != nil {
		return nil, err
	}
	mapper.format = insertName9Comma
	return mapper, nil
}

// mustFieldMapper panics on error; used for the built-in rule table only.
func mustFieldMapper(mapper *FieldMapper, err error) *FieldMapper {
	if err != nil {
		panic(err)
	}
	return mapper
}

// Pattern returns the uncompiled alternation, e.g. `\bid\d?\b`.
func (f *FieldMapper) Pattern() string {
	return f.pattern
}

// IsMatch reports whether the header belongs to this mapper's field.
func (f *FieldMapper) IsMatch(header string) bool {
	return f.re.MatchString(strings.TrimSpace(header))
}

// MatchingHeaders returns the headers that match, in their given order.
func (f *FieldMapper) MatchingHeaders(headers []string) []string {
	var matched []string
	for _, header := range headers {
		if f.IsMatch(header) {
			matched = append(matched, header)
		}
	}
	return matched
}

// MappingString joins the matched headers into a merge expression.
func (f *FieldMapper) MappingString(matchedHeaders []string) string {
	wrapped := make([]string, len(matchedHeaders))
	for i, header := range matchedHeaders {
		wrapped[i] = WrapInBraces(header)
	}

	expression := strings.Join(wrapped, f.JoinString)
	if f.format != nil {
		expression = f.format(expression)
	}
	return expression
}

// WrapInBraces turns a header into a field reference: "name1" -> "{name1}".
func WrapInBraces(value string) string {
	return "{" + value + "}"
}

// buildPattern wraps each fragment in word boundaries and joins them.
func buildPattern(patterns []string) string {
	bounded := make([]string, len(patterns))
	for i, pattern := range patterns {
		bounded[i] = `\b` + pattern + `\b`
	}
	return strings.Join(bounded, "|")
}

// compilePattern builds the RE2 form of buildPattern's alternation.
func compilePattern(patterns []string) string {
	bounded := make([]string, len(patterns))
	for i, pattern := range patterns {
		bounded[i] = unicodeDigits(pattern) + wordEnd
	}
	return strings.Join(bounded, "|")
}

// unicodeDigits rewrites \d and \D as Unicode decimal digit classes.
// Other escapes are copied unchanged.
func unicodeDigits(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '\\' || i+1 == len(pattern) {
			b.WriteByte(pattern[i])
			continue
		}
		i++
		switch pattern[i] {
		case 'd':
			b.WriteString(`\p{Nd}`)
		case 'D':
			b.WriteString(`\P{Nd}`)
		default:
			b.WriteByte('\\')
			b.WriteByte(pattern[i])
		}
	}
	return b.String()
}

// =============================================================================
// NAME9 FORMATTING
// =============================================================================

// name9Token is matched literally and case-sensitively.
const name9Token = "{name9}"

var name9Gap = regexp.MustCompile(`\s+\{name9\}`)

// insertName9Comma replaces the whitespace between a closing brace and a
// following {name9} with ", ".
func insertName9Comma(expression string) string {
	matches := name9Gap.FindAllStringIndex(expression, -1)
	if len(matches) == 0 {
		return expression
	}

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		start := loc[0]
		if start == 0 || expression[start-1] != '}' {
			continue
		}
		b.WriteString(expression[last:start])
		b.WriteString(", ")
		last = loc[1] - len(name9Token)
	}
	b.WriteString(expression[last:])
	return b.String()
}
