// =============================================================================
// MailPrep - Header Classification
// =============================================================================
//
// CreateMapDict turns the ordered header row of an intake file into the
// default merge mapping for that file.
//
// RULES (evaluated in this order, each sees only unconsumed headers):
//
//   | Field    | Patterns                                          | Join |
//   |----------|---------------------------------------------------|------|
//   | id       | id\d?                                             | ":"  |
//   | first    | name\d?, name_?line, first, suffix, _prefix       | " "  |
//   | title    | title\d?                                          | ", " |
//   | company  | firm\d?, company\d?                               | ", " |
//   | address  | address1?, line1?                                 | " "  |
//   | address2 | address2, line2                                   | " "  |
//   | city     | city, last_?line, st(ate)?\d?, zip                | " "  |
//   | salline  | dr, mrs?, nameprefix, nametitle, sal, salutation, | " "  |
//   |          | salutation_?line                                  |      |
//
// Headers listed in the blacklist are dropped before any rule runs.
// Headers no rule consumes are passed through as "{header}" under their own
// name, in their original order.
//
// Matched headers are sorted as strings before joining. This is a plain
// byte-order sort, so "NAME2" sorts before "name1". Patterns allow at most
// one digit, so a two-digit header such as "name10" is not consumed by any
// rule and passes through under its own name.
//
// =============================================================================

package merge

import "sort"

// Canonical output field names.
const (
	FieldID       = "id"
	FieldFirst    = "first"
	FieldTitle    = "title"
	FieldCompany  = "company"
	FieldAddress  = "address"
	FieldAddress2 = "address2"
	FieldCity     = "city"
	FieldSalLine  = "salline"
)

// DefaultBlacklist lists headers that never appear in a mapping.
var DefaultBlacklist = []string{"index"}

var defaultFieldMappers = []*FieldMapper{
	mustFieldMapper(NewFieldMapper(FieldID, []string{`id\d?`}, ":")),
	mustFieldMapper(NewNameFieldMapper(FieldFirst, []string{`name\d?`, `name_?line`, `first`, `suffix`, `_prefix`}, DefaultJoinString)),
	mustFieldMapper(NewFieldMapper(FieldTitle, []string{`title\d?`}, ", ")),
	mustFieldMapper(NewFieldMapper(FieldCompany, []string{`firm\d?`, `company\d?`}, ", ")),
	mustFieldMapper(NewFieldMapper(FieldAddress, []string{`address1?`, `line1?`}, DefaultJoinString)),
	mustFieldMapper(NewFieldMapper(FieldAddress2, []string{`address2`, `line2`}, DefaultJoinString)),
	mustFieldMapper(NewFieldMapper(FieldCity, []string{`city`, `last_?line`, `st(ate)?\d?`, `zip`}, DefaultJoinString)),
	mustFieldMapper(NewFieldMapper(FieldSalLine, []string{
		`dr`, `mrs?`,
		`nameprefix`, `nametitle`,
		`sal`, `salutation`, `salutation_?line`,
	}, DefaultJoinString)),
}

// DefaultFieldMappers returns the built-in rules in evaluation order.
// The mappers are shared and must not be modified.
func DefaultFieldMappers() []*FieldMapper {
	mappers := make([]*FieldMapper, len(defaultFieldMappers))
	copy(mappers, defaultFieldMappers)
	return mappers
}

// CreateMapDict classifies headers with the built-in rules and blacklist.
func CreateMapDict(headers []string) *Mapping {
	return CreateMapDictWith(defaultFieldMappers, DefaultBlacklist, headers)
}

// CreateMapDictWith classifies headers with the given rules and blacklist.
//
// PARAMETERS:
//   - mappers: The rules, in priority order.
//   - blacklist: Exact header names to drop.
//   - headers: The header row of the intake file.
//
// RETURNS:
//   - The ordered mapping. Every non-blacklisted header appears exactly
//     once, either inside a rule's expression or passed through.
func CreateMapDictWith(mappers []*FieldMapper, blacklist []string, headers []string) *Mapping {
	ignored := make(map[string]bool, len(blacklist))
	for _, name := range blacklist {
		ignored[name] = true
	}

	// Work on a copy so the caller's slice is untouched.
	unhandled := make([]string, 0, len(headers))
	for _, header := range headers {
		if !ignored[header] {
			unhandled = append(unhandled, header)
		}
	}

	mapped := &Mapping{}

	for _, mapper := range mappers {
		matched := mapper.MatchingHeaders(unhandled)
		if len(matched) == 0 {
			continue
		}

		sort.Strings(matched)
		mapped.Set(mapper.OutputFieldName, mapper.MappingString(matched))

		unhandled = removeAll(unhandled, matched)
	}

	for _, header := range unhandled {
		mapped.Set(header, WrapInBraces(header))
	}

	return mapped
}

// removeAll drops every occurrence of the given values.
func removeAll(values, drop []string) []string {
	dropped := make(map[string]bool, len(drop))
	for _, value := range drop {
		dropped[value] = true
	}

	kept := values[:0:0]
	for _, value := range values {
		if !dropped[value] {
			kept = append(kept, value)
		}
	}
	return kept
}
