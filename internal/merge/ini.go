// =============================================================================
// MailPrep - Mapping File Format
// =============================================================================
//
// The store is persisted as an INI-style text file with one section per
// intake file:
//
//   [filename.xlsx]
//   id       = {ID1}:{ID2}
//   first    = {name1}, {name9}
//   address2 = {Line2}
//
//   [second.xlsx]
//   id       = {id}
//
// Every field name is padded to the length of the longest field name in the
// whole store, so all "=" signs line up across sections. Each section is
// followed by one blank line.
//
// Alignment depends only on content: reading a file back and writing it
// again produces identical bytes. Field names are read back trimmed, so this
// holds only for field names without surrounding whitespace. Headers read by
// the headers package are already trimmed; a caller passing untrimmed
// headers to CreateMapDict gets a file whose alignment changes once on the
// first rewrite.
//
// =============================================================================

package merge

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/ini.v1"

	"github.com/jepaynedev/mailprep/internal/logging"
	"github.com/jepaynedev/mailprep/pkg/utils"
)

// keyValueSeparator is written between the padded field name and the value.
const keyValueSeparator = " = "

// WriteTo writes the store in the mapping file format. An empty store
// writes nothing.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	if s.Len() == 0 {
		return 0, nil
	}

	width := s.fieldNameWidth()

	var b strings.Builder
	for _, fm := range s.All() {
		b.WriteString("[" + fm.File + "]\n")
		for _, pair := range fm.Mapping.Pairs() {
			b.WriteString(utils.PadRight(pair.Field, width))
			b.WriteString(keyValueSeparator)
			b.WriteString(pair.Expression)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	n, err := io.WriteString(w, b.String())
	if err != nil {
		return int64(n), fmt.Errorf("failed to write mapping: %w", err)
	}
	return int64(n), nil
}

// String renders the store in the mapping file format.
func (s *Store) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

// fieldNameWidth is the rune length of the longest field name of any file.
func (s *Store) fieldNameWidth() int {
	width := 0
	for _, fm := range s.All() {
		for _, key := range fm.Mapping.Keys() {
			if n := utf8.RuneCountInString(key); n > width {
				width = n
			}
		}
	}
	return width
}

// =============================================================================
// PARSING
// =============================================================================

// FromStream reads a mapping file into a new store.
//
// RETURNS:
//   - A store with one file per section and one field per key, in file order.
//   - An error if the stream cannot be read or is not valid INI, or if keys
//     appear before the first section.
func FromStream(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:      "=",
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}

	store := NewStore()
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			if len(section.Keys()) > 0 {
				return nil, errors.New("failed to parse mapping: fields outside of a file section")
			}
			continue
		}

		mapping := &Mapping{}
		for _, key := range section.Keys() {
			mapping.Set(key.Name(), key.Value())
		}
		store.SetFileMappings(section.Name(), mapping)
	}

	return store, nil
}

// LoadOrEmpty reads a mapping file, falling back to an empty store when the
// content cannot be parsed. The failure is logged, not returned.
func LoadOrEmpty(r io.Reader, log logging.Logger) *Store {
	store, err := FromStream(r)
	if err != nil {
		log.Warn("Ignoring existing mapping: %v", err)
		return NewStore()
	}
	return store
}
