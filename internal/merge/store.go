// =============================================================================
// MailPrep - Mapping Store
// =============================================================================
//
// The Store holds the mappings of every intake file in a job, keyed by file
// name, in the order the files were added. It is plain storage: expressions
// are not validated here.
//
// The Store is not safe for concurrent mutation.
//
// =============================================================================

package merge

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when a file has no stored mapping.
	ErrFileNotFound = errors.New("file has no mapping")

	// ErrFieldNotFound is returned when a file's mapping lacks a field.
	ErrFieldNotFound = errors.New("field is not mapped")
)

// FileMapping pairs a file name with its mapping.
type FileMapping struct {
	File    string
	Mapping *Mapping
}

// Store is an insertion-ordered file name -> Mapping collection.
type Store struct {
	files    []string
	mappings map[string]*Mapping
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{mappings: make(map[string]*Mapping)}
}

// Files returns the stored file names in insertion order.
func (s *Store) Files() []string {
	files := make([]string, len(s.files))
	copy(files, s.files)
	return files
}

// Len returns the number of stored files.
func (s *Store) Len() int {
	return len(s.files)
}

// HasFile reports whether a mapping is stored for the file.
func (s *Store) HasFile(fileName string) bool {
	_, ok := s.mappings[fileName]
	return ok
}

// Mappings returns the mapping stored for a file.
func (s *Store) Mappings(fileName string) (*Mapping, error) {
	mapping, ok := s.mappings[fileName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFileNotFound, fileName)
	}
	return mapping, nil
}

// Mapping returns the expression for one field of one file.
func (s *Store) Mapping(fileName, fieldName string) (string, error) {
	mapping, err := s.Mappings(fileName)
	if err != nil {
		return "", err
	}

	expression, ok := mapping.Get(fieldName)
	if !ok {
		return "", fmt.Errorf("%w: %q in %q", ErrFieldNotFound, fieldName, fileName)
	}
	return expression, nil
}

// SetFileMappings stores the mapping for a file, replacing any previous
// mapping wholesale. A file that is already stored keeps its position.
func (s *Store) SetFileMappings(fileName string, mapping *Mapping) {
	if s.mappings == nil {
		s.mappings = make(map[string]*Mapping)
	}
	if mapping == nil {
		mapping = &Mapping{}
	}
	if _, exists := s.mappings[fileName]; !exists {
		s.files = append(s.files, fileName)
	}
	s.mappings[fileName] = mapping
}

// SetAllMappings replaces the entire store content.
func (s *Store) SetAllMappings(files []FileMapping) {
	s.files = nil
	s.mappings = make(map[string]*Mapping, len(files))
	for _, fm := range files {
		s.SetFileMappings(fm.File, fm.Mapping)
	}
}

// All returns every stored file and mapping in order.
func (s *Store) All() []FileMapping {
	all := make([]FileMapping, 0, len(s.files))
	for _, file := range s.files {
		all = append(all, FileMapping{File: file, Mapping: s.mappings[file]})
	}
	return all
}

// Merge copies every file of other into s, replacing mappings of files both
// stores hold.
func (s *Store) Merge(other *Store) {
	for _, fm := range other.All() {
		s.SetFileMappings(fm.File, fm.Mapping)
	}
}
