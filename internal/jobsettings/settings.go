// =============================================================================
// MailPrep - Job Settings
// =============================================================================
//
// A job file (.mpjob) is a JSON document describing one mailing job. Job
// properties live under the "properties" object:
//
//   {
//     "properties": {
//       "Customer": "Acme",
//       "Use Custom Campus": true
//     }
//   }
//
// Keys are matched case-insensitively (see NormalizeKey). A job file that is
// not valid JSON is treated as an empty job rather than an error, so a new
// or corrupted file can still be opened and saved over.
//
// =============================================================================

package jobsettings

import (
	"fmt"
	"io"
	"reflect"

	"github.com/goccy/go-json"

	"github.com/jepaynedev/mailprep/internal/logging"
)

// PropertiesKey is the settings key holding job properties.
const PropertiesKey = "properties"

// FileExtension is the extension of job files.
const FileExtension = ".mpjob"

// Settings wraps a job settings document.
type Settings struct {
	settings *InsensitiveMap
	log      logging.Logger
}

// New creates empty settings.
func New(log logging.Logger) *Settings {
	if log == nil {
		log = logging.Nop()
	}
	return &Settings{settings: NewInsensitiveMap(), log: log}
}

// Load reads settings from r.
//
// RETURNS:
//   - The settings seeded from r. Content that is not a JSON object yields
//     empty settings.
//   - An error only if r cannot be read.
func Load(r io.Reader, log logging.Logger) (*Settings, error) {
	settings := New(log)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read job settings: %w", err)
	}

	var source map[string]any
	if err := json.Unmarshal(data, &source); err != nil {
		settings.log.Warn("Job settings are not valid JSON, starting empty: %v", err)
		return settings, nil
	}

	return settings.Initialize(source), nil
}

// Initialize merges initial into the settings. A nil map is ignored.
func (s *Settings) Initialize(initial map[string]any) *Settings {
	if initial != nil {
		s.Merge(initial)
	}
	return s
}

// Merge deep-merges values into the settings.
func (s *Settings) Merge(values map[string]any) {
	logging.LogCall(s.log, "Merge", values)
	RecursiveMerge(s.settings, FromMap(values))
}

// Get returns the top-level value under key.
func (s *Settings) Get(key string) (any, bool) {
	return s.settings.Get(key)
}

// Property returns the job property key, or def when it is not set.
func (s *Settings) Property(key string, def any) any {
	properties, ok := s.properties()
	if !ok {
		return def
	}
	return properties.GetOr(key, def)
}

// SetProperty sets the job property key to value.
//
// RETURNS:
//   - true if the property was added or its value changed.
func (s *Settings) SetProperty(key string, value any) bool {
	logging.LogCall(s.log, "SetProperty", key, value)

	properties, ok := s.properties()
	if !ok {
		properties = NewInsensitiveMap()
		s.settings.Set(PropertiesKey, properties)
	}

	current, exists := properties.Get(key)
	if exists && reflect.DeepEqual(current, value) {
		return false
	}

	properties.Set(key, value)
	return true
}

// Save writes the settings to w as indented JSON.
func (s *Settings) Save(w io.Writer) error {
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode job settings: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write job settings: %w", err)
	}
	return nil
}

// ToMap returns a deep copy of the settings document.
func (s *Settings) ToMap() map[string]any {
	return s.settings.ToMap()
}

func (s *Settings) String() string {
	data, err := json.Marshal(s.settings)
	if err != nil {
		return fmt.Sprintf("Settings<%v>", err)
	}
	return string(data)
}

// properties returns the properties object if present and a map.
func (s *Settings) properties() (*InsensitiveMap, bool) {
	value, ok := s.settings.Get(PropertiesKey)
	if !ok {
		return nil, false
	}
	properties, ok := value.(*InsensitiveMap)
	return properties, ok
}
