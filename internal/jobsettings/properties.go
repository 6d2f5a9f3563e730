package jobsettings

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// =============================================================================
// PROPERTY REGISTRY
// =============================================================================

// PropertyKind selects how a property value is edited and parsed.
type PropertyKind int

const (
	KindStr PropertyKind = iota + 1
	KindBool
)

func (k PropertyKind) String() string {
	switch k {
	case KindStr:
		return "str"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("PropertyKind(%d)", int(k))
	}
}

// JobProperty describes a known job property.
type JobProperty struct {
	Name    string
	Group   string
	Kind    PropertyKind
	Default any
}

const (
	GroupCustomerInformation = "Customer Information"
	GroupMergeSettings       = "Merge Settings"
)

// JobProperties lists the known job properties in display order.
var JobProperties = []JobProperty{
	{Name: "Customer", Group: GroupCustomerInformation, Kind: KindStr, Default: nil},
	{Name: "Department", Group: GroupCustomerInformation, Kind: KindStr, Default: nil},
	{Name: "Use Custom Campus", Group: GroupMergeSettings, Kind: KindBool, Default: false},
	{Name: "Custom Campus Path", Group: GroupMergeSettings, Kind: KindStr, Default: nil},
}

// LookupProperty finds a known property by name, ignoring case and spacing.
func LookupProperty(name string) (JobProperty, bool) {
	normalized := NormalizeKey(name)
	for _, property := range JobProperties {
		if NormalizeKey(property.Name) == normalized {
			return property, true
		}
	}
	return JobProperty{}, false
}

// ParseValue converts command-line text into a value of the property's kind.
// An empty string clears a str property.
func (p JobProperty) ParseValue(raw string) (any, error) {
	switch p.Kind {
	case KindBool:
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("property %q expects true or false, got %q", p.Name, raw)
		}
		return value, nil
	default:
		if raw == "" {
			return nil, nil
		}
		return raw, nil
	}
}

// PropertyValue is a property paired with its effective value.
type PropertyValue struct {
	Property JobProperty
	Value    any
}

// Resolve returns every known property with its value in settings, or its
// default when unset.
func Resolve(settings *Settings) []PropertyValue {
	values := make([]PropertyValue, len(JobProperties))
	for i, property := range JobProperties {
		values[i] = PropertyValue{
			Property: property,
			Value:    settings.Property(property.Name, property.Default),
		}
	}
	return values
}

// Equivalent compares property values, treating nil and "" as equal.
func Equivalent(a, b any) bool {
	if isBlank(a) && isBlank(b) {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// =============================================================================
// PROPERTY STATE
// =============================================================================

// PropertyState tracks the saved and current value of one property.
type PropertyState struct {
	Saved any
	Value any
}

// IsChanged reports whether the current value differs from the saved one.
func (s *PropertyState) IsChanged() bool {
	return !Equivalent(s.Saved, s.Value)
}

// Save marks the current value as saved.
func (s *PropertyState) Save() {
	s.Saved = s.Value
}

// =============================================================================
// JOB
// =============================================================================

// Job tracks the known properties of a job and which of them have unsaved
// changes.
type Job struct {
	Settings *Settings
	states   map[string]*PropertyState
}

// NewJob seeds property states from settings.
func NewJob(settings *Settings) *Job {
	job := &Job{
		Settings: settings,
		states:   make(map[string]*PropertyState, len(JobProperties)),
	}
	for _, value := range Resolve(settings) {
		job.states[value.Property.Name] = &PropertyState{Saved: value.Value, Value: value.Value}
	}
	return job
}

// Value returns the current value of a known property.
func (j *Job) Value(name string) (any, error) {
	state, err := j.state(name)
	if err != nil {
		return nil, err
	}
	return state.Value, nil
}

// SetValue updates a known property.
//
// RETURNS:
//   - Whether the property now differs from its saved value.
func (j *Job) SetValue(name string, value any) (bool, error) {
	state, err := j.state(name)
	if err != nil {
		return false, err
	}
	state.Value = value
	return state.IsChanged(), nil
}

// IsChanged reports whether any property has unsaved changes.
func (j *Job) IsChanged() bool {
	for _, state := range j.states {
		if state.IsChanged() {
			return true
		}
	}
	return false
}

// Commit writes changed properties into the settings and marks them saved.
//
// RETURNS:
//   - The names of the properties written, in registry order.
func (j *Job) Commit() []string {
	var written []string
	for _, property := range JobProperties {
		state := j.states[property.Name]
		if !state.IsChanged() {
			continue
		}
		if j.Settings.SetProperty(property.Name, state.Value) {
			written = append(written, property.Name)
		}
		state.Save()
	}
	return written
}

func (j *Job) state(name string) (*PropertyState, error) {
	property, ok := LookupProperty(name)
	if !ok {
		return nil, fmt.Errorf("unknown job property %q", name)
	}
	return j.states[property.Name], nil
}
