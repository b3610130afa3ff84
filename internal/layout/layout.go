// Package layout describes composite projections as YAML documents and
// compiles them into composite.Composite values.
package layout

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidLayout is returned when a layout document fails validation
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrUnknownComponent is returned when a chooser references a component that does not exist
	ErrUnknownComponent = errors.New("unknown component")

	// ErrUnknownLayout is returned when no built-in layout has the requested name
	ErrUnknownLayout = errors.New("unknown built-in layout")
)

// DefaultName is the built-in layout used when none is specified
const DefaultName = "albers-usa"

//go:embed layouts/*.yaml
var builtins embed.FS

//go:embed schema.json
var schemaJSON []byte

// Document is a composite projection layout
type Document struct {
	Name       string      `yaml:"name"`
	Scale      float64     `yaml:"scale"`
	Translate  *[2]float64 `yaml:"translate,omitempty"`
	Countries  []string    `yaml:"countries,omitempty"`
	Components []Component `yaml:"components"`
	Chooser    Chooser     `yaml:"chooser"`
}

// Component describes one regional conic equal-area projection and its placement
type Component struct {
	Name      string         `yaml:"name"`
	Rotate    []float64      `yaml:"rotate,omitempty,flow"`
	Center    [2]float64     `yaml:"center,flow"`
	Parallels [2]float64     `yaml:"parallels,flow"`
	Scale     float64        `yaml:"scale,omitempty"`
	Translate [2]float64     `yaml:"translate,omitempty,flow"`
	Extent    *[2][2]float64 `yaml:"extent,omitempty,flow"`
}

// Chooser routes lon/lat points to components: the first rule whose conditions
// all hold wins, otherwise Default
type Chooser struct {
	Default string `yaml:"default"`
	Rules   []Rule `yaml:"rules,omitempty"`
}

// Rule selects Component when every present condition holds (strict comparisons)
type Rule struct {
	Component string   `yaml:"component"`
	LatAbove  *float64 `yaml:"lat_above,omitempty"`
	LatBelow  *float64 `yaml:"lat_below,omitempty"`
	LonAbove  *float64 `yaml:"lon_above,omitempty"`
	LonBelow  *float64 `yaml:"lon_below,omitempty"`
}

// Matches reports whether lon/lat satisfies every condition of the rule
func (r Rule) Matches(lon, lat float64) bool {
	if r.LatAbove != nil && !(lat > *r.LatAbove) {
		return false
	}
	if r.LatBelow != nil && !(lat < *r.LatBelow) {
		return false
	}
	if r.LonAbove != nil && !(lon > *r.LonAbove) {
		return false
	}
	if r.LonBelow != nil && !(lon < *r.LonBelow) {
		return false
	}
	return true
}

// Parse decodes and validates a YAML layout document
func Parse(data []byte) (*Document, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Load reads a layout document from a file
func Load(filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return doc, nil
}

// Builtin returns the embedded layout with the given name
func Builtin(name string) (*Document, error) {
	data, err := builtins.ReadFile(path.Join("layouts", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return Parse(data)
}

// BuiltinNames lists the embedded layouts
func BuiltinNames() []string {
	entries, err := builtins.ReadDir("layouts")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Resolve returns the built-in layout named ref, or loads ref as a file path.
// An empty ref selects DefaultName.
func Resolve(ref string) (*Document, error) {
	if ref == "" {
		ref = DefaultName
	}
	for _, name := range BuiltinNames() {
		if name == ref {
			return Builtin(name)
		}
	}
	return Load(ref)
}

// Marshal encodes the document as YAML
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// validateSchema checks a decoded document against the embedded JSON Schema
func validateSchema(raw map[string]interface{}) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	documentLoader := gojsonschema.NewGoLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: schema validation error: %v", ErrInvalidLayout, err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidLayout, strings.Join(problems, "; "))
	}
	return nil
}
