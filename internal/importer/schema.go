package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a plan file.
type ImportSchema struct {
	Shifts   []ShiftImport   `json:"shifts" yaml:"shifts" validate:"dive"`
	Machines []MachineImport `json:"machines" yaml:"machines" validate:"dive"`
	Requests []RequestImport `json:"requests" yaml:"requests" validate:"dive"`
}

// ShiftImport defines one shift. Shifts are appended in file order, which
// is the order the calendar resolves them in.
type ShiftImport struct {
	Name    string        `json:"name" yaml:"name" validate:"required"`
	Start   string        `json:"start" yaml:"start" validate:"required"`
	End     string        `json:"end" yaml:"end" validate:"required"`
	Pauses  []PauseImport `json:"pauses,omitempty" yaml:"pauses,omitempty" validate:"dive"`
	Working *bool         `json:"working,omitempty" yaml:"working,omitempty"`
	Color   string        `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
}

type PauseImport struct {
	Start string `json:"start" yaml:"start" validate:"required"`
	End   string `json:"end" yaml:"end" validate:"required"`
}

// MachineImport defines a machine and its per-item setup times. Ref is
// local to the file; requests point at it through machine_ref.
type MachineImport struct {
	Ref    string        `json:"ref" yaml:"ref" validate:"required"`
	Name   string        `json:"name" yaml:"name" validate:"required"`
	Setups []SetupImport `json:"setups,omitempty" yaml:"setups,omitempty" validate:"dive"`
}

type SetupImport struct {
	ItemID   string `json:"item_id" yaml:"item_id" validate:"required"`
	SetupMin int    `json:"setup_min" yaml:"setup_min" validate:"gte=0"`
}

// RequestImport defines one production request.
type RequestImport struct {
	Ref                   string     `json:"ref" yaml:"ref" validate:"required"`
	MachineRef            string     `json:"machine_ref" yaml:"machine_ref" validate:"required"`
	ItemID                string     `json:"item_id" yaml:"item_id" validate:"required"`
	ItemName              string     `json:"item_name,omitempty" yaml:"item_name,omitempty"`
	ItemType              string     `json:"item_type,omitempty" yaml:"item_type,omitempty" validate:"omitempty,oneof=product semiproduct"`
	Quantity              int64      `json:"quantity" yaml:"quantity" validate:"gte=0"`
	ProductionTimePerUnit NumberText `json:"production_time_per_unit" yaml:"production_time_per_unit" validate:"required"`
	SetupMin              int        `json:"setup_min,omitempty" yaml:"setup_min,omitempty" validate:"gte=0"`
	MinBatch              int64      `json:"min_batch,omitempty" yaml:"min_batch,omitempty" validate:"gte=0"`
	IntervalBatch         int64      `json:"interval_batch,omitempty" yaml:"interval_batch,omitempty" validate:"gte=0"`
	RequestedStart        *string    `json:"requested_start,omitempty" yaml:"requested_start,omitempty"`
}

// NumberText holds a decimal as written in the file, quoted or not, so it
// can be parsed without going through float64.
type NumberText string

func (n *NumberText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}
	*n = NumberText(num.String())
	return nil
}

func (n *NumberText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	*n = NumberText(node.Value)
	return nil
}

// Format selects the decoder for a plan file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadImportSchema reads and parses a plan file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeImportSchema(f, FormatForPath(path))
}

// DecodeImportSchema parses a plan file from r.
func DecodeImportSchema(r io.Reader, format Format) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&schema); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
