package timetable

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// SlotConfig maps a slot code to the hour its publishing window opens.
type SlotConfig struct {
	Code    string `yaml:"code"`
	StartHr int    `yaml:"startHr"`
}

// Assignment is one cell of the weekly grid.
type Assignment struct {
	Day      time.Weekday
	Slot     string
	Topic    string
	Assignee string
}

// Timetable is the read-only weekly grid plus its slot configuration.
// Entries keep the order in which they appear in the source document.
type Timetable struct {
	slots   []SlotConfig
	entries []Assignment
}

type document struct {
	Slots     []SlotConfig `yaml:"slots"`
	Timetable yaml.Node    `yaml:"timetable"`
}

type cell struct {
	Topic    string `yaml:"topic"`
	Assignee string `yaml:"assignee"`
}

// New validates slots and entries and builds a Timetable.
func New(slots []SlotConfig, entries []Assignment) (*Timetable, error) {
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		if s.Code == "" {
			return nil, fmt.Errorf("slot with empty code")
		}
		if s.StartHr < 0 || s.StartHr > 23 {
			return nil, fmt.Errorf("slot %s: startHr %d out of range", s.Code, s.StartHr)
		}
		if _, dup := seen[s.Code]; dup {
			return nil, fmt.Errorf("slot %s declared twice", s.Code)
		}
		seen[s.Code] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := seen[e.Slot]; !ok {
			return nil, fmt.Errorf("%s: unknown slot %q", e.Day, e.Slot)
		}
	}

	return &Timetable{
		slots:   append([]SlotConfig(nil), slots...),
		entries: append([]Assignment(nil), entries...),
	}, nil
}

// Load reads a timetable document from path, or the embedded default when path is empty.
func Load(path string) (*Timetable, error) {
	if path == "" {
		return Parse(defaultDocument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timetable: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML timetable document.
func Parse(data []byte) (*Timetable, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode timetable: %w", err)
	}

	entries, err := decodeGrid(&doc.Timetable)
	if err != nil {
		return nil, err
	}
	return New(doc.Slots, entries)
}

// decodeGrid walks the day -> slot mapping node by node so document order survives.
func decodeGrid(node *yaml.Node) ([]Assignment, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("timetable: expected mapping of days, got line %d", node.Line)
	}

	var entries []Assignment
	for i := 0; i+1 < len(node.Content); i += 2 {
		dayKey, slots := node.Content[i], node.Content[i+1]
		day, err := ParseWeekday(dayKey.Value)
		if err != nil {
			return nil, fmt.Errorf("timetable line %d: %w", dayKey.Line, err)
		}
		if slots.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("timetable line %d: expected mapping of slots for %s", slots.Line, dayKey.Value)
		}
		for j := 0; j+1 < len(slots.Content); j += 2 {
			slotKey := slots.Content[j]
			var c cell
			if err := slots.Content[j+1].Decode(&c); err != nil {
				return nil, fmt.Errorf("timetable line %d: %w", slotKey.Line, err)
			}
			entries = append(entries, Assignment{
				Day:      day,
				Slot:     slotKey.Value,
				Topic:    c.Topic,
				Assignee: c.Assignee,
			})
		}
	}
	return entries, nil
}

// ParseWeekday accepts English weekday names in any case.
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// Entries returns the flattened (day, slot) sequence in scan order.
func (t *Timetable) Entries() []Assignment {
	return append([]Assignment(nil), t.entries...)
}

// Slots returns the slot configuration.
func (t *Timetable) Slots() []SlotConfig {
	return append([]SlotConfig(nil), t.slots...)
}

// StartHour resolves the start hour of a slot code.
func (t *Timetable) StartHour(code string) (int, bool) {
	for _, s := range t.slots {
		if s.Code == code {
			return s.StartHr, true
		}
	}
	return 0, false
}
