//go:build !tinygo && !baremetal

package selection

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ystepanoff/nrfmulti/protocol"
)

type ruleYAML struct {
	Protocol string   `yaml:"protocol"`
	When     []string `yaml:"when"`
}

type tableYAML struct {
	Gestures []ruleYAML `yaml:"gestures"`
}

// ParseTable reads a gesture table:
//
//	gestures:
//	  - protocol: h8-3d
//	    when: [rudder-high, aileron-low]
func ParseTable(data []byte) (Table, error) {
	var doc tableYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse gesture table: %w", err)
	}

	t := make(Table, 0, len(doc.Gestures))
	for i, r := range doc.Gestures {
		sel, err := protocol.ParseSelector(r.Protocol)
		if err != nil {
			return nil, fmt.Errorf("gesture %d: %w", i, err)
		}
		rule := Rule{Protocol: sel}
		for _, w := range r.When {
			c, err := ParseCondition(w)
			if err != nil {
				return nil, fmt.Errorf("gesture %d: %w", i, err)
			}
			rule.Conditions = append(rule.Conditions, c)
		}
		t = append(t, rule)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTable reads a gesture table file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTable(data)
}

// EncodeTable writes t in the form ParseTable reads.
func EncodeTable(t Table) ([]byte, error) {
	doc := tableYAML{Gestures: make([]ruleYAML, 0, len(t))}
	for _, r := range t {
		ry := ruleYAML{Protocol: r.Protocol.String()}
		for _, c := range r.Conditions {
			ry.When = append(ry.When, c.String())
		}
		doc.Gestures = append(doc.Gestures, ry)
	}
	return yaml.Marshal(doc)
}
