package tooldef

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a mapping key that appears twice in a definition
// document, with the positions of both occurrences.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// Document is the multi-tool file layout: a list under "tools".
type Document struct {
	Tools []Definition `yaml:"tools" json:"tools" jsonschema:"required"`
}

// Load reads tool definitions from a YAML or JSON stream. The stream may hold
// several YAML documents; each is either a single Definition or a Document.
func Load(r io.Reader) ([]Definition, error) {
	dec := yaml.NewDecoder(r)
	var out []Definition
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("tooldef: decode: %w", err)
		}
		if len(root.Content) == 0 {
			continue
		}
		node := root.Content[0]
		if err := checkDuplicateKeys(node); err != nil {
			return nil, err
		}
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: document at line %d is not a mapping", ErrInvalidDefinition, node.Line)
		}
		if hasKey(node, "tools") {
			var doc Document
			if err := node.Decode(&doc); err != nil {
				return nil, fmt.Errorf("tooldef: decode tools: %w", err)
			}
			out = append(out, doc.Tools...)
			continue
		}
		var def Definition
		if err := node.Decode(&def); err != nil {
			return nil, fmt.Errorf("tooldef: decode definition: %w", err)
		}
		out = append(out, def)
	}
}

// LoadFile is Load for a file on disk.
func LoadFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tooldef: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

func checkDuplicateKeys(n *yaml.Node) error {
	switch n.Kind {
	case yaml.MappingNode:
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if pos, dup := first[k.Value]; dup {
				return &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			if err := checkDuplicateKeys(n.Content[i+1]); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if err := checkDuplicateKeys(c); err != nil {
				return err
			}
		}
	}
	return nil
}
