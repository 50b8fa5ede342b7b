// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy loads the static hierarchical category vocabulary.
// The vocabulary is read-only: the pipeline checks classified category
// paths against it but never defines or mutates categories.
// See docs/ARCHITECTURE § Taxonomy.
package taxonomy

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/academic-metrics/pkg/types"
)

// Node is one category in the vocabulary tree.
type Node struct {
	Name     string `yaml:"name"`
	Children []Node `yaml:"children,omitempty"`
}

// Taxonomy is the loaded vocabulary with an index of every valid path.
type Taxonomy struct {
	Roots []Node

	// index holds the key of every path from a root to any node, not
	// just leaves: a record may be classified at an interior level.
	index types.StringSet
}

// Load reads a taxonomy YAML file. The file is a list of nodes:
//
//	- name: Physical Sciences
//	  children:
//	    - name: Computer Science
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy %s: %w", path, err)
	}

	var roots []Node
	if err := yaml.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("parsing taxonomy %s: %w", path, err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("taxonomy %s defines no categories", path)
	}

	t := &Taxonomy{Roots: roots, index: types.NewStringSet()}
	for _, root := range roots {
		if err := t.indexNode(nil, root); err != nil {
			return nil, fmt.Errorf("taxonomy %s: %w", path, err)
		}
	}
	return t, nil
}

func (t *Taxonomy) indexNode(prefix types.CategoryPath, node Node) error {
	if node.Name == "" {
		return fmt.Errorf("category under %q has no name", prefix.Key())
	}
	path := append(append(types.CategoryPath{}, prefix...), node.Name)
	t.index.Add(path.Key())
	for _, child := range node.Children {
		if err := t.indexNode(path, child); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether the path exists in the vocabulary.
func (t *Taxonomy) Contains(p types.CategoryPath) bool {
	return t.index.Has(p.Key())
}

// Len returns the number of indexed category paths.
func (t *Taxonomy) Len() int {
	return len(t.index)
}

// Keys returns every indexed path key in lexicographic order.
func (t *Taxonomy) Keys() []string {
	return t.index.Sorted()
}
