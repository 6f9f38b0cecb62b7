package compose

import (
	"fmt"
	"sort"

	"go.yaml.in/yaml/v4"
)

// SourceLocation represents a position in a source document.
// Line and Column are 1-based (matching editor conventions).
// A zero Line value indicates the location is unknown.
type SourceLocation struct {
	// Line is the 1-based line number (0 if unknown)
	Line int
	// Column is the 1-based column number (0 if unknown)
	Column int
	// File is the source file path (empty when parsing raw bytes)
	File string
}

// IsKnown returns true if this location has valid line information.
func (s SourceLocation) IsKnown() bool {
	return s.Line > 0
}

// String returns a human-readable location string.
// Format: "file:line:column" or "line:column" if no file, or "<unknown>" if not known.
func (s SourceLocation) String() string {
	if !s.IsKnown() {
		if s.File != "" {
			return s.File
		}
		return "<unknown>"
	}
	if s.File != "" {
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// SourceMap provides model path to source location mapping.
// It enables looking up the original YAML position for any element in a
// parsed compose file, keyed by dotted paths such as
// "services.mariadb.healthcheck.interval" or "services.web.ports[0]".
//
// The SourceMap is built during parsing when WithSourceMap(true) is used.
type SourceMap struct {
	// locations maps model paths to their source locations (value positions)
	locations map[string]SourceLocation
	// keyLocations maps model paths to their key positions (for map keys)
	keyLocations map[string]SourceLocation
}

// NewSourceMap creates an empty SourceMap.
func NewSourceMap() *SourceMap {
	return &SourceMap{
		locations:    make(map[string]SourceLocation),
		keyLocations: make(map[string]SourceLocation),
	}
}

// Get returns the source location for a model path.
// Returns a zero SourceLocation if the path is not found.
func (sm *SourceMap) Get(path string) SourceLocation {
	if sm == nil {
		return SourceLocation{}
	}
	return sm.locations[path]
}

// GetKey returns the source location of a map key at the given path.
// This is useful for issues about the key itself.
// Returns a zero SourceLocation if the path is not found.
func (sm *SourceMap) GetKey(path string) SourceLocation {
	if sm == nil {
		return SourceLocation{}
	}
	return sm.keyLocations[path]
}

// Paths returns all known model paths in sorted order.
func (sm *SourceMap) Paths() []string {
	if sm == nil {
		return nil
	}
	paths := make([]string, 0, len(sm.locations))
	for path := range sm.locations {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of recorded value locations.
func (sm *SourceMap) Len() int {
	if sm == nil {
		return 0
	}
	return len(sm.locations)
}

func (sm *SourceMap) set(path string, loc SourceLocation) {
	sm.locations[path] = loc
}

func (sm *SourceMap) setKey(path string, loc SourceLocation) {
	sm.keyLocations[path] = loc
}

// buildSourceMap walks a yaml.Node tree and builds a SourceMap
// correlating dotted model paths to source locations.
func buildSourceMap(root *yaml.Node, sourcePath string) *SourceMap {
	sm := NewSourceMap()
	if root == nil {
		return sm
	}
	walkNode(root, "", sm, sourcePath)
	return sm
}

// walkNode recursively walks a yaml.Node tree, recording source locations.
func walkNode(node *yaml.Node, path string, sm *SourceMap, file string) {
	if node == nil {
		return
	}

	if path != "" {
		sm.set(path, SourceLocation{Line: node.Line, Column: node.Column, File: file})
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) > 0 {
			walkNode(node.Content[0], path, sm, file)
		}

	case yaml.MappingNode:
		// Content alternates: key, value, key, value...
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]

			childPath := keyNode.Value
			if path != "" {
				childPath = path + "." + keyNode.Value
			}

			sm.setKey(childPath, SourceLocation{
				Line:   keyNode.Line,
				Column: keyNode.Column,
				File:   file,
			})
			walkNode(valNode, childPath, sm, file)
		}

	case yaml.SequenceNode:
		for i, child := range node.Content {
			walkNode(child, fmt.Sprintf("%s[%d]", path, i), sm, file)
		}

	case yaml.ScalarNode, yaml.AliasNode:
		// Already recorded above, nothing more to do
	}
}
