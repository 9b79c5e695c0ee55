package core

import (
	"errors"
	"fmt"
)

// Kind selects one of the four registries of a Tree.
type Kind int

const (
	KindChapter Kind = iota + 1
	KindSection
	KindItem
	KindType
)

// State reports whether non-leaf values reflect the current leaf values.
type State int

const (
	Unpropagated State = iota
	Propagated
)

type (
	// Entry is an id/name pair used to seed a registry.
	Entry struct {
		ID   string `toml:"id" json:"id"`
		Name string `toml:"name" json:"name,omitempty"`
	}

	// Node is a chapter, section, item or type. Children holds the ids of the
	// next level down and is always empty for types.
	Node struct {
		ID       string
		Name     string
		Value    string
		Children []string
	}
)

var ErrInvalidRegistry = errors.New("invalid registry")

// InvalidRegistryError is returned when a registry is selected by an unknown
// name or kind.
type InvalidRegistryError struct {
	Name string
}

func (e *InvalidRegistryError) Error() string {
	return fmt.Sprintf("invalid registry %q", e.Name)
}

func (e *InvalidRegistryError) Is(target error) bool {
	return target == ErrInvalidRegistry
}

var kindNames = map[Kind]string{
	KindChapter: "chapters",
	KindSection: "sections",
	KindItem:    "items",
	KindType:    "types",
}

// String returns the registry name of the kind ("chapters", "sections", ...).
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k names one of the four registries.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind resolves a registry name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, &InvalidRegistryError{Name: name}
}

func (s State) String() string {
	if s == Propagated {
		return "propagated"
	}
	return "unpropagated"
}
