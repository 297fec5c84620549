package resolver

import (
	"fmt"
	"sort"
	"strings"
)

// Resolution is the load order of a set of libraries.
type Resolution struct {
	// Order lists library IDs so that every library follows its dependencies.
	Order []string
	// Explicit are the libraries directly requested.
	Explicit map[string]bool
	// DependencyOf maps a pulled-in library to the first library requiring it.
	DependencyOf map[string]string
}

// CircularDependencyError indicates a cycle in the dependency graph.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " → "))
}

// MissingLibraryError indicates a requested library doesn't exist.
type MissingLibraryError struct {
	Library string
}

func (e *MissingLibraryError) Error() string {
	return fmt.Sprintf("library not found: %s", e.Library)
}

// MissingDependencyError indicates a dependency doesn't exist.
type MissingDependencyError struct {
	Library    string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("library %q depends on %q, which does not exist", e.Library, e.Dependency)
}

// OrderError reports a script listed before one of its dependencies, or
// listed without it.
type OrderError struct {
	Path           string
	DependencyPath string
	Missing        bool
}

func (e *OrderError) Error() string {
	if e.Missing {
		return fmt.Sprintf("script %s requires %s, which is not included", e.Path, e.DependencyPath)
	}
	return fmt.Sprintf("script %s is loaded before its dependency %s", e.Path, e.DependencyPath)
}

// Resolver orders script libraries by their dependencies.
type Resolver struct {
	libs   map[string]Library
	byPath map[string]string
}

// NewResolver creates a resolver over libs, keyed by library ID.
func NewResolver(libs map[string]Library) *Resolver {
	byPath := make(map[string]string, len(libs))
	for id, l := range libs {
		byPath[l.Path] = id
	}
	return &Resolver{libs: libs, byPath: byPath}
}

type mark int

const (
	unvisited mark = iota
	visiting
	placed
)

// Resolve returns a load order for explicit and everything it depends on.
// Dependencies are visited in their declared order, so the result is stable.
func (r *Resolver) Resolve(explicit []string) (*Resolution, error) {
	requested := append([]string(nil), explicit...)
	sort.Strings(requested)

	res := &Resolution{
		Explicit:     make(map[string]bool, len(requested)),
		DependencyOf: make(map[string]string),
	}
	for _, id := range requested {
		if _, ok := r.libs[id]; !ok {
			return nil, &MissingLibraryError{Library: id}
		}
		res.Explicit[id] = true
	}

	marks := make(map[string]mark)
	var trail []string

	var visit func(id string) error
	visit = func(id string) error {
		switch marks[id] {
		case placed:
			return nil
		case visiting:
			return &CircularDependencyError{Cycle: cycleFrom(trail, id)}
		}

		marks[id] = visiting
		trail = append(trail, id)
		for _, dep := range r.libs[id].Depends {
			if _, ok := r.libs[dep]; !ok {
				return &MissingDependencyError{Library: id, Dependency: dep}
			}
			if !res.Explicit[dep] && res.DependencyOf[dep] == "" {
				res.DependencyOf[dep] = id
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		trail = trail[:len(trail)-1]
		marks[id] = placed
		res.Order = append(res.Order, id)
		return nil
	}

	for _, id := range requested {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// cycleFrom cuts the cycle ending at id out of the visiting trail, repeating
// id at the end.
func cycleFrom(trail []string, id string) []string {
	for i, n := range trail {
		if n == id {
			cycle := append([]string(nil), trail[i:]...)
			return append(cycle, id)
		}
	}
	return []string{id, id}
}

// CheckOrder verifies that every known script in paths comes after all of its
// dependencies. Paths that are not in the catalog are ignored; a repeated
// path counts at its first position.
func (r *Resolver) CheckOrder(paths []string) error {
	first := make(map[string]int, len(paths))
	var known []string
	for i, p := range paths {
		if _, seen := first[p]; seen {
			continue
		}
		first[p] = i
		if id, ok := r.byPath[p]; ok {
			known = append(known, id)
		}
	}

	if _, err := r.Resolve(known); err != nil {
		return err
	}

	for _, id := range known {
		lib := r.libs[id]
		for _, dep := range lib.Depends {
			depPath := r.libs[dep].Path
			pos, ok := first[depPath]
			switch {
			case !ok:
				return &OrderError{Path: lib.Path, DependencyPath: depPath, Missing: true}
			case pos > first[lib.Path]:
				return &OrderError{Path: lib.Path, DependencyPath: depPath}
			}
		}
	}
	return nil
}
