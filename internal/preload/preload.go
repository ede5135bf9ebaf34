// Package preload reads symbol seed files and interns them up front, so hot
// paths compare against handles that already exist.
package preload

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/plc-visualizer/strintern/internal/intern"
)

// Seed is the content of a seed file.
//
//	symbols:
//	  - PlayerMove
//	  - PlayerDie
//	groups:
//	  events: [Spawn, Despawn]
type Seed struct {
	List   []string            `yaml:"symbols"`
	Groups map[string][]string `yaml:"groups"`
}

// Parse reads a seed file.
func Parse(filePath string) (*Seed, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	seed, err := ParseReader(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	return seed, nil
}

// ParseReader parses a seed from an io.Reader.
func ParseReader(r io.Reader) (*Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, err
	}

	return &seed, nil
}

// Symbols flattens the seed: the symbols list in file order, then groups in
// name order. Duplicates are dropped.
func (s *Seed) Symbols() []string {
	seen := make(map[string]struct{}, len(s.List))
	out := make([]string, 0, len(s.List))
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	for _, v := range s.List {
		add(v)
	}

	names := make([]string, 0, len(s.Groups))
	for name := range s.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range s.Groups[name] {
			add(v)
		}
	}
	return out
}

// Collision is a seed symbol whose ID was already taken by different text.
type Collision struct {
	ID        intern.ID
	Text      string
	Canonical string
}

// Result summarizes Apply.
type Result struct {
	Interned       int
	AlreadyPresent int
	Collisions     []Collision
}

// Apply interns every symbol of seed into r.
func Apply(r *intern.Registry, seed *Seed) Result {
	var res Result
	for _, s := range seed.Symbols() {
		id := r.Hash(s)
		if h, ok := r.Lookup(id); ok {
			if h.Text() != s {
				res.Collisions = append(res.Collisions, Collision{ID: id, Text: s, Canonical: h.Text()})
			} else {
				res.AlreadyPresent++
			}
			r.Intern(s)
			continue
		}
		r.Intern(s)
		res.Interned++
	}
	return res
}

// LoadFile parses filePath and applies it to r.
func LoadFile(r *intern.Registry, filePath string) (Result, error) {
	seed, err := Parse(filePath)
	if err != nil {
		return Result{}, err
	}
	return Apply(r, seed), nil
}
