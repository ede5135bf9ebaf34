package preload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plc-visualizer/strintern/internal/intern"
	"github.com/plc-visualizer/strintern/internal/testutil"
)

const seedYAML = `
symbols:
  - PlayerMove
  - PlayerDie
  - PlayerMove
groups:
  zombies: [ZombieBite, PlayerDie]
  events: [Spawn, Despawn]
`

func TestParseReader(t *testing.T) {
	seed, err := ParseReader(strings.NewReader(seedYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PlayerMove",
		"PlayerDie",
		"Spawn",
		"Despawn",
		"ZombieBite",
	}, seed.Symbols())
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0644))

	seed, err := Parse(path)
	require.NoError(t, err)
	assert.Len(t, seed.List, 3)
	assert.Len(t, seed.Groups, 2)

	_, err = Parse(filepath.Join(tmpDir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	_, err := ParseReader(strings.NewReader("symbols: {not: a list}"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	r, _ := testutil.NewRegistry()
	r.Intern("PlayerDie")

	seed, err := ParseReader(strings.NewReader(seedYAML))
	require.NoError(t, err)

	res := Apply(r, seed)
	assert.Equal(t, 4, res.Interned)
	assert.Equal(t, 1, res.AlreadyPresent)
	assert.Empty(t, res.Collisions)

	for _, s := range seed.Symbols() {
		assert.True(t, r.IsInterned(s), s)
	}
	assert.Zero(t, r.Stats().ResolveMisses)
}

func TestApplyReportsCollisions(t *testing.T) {
	r, _ := testutil.NewRegistry(intern.WithHasher("length", testutil.LengthHasher))

	seed := &Seed{List: []string{"abc", "xyz", "de"}}
	res := Apply(r, seed)

	assert.Equal(t, 2, res.Interned)
	require.Len(t, res.Collisions, 1)
	assert.Equal(t, Collision{ID: 3, Text: "xyz", Canonical: "abc"}, res.Collisions[0])
	assert.Equal(t, uint64(1), r.Stats().Collisions)
}

func TestLoadFile(t *testing.T) {
	r, _ := testutil.NewRegistry()
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: [A, B]\n"), 0644))

	res, err := LoadFile(r, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Interned)
}
