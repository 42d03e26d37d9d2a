package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
)

const fullConfig = `
threads = 4
timeout = "90s"
allow_partial = true

[entities]
dir = "pdb"
fasta_dir = "fasta"

[structural]
binary = "/opt/click/click"
output_dir = "click_out"

[sequence]
binary = "needleall"
args = ["{input}", "-gapopen", "{gapopen}", "-gapextend", "{gapextend}"]
gap_open = 10.0
gap_extend = 0.5
per_pair = true

[output]
merged = "out/merged.csv"
summary = "out/summary.tsv"

[ligands]
report = "ligands.tsv"
dictionary = "ligands.csv"
cc_to_pdb = "cc-to-pdb.tdd"
drop_ions = true
`

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestParse(t *testing.T) {
	cfg, e := Parse([]byte(fullConfig))
	require.NoError(t, e)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Threads)
	assert.True(t, cfg.AllowPartial)
	assert.Equal(t, "/opt/click/click", cfg.Structural.Binary)
	assert.Equal(t, "click.csv", cfg.Structural.Summary, "default kept")
	assert.Equal(t, "needleall", cfg.Sequence.Binary)
	assert.True(t, cfg.Sequence.PerPair)
	assert.True(t, cfg.Sequence.Tool().PerPair)
	require.NotNil(t, cfg.Sequence.GapOpen)
	assert.Equal(t, 10.0, *cfg.Sequence.GapOpen)
	assert.Equal(t, "fasta", cfg.SequenceInputDir())
	assert.Equal(t, "pdb", cfg.StructuralInputDir())
	assert.Equal(t, "RMSD", cfg.Output.SummaryY)
	assert.True(t, cfg.Ligands.DropIons)

	d, e := cfg.TimeoutDuration()
	require.NoError(t, e)
	assert.Equal(t, 90*time.Second, d)
}

func TestValidatePartialPenalties(t *testing.T) {
	cfg, e := Parse([]byte("[entities]\ndir = \"pdb\"\n[sequence]\ngap_open = 10.0\n"))
	require.NoError(t, e)

	var ce *compare.ConfigurationError
	require.True(t, errors.As(cfg.Validate(), &ce))
	assert.Equal(t, "sequence.gap_extend", ce.Option)

	cfg.Sequence.GapOpen, cfg.Sequence.GapExtend = nil, cfg.Sequence.GapOpen
	require.True(t, errors.As(cfg.Validate(), &ce))
	assert.Equal(t, "sequence.gap_open", ce.Option)
}

func TestValidateMissing(t *testing.T) {
	cfg := Default()
	var ce *compare.ConfigurationError
	require.True(t, errors.As(cfg.Validate(), &ce))
	assert.Equal(t, "entities.dir", ce.Option)

	cfg.Entities.Dir = "pdb"
	require.True(t, errors.As(cfg.Validate(), &ce))
	assert.Equal(t, "sequence.gap_open", ce.Option)

	gapOpen, gapExtend := 10.0, 0.5
	cfg.Sequence.GapOpen, cfg.Sequence.GapExtend = &gapOpen, &gapExtend
	assert.NoError(t, cfg.Validate())

	cfg.Timeout = "soon"
	require.True(t, errors.As(cfg.Validate(), &ce))
	assert.Equal(t, "timeout", ce.Option)

	cfg.Timeout = ""
	cfg.Ligands.Dictionary = "ligands.csv"
	require.True(t, errors.As(cfg.Validate(), &ce))
	assert.Equal(t, "ligands.cc_to_pdb", ce.Option)
}

func TestParseBadTOML(t *testing.T) {
	_, e := Parse([]byte("threads = [\n"))
	assert.Error(t, e)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pdbpair.toml", fullConfig)
	env := writeFile(t, dir, "test.env", EnvSequenceBin+"=/usr/local/bin/needleall\n")

	t.Setenv(EnvStructuralBin, "/usr/local/bin/click")
	t.Setenv(EnvThreads, "12")
	t.Setenv(EnvTimeout, "5m")
	t.Setenv(EnvSequenceBin, "")
	os.Unsetenv(EnvSequenceBin)

	cfg, e := Load(path, env)
	require.NoError(t, e)
	assert.Equal(t, "/usr/local/bin/click", cfg.Structural.Binary)
	assert.Equal(t, "/usr/local/bin/needleall", cfg.Sequence.Binary)
	assert.Equal(t, 12, cfg.Threads)
	d, e := cfg.TimeoutDuration()
	require.NoError(t, e)
	assert.Equal(t, 5*time.Minute, d)
}

func TestLoadBadThreads(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pdbpair.toml", fullConfig)
	t.Setenv(EnvThreads, "many")

	_, e := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	var ce *compare.ConfigurationError
	require.True(t, errors.As(e, &ce))
	assert.Equal(t, EnvThreads, ce.Option)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	_, e := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, e)
	assert.ErrorIs(t, e, fs.ErrNotExist)
	assert.Contains(t, e.Error(), "Load: ")
}

func TestParseErrorPrefix(t *testing.T) {
	_, e := Parse([]byte("threads = \"four\"\n"))
	require.Error(t, e)
	assert.True(t, strings.HasPrefix(e.Error(), "Parse: "), e.Error())
}
