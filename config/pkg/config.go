package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
)

func handle(format string) func(...any) error {
	return func(args ...any) error {
		return fmt.Errorf(format, args...)
	}
}

const (
	EnvStructuralBin = "PDBPAIR_STRUCTURAL_BIN"
	EnvSequenceBin   = "PDBPAIR_SEQUENCE_BIN"
	EnvThreads       = "PDBPAIR_THREADS"
	EnvTimeout       = "PDBPAIR_TIMEOUT"
)

type EntitiesConfig struct {
	Dir      string `toml:"dir"`
	Ext      string `toml:"ext"`
	FastaDir string `toml:"fasta_dir"`
	FastaExt string `toml:"fasta_ext"`
}

// ToolConfig describes one comparison tool. With per_pair set the tool is run
// once per planned pair with {a} and {b} bound to the two entity files;
// otherwise it is run once over the whole input directory.
type ToolConfig struct {
	Binary             string   `toml:"binary"`
	Args               []string `toml:"args"`
	InputDir           string   `toml:"input_dir"`
	OutputDir          string   `toml:"output_dir"`
	Summary            string   `toml:"summary"`
	PerPair            bool     `toml:"per_pair"`
	RequireEmptyOutput bool     `toml:"require_empty_output"`
}

type SequenceConfig struct {
	Binary             string   `toml:"binary"`
	Args               []string `toml:"args"`
	InputDir           string   `toml:"input_dir"`
	OutputDir          string   `toml:"output_dir"`
	Summary            string   `toml:"summary"`
	PerPair            bool     `toml:"per_pair"`
	RequireEmptyOutput bool     `toml:"require_empty_output"`
	GapOpen            *float64 `toml:"gap_open"`
	GapExtend          *float64 `toml:"gap_extend"`
}

func (s SequenceConfig) Tool() ToolConfig {
	return ToolConfig{
		Binary:             s.Binary,
		Args:               s.Args,
		InputDir:           s.InputDir,
		OutputDir:          s.OutputDir,
		Summary:            s.Summary,
		PerPair:            s.PerPair,
		RequireEmptyOutput: s.RequireEmptyOutput,
	}
}

type OutputConfig struct {
	Merged   string `toml:"merged"`
	Summary  string `toml:"summary"`
	SummaryX string `toml:"summary_x"`
	SummaryY string `toml:"summary_y"`
}

type LigandsConfig struct {
	Report     string `toml:"report"`
	Counts     string `toml:"counts"`
	Dictionary string `toml:"dictionary"`
	CcToPDB    string `toml:"cc_to_pdb"`
	DropIons   bool   `toml:"drop_ions"`
	Normalize  bool   `toml:"normalize"`
}

// Config is a whole run. Threads <= 0 runs one tool process per CPU.
type Config struct {
	Threads      int            `toml:"threads"`
	Timeout      string         `toml:"timeout"`
	AllowPartial bool           `toml:"allow_partial"`
	Entities     EntitiesConfig `toml:"entities"`
	Structural   ToolConfig     `toml:"structural"`
	Sequence     SequenceConfig `toml:"sequence"`
	Output       OutputConfig   `toml:"output"`
	Ligands      LigandsConfig  `toml:"ligands"`
}

func Default() *Config {
	return &Config{
		Entities: EntitiesConfig{Ext: "pdb", FastaExt: "fasta"},
		Structural: ToolConfig{
			Binary:  "click",
			Summary: "click.csv",
		},
		Sequence: SequenceConfig{
			Binary:  "pairwise_align",
			Summary: "pairwise.csv",
		},
		Output: OutputConfig{
			Merged:   "merged.csv",
			SummaryX: "IDENTITY",
			SummaryY: "RMSD",
		},
		Ligands: LigandsConfig{Counts: "ligand_counts.tsv"},
	}
}

// Parse decodes TOML over the defaults.
func Parse(data []byte) (*Config, error) {
	h := handle("Parse: %w")
	cfg := Default()
	if e := toml.Unmarshal(data, cfg); e != nil {
		return nil, h(e)
	}
	return cfg, nil
}

// Load reads .env files if they exist, then the TOML file at path, then
// applies environment overrides.
func Load(path string, envFiles ...string) (*Config, error) {
	h := handle("Load: %w")
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if e := godotenv.Load(f); e != nil && !errors.Is(e, fs.ErrNotExist) {
			return nil, h(e)
		}
	}

	data, e := os.ReadFile(path)
	if e != nil {
		return nil, h(e)
	}
	cfg, e := Parse(data)
	if e != nil {
		return nil, h(e)
	}
	if e := cfg.ApplyEnv(); e != nil {
		return nil, h(e)
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvStructuralBin); v != "" {
		c.Structural.Binary = v
	}
	if v := os.Getenv(EnvSequenceBin); v != "" {
		c.Sequence.Binary = v
	}
	if v := os.Getenv(EnvThreads); v != "" {
		n, e := strconv.Atoi(v)
		if e != nil {
			return &compare.ConfigurationError{Option: EnvThreads, Reason: e.Error()}
		}
		c.Threads = n
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		c.Timeout = v
	}
	return nil
}

// TimeoutDuration is the per-process timeout; zero means none.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, e := time.ParseDuration(c.Timeout)
	if e != nil {
		return 0, &compare.ConfigurationError{Option: "timeout", Reason: e.Error()}
	}
	if d < 0 {
		return 0, &compare.ConfigurationError{Option: "timeout", Reason: "must not be negative"}
	}
	return d, nil
}

func (c *Config) SequenceInputDir() string {
	if c.Sequence.InputDir != "" {
		return c.Sequence.InputDir
	}
	if c.Entities.FastaDir != "" {
		return c.Entities.FastaDir
	}
	return c.Entities.Dir
}

func (c *Config) StructuralInputDir() string {
	if c.Structural.InputDir != "" {
		return c.Structural.InputDir
	}
	return c.Entities.Dir
}

func missing(option string) error {
	return &compare.ConfigurationError{Option: option, Reason: "required"}
}

// Validate checks option values only. Directory preconditions are checked
// when the jobs are built.
func (c *Config) Validate() error {
	if c.Threads < 0 {
		return &compare.ConfigurationError{Option: "threads", Reason: "must not be negative"}
	}
	if _, e := c.TimeoutDuration(); e != nil {
		return e
	}
	if c.Entities.Dir == "" {
		return missing("entities.dir")
	}
	if c.Structural.Binary == "" {
		return missing("structural.binary")
	}
	if c.Sequence.Binary == "" {
		return missing("sequence.binary")
	}
	if c.Sequence.GapOpen == nil {
		return &compare.ConfigurationError{Option: "sequence.gap_open", Reason: "required together with sequence.gap_extend"}
	}
	if c.Sequence.GapExtend == nil {
		return &compare.ConfigurationError{Option: "sequence.gap_extend", Reason: "required together with sequence.gap_open"}
	}
	if c.Output.Merged == "" {
		return missing("output.merged")
	}
	if c.Ligands.Report != "" && c.Ligands.Counts == "" {
		return missing("ligands.counts")
	}
	if (c.Ligands.Dictionary == "") != (c.Ligands.CcToPDB == "") {
		return &compare.ConfigurationError{Option: "ligands.cc_to_pdb", Reason: "ligands.dictionary and ligands.cc_to_pdb must be set together"}
	}
	return nil
}
