package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"codex/internal/mode"
	"codex/internal/scan"
	"codex/internal/source"
)

// Config mirrors codex.toml.
type Config struct {
	Modes   ModesConfig   `toml:"modes"`
	Style   StyleConfig   `toml:"style"`
	Pairing PairingConfig `toml:"pairing"`
	Output  OutputConfig  `toml:"output"`
	Files   FilesConfig   `toml:"files"`
}

type ModesConfig struct {
	Amiga   bool `toml:"amiga"`
	NDK     bool `toml:"ndk"`
	C89     bool `toml:"c89"`
	C99     bool `toml:"c99"`
	SASC    bool `toml:"sasc"`
	VBCC    bool `toml:"vbcc"`
	DICE    bool `toml:"dice"`
	MemSafe bool `toml:"memsafe"`
}

type StyleConfig struct {
	LineLimit    int  `toml:"line_limit"`
	MaxDepth     int  `toml:"max_depth"`
	MagicNumbers bool `toml:"magic_numbers"`
	Echo         bool `toml:"echo"`
}

type PairingConfig struct {
	Enabled     bool   `toml:"enabled"`
	Enter       string `toml:"enter"`
	Leave       string `toml:"leave"`
	MaxDistance int    `toml:"max_distance"`
}

type OutputConfig struct {
	// Format: pretty, short, json or sarif.
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	// PathMode: auto, absolute, relative or basename.
	PathMode string `toml:"path_mode"`
}

type FilesConfig struct {
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
}

// Loaded is a configuration together with where it came from.
type Loaded struct {
	Path   string
	Root   string
	Config Config
}

var (
	validFormats   = []string{"pretty", "short", "json", "sarif"}
	validPathModes = []string{"auto", "absolute", "relative", "basename"}
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Default returns the configuration used when no codex.toml exists.
func Default() Config {
	pairing := scan.DefaultPairingConfig()
	return Config{
		Style: StyleConfig{
			LineLimit:    256,
			MaxDepth:     scan.DefaultMaxDepth,
			MagicNumbers: true,
			Echo:         true,
		},
		Pairing: PairingConfig{
			Enabled:     true,
			Enter:       pairing.Enter,
			Leave:       pairing.Leave,
			MaxDistance: pairing.MaxDistance,
		},
		Output: OutputConfig{
			Format:         "pretty",
			MaxDiagnostics: 1000,
			PathMode:       "auto",
		},
		Files: FilesConfig{
			Extensions: []string{".c", ".h"},
		},
	}
}

// Load discovers codex.toml from startDir upwards. Without a file it returns
// the defaults and ok=false.
func Load(startDir string) (*Loaded, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Loaded{Config: Default()}, false, nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return &Loaded{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadFile decodes path over the defaults, so omitted keys keep their
// default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	// явный пустой список расширений означает "по умолчанию"
	if meta.IsDefined("files", "extensions") && len(cfg.Files.Extensions) == 0 {
		cfg.Files.Extensions = Default().Files.Extensions
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.Style.LineLimit <= 0:
		return fmt.Errorf("%w: [style].line_limit must be positive", ErrInvalidConfig)
	case c.Style.LineLimit >= source.MaxLineLength:
		// строки длиннее MaxLineLength обрезаются при чтении
		return fmt.Errorf("%w: [style].line_limit must be below %d", ErrInvalidConfig, source.MaxLineLength)
	case c.Style.MaxDepth <= 0:
		return fmt.Errorf("%w: [style].max_depth must be positive", ErrInvalidConfig)
	case c.Pairing.MaxDistance <= 0:
		return fmt.Errorf("%w: [pairing].max_distance must be positive", ErrInvalidConfig)
	case c.Pairing.Enabled && (!isIdent(c.Pairing.Enter) || !isIdent(c.Pairing.Leave)):
		return fmt.Errorf("%w: [pairing].enter and [pairing].leave must be C identifiers", ErrInvalidConfig)
	case c.Pairing.Enabled && c.Pairing.Enter == c.Pairing.Leave:
		return fmt.Errorf("%w: [pairing].enter and [pairing].leave must differ", ErrInvalidConfig)
	case !slices.Contains(validFormats, c.Output.Format):
		return fmt.Errorf("%w: [output].format must be one of %s", ErrInvalidConfig, strings.Join(validFormats, ", "))
	case !slices.Contains(validPathModes, c.Output.PathMode):
		return fmt.Errorf("%w: [output].path_mode must be one of %s", ErrInvalidConfig, strings.Join(validPathModes, ", "))
	case c.Output.MaxDiagnostics < 0:
		return fmt.Errorf("%w: [output].max_diagnostics must not be negative", ErrInvalidConfig)
	}
	for _, ext := range c.Files.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: [files].extensions entry %q must start with '.'", ErrInvalidConfig, ext)
		}
	}
	for _, pattern := range c.Files.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: [files].exclude pattern %q: %w", ErrInvalidConfig, pattern, err)
		}
	}
	return nil
}

// ModeSet returns the modes enabled in [modes].
func (c *Config) ModeSet() mode.Set {
	var s mode.Set
	flags := []struct {
		on bool
		m  mode.Mode
	}{
		{c.Modes.Amiga, mode.Amiga},
		{c.Modes.NDK, mode.NDK},
		{c.Modes.C89, mode.C89},
		{c.Modes.C99, mode.C99},
		{c.Modes.SASC, mode.SASC},
		{c.Modes.VBCC, mode.VBCC},
		{c.Modes.DICE, mode.DICE},
		{c.Modes.MemSafe, mode.MemSafe},
	}
	for _, f := range flags {
		if f.on {
			s = s.With(f.m)
		}
	}
	return s
}

// SetModes replaces [modes] with the members of s.
func (c *Config) SetModes(s mode.Set) {
	c.Modes = ModesConfig{
		Amiga:   s.Has(mode.Amiga),
		NDK:     s.Has(mode.NDK),
		C89:     s.Has(mode.C89),
		C99:     s.Has(mode.C99),
		SASC:    s.Has(mode.SASC),
		VBCC:    s.Has(mode.VBCC),
		DICE:    s.Has(mode.DICE),
		MemSafe: s.Has(mode.MemSafe),
	}
}

// ScanPairing returns the pairing monitor settings, or nil when disabled.
func (c *Config) ScanPairing() *scan.PairingConfig {
	if !c.Pairing.Enabled {
		return nil
	}
	return &scan.PairingConfig{
		Enter:       c.Pairing.Enter,
		Leave:       c.Pairing.Leave,
		MaxDistance: c.Pairing.MaxDistance,
	}
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# codex configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault creates dir/codex.toml with default values. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", path, err)
		}
	}
	cfg := Default()
	data, err := cfg.Encode()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", path, err)
	}
	return path, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		letter := b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
		if !letter && (i == 0 || b < '0' || b > '9') {
			return false
		}
	}
	return true
}
