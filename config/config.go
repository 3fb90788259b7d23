package config

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/glyphvid/glyph"
	"go.jacobcolvin.com/glyphvid/keyboard"
	"go.jacobcolvin.com/glyphvid/log"
	"go.jacobcolvin.com/glyphvid/source"
)

// Flags holds CLI flag names for the shared configuration, allowing callers
// to customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Path        string
	Alphabet    string
	Interval    string
	Columns     string
	Rows        string
	FPS         string
	Decoder     string
	Keyboard    string
	Concurrency string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
		Log:   log.NewConfig(),
	}
}

// Config holds the flag values shared by glyphvid commands.
//
// Create instances with [NewConfig], register CLI flags with
// [Config.RegisterFlags], and call [Config.Load] after parsing to merge the
// configuration file.
type Config struct {
	Log         *log.Config
	Path        string
	Alphabet    string
	Decoder     string
	Keyboard    string
	Flags       Flags
	FPS         float64
	Interval    time.Duration
	Columns     int
	Rows        int
	Concurrency int
}

// NewConfig returns a new [Config] with the default flag names.
func NewConfig() *Config {
	f := Flags{
		Path:        "config",
		Alphabet:    "alphabet",
		Interval:    "interval",
		Columns:     "columns",
		Rows:        "rows",
		FPS:         "fps",
		Decoder:     "decoder",
		Keyboard:    "keyboard",
		Concurrency: "concurrency",
	}

	return f.NewConfig()
}

// RegisterFlags adds the configuration flags, including the log flags, to
// the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Path, c.Flags.Path, "", "YAML configuration file")
	flags.StringVar(&c.Alphabet, c.Flags.Alphabet, glyph.DefaultAlphabet().String(),
		"glyphs ordered from darkest to brightest")
	flags.DurationVar(&c.Interval, c.Flags.Interval, 0,
		"frame interval for loaded videos (0 = from metadata or 33ms)")
	flags.IntVar(&c.Columns, c.Flags.Columns, 0, "frame width in glyphs (0 = terminal width)")
	flags.IntVar(&c.Rows, c.Flags.Rows, 0, "frame height in glyphs (0 = terminal height)")
	flags.Float64Var(&c.FPS, c.Flags.FPS, 0, "override the source frame rate (0 = from source)")
	flags.StringVar(&c.Decoder, c.Flags.Decoder, source.DecoderVidio,
		fmt.Sprintf("video decoder, one of: %s", source.Decoders()))
	flags.StringVar(&c.Keyboard, c.Flags.Keyboard, string(keyboard.DefaultBackend),
		fmt.Sprintf("keystroke backend, one of: %s", keyboard.Backends()))
	flags.IntVar(&c.Concurrency, c.Flags.Concurrency, 0, "frames converted in parallel (0 = GOMAXPROCS)")

	c.Log.RegisterFlags(flags)
}

// RegisterCompletions registers shell completions for the configuration
// flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	fixed := map[string][]string{
		c.Flags.Decoder:  source.Decoders(),
		c.Flags.Keyboard: keyboard.Backends(),
	}
	for name, values := range fixed {
		err := cmd.RegisterFlagCompletionFunc(name,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Path,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Path, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	for _, name := range []string{
		c.Flags.Alphabet, c.Flags.Interval, c.Flags.Columns, c.Flags.Rows,
		c.Flags.FPS, c.Flags.Concurrency,
	} {
		err := cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return c.Log.RegisterCompletions(cmd)
}

// Load reads the configuration file named by the path flag, if any, and
// applies it with [Config.Apply].
func (c *Config) Load(flags *pflag.FlagSet) error {
	if c.Path == "" {
		return nil
	}

	f, err := ReadFile(c.Path)
	if err != nil {
		return err
	}

	return c.Apply(flags, f)
}

// Apply copies every value set in f whose flag was not changed on the
// command line.
func (c *Config) Apply(flags *pflag.FlagSet, f *File) error {
	unset := func(name string) bool {
		fl := flags.Lookup(name)

		return fl == nil || !fl.Changed
	}

	if f.Alphabet != "" && unset(c.Flags.Alphabet) {
		c.Alphabet = f.Alphabet
	}

	if f.Interval != "" && unset(c.Flags.Interval) {
		d, err := time.ParseDuration(f.Interval)
		if err != nil {
			return fmt.Errorf("%w: interval: %w", ErrInvalidConfig, err)
		}

		c.Interval = d
	}

	if f.Columns != 0 && unset(c.Flags.Columns) {
		c.Columns = f.Columns
	}

	if f.Rows != 0 && unset(c.Flags.Rows) {
		c.Rows = f.Rows
	}

	if f.FPS != 0 && unset(c.Flags.FPS) {
		c.FPS = f.FPS
	}

	if f.Decoder != "" && unset(c.Flags.Decoder) {
		c.Decoder = f.Decoder
	}

	if f.Keyboard != "" && unset(c.Flags.Keyboard) {
		c.Keyboard = f.Keyboard
	}

	if f.Concurrency != 0 && unset(c.Flags.Concurrency) {
		c.Concurrency = f.Concurrency
	}

	if f.LogLevel != "" && unset(c.Log.Flags.Level) {
		c.Log.Level = f.LogLevel
	}

	if f.LogFormat != "" && unset(c.Log.Flags.Format) {
		c.Log.Format = f.LogFormat
	}

	return nil
}

// NewAssembler returns a glyph assembler for the configured alphabet.
func (c *Config) NewAssembler() (*glyph.Assembler, error) {
	a, err := glyph.NewAlphabet(c.Alphabet)
	if err != nil {
		return nil, err
	}

	return glyph.NewAssembler(a), nil
}

// Dimensions returns the configured frame size. Zero fields mean "use the
// terminal size".
func (c *Config) Dimensions() glyph.Dimensions {
	return glyph.Dimensions{Columns: c.Columns, Rows: c.Rows}
}
