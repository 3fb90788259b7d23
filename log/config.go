package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags names the command line flags backing a [Config].
type Flags struct {
	Level  string
	Format string
}

// NewConfig returns a [Config] using these flag names, preset to info level
// and text output.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:  f,
		Level:  string(LevelInfo),
		Format: string(FormatText),
	}
}

// Config carries the log level and format chosen on the command line or in a
// configuration file. Values stay strings until [Config.Parse] so that a file
// can override them after flag parsing.
type Config struct {
	Flags  Flags
	Level  string
	Format string
}

// NewConfig returns a [Config] with the "log-level" and "log-format" flag
// names.
func NewConfig() *Config {
	return Flags{Level: "log-level", Format: "log-format"}.NewConfig()
}

// RegisterFlags adds the level and format flags to flags. The current values
// of c become the flag defaults.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, c.Level,
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, c.Format,
		fmt.Sprintf("log format, one of: %s", GetAllFormatStrings()))
}

// RegisterCompletions completes the level and format flags of cmd with
// their accepted names.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	completions := []struct {
		flag   string
		values []string
	}{
		{c.Flags.Level, GetAllLevelStrings()},
		{c.Flags.Format, GetAllFormatStrings()},
	}

	var errs []error

	for _, comp := range completions {
		err := cmd.RegisterFlagCompletionFunc(comp.flag,
			cobra.FixedCompletions(comp.values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			errs = append(errs, fmt.Errorf("register %s completion: %w", comp.flag, err))
		}
	}

	return errors.Join(errs...)
}

// Parse validates the configured names.
func (c *Config) Parse() (Level, Format, error) {
	lvl, err := ParseLevel(c.Level)
	if err != nil {
		return "", "", fmt.Errorf("%w: --%s: %w", ErrInvalidArgument, c.Flags.Level, err)
	}

	f, err := ParseFormat(c.Format)
	if err != nil {
		return "", "", fmt.Errorf("%w: --%s: %w", ErrInvalidArgument, c.Flags.Format, err)
	}

	return lvl, f, nil
}

// NewHandler returns a [Handler] writing to w.
func (c *Config) NewHandler(w io.Writer) (Handler, error) {
	lvl, f, err := c.Parse()
	if err != nil {
		return nil, err
	}

	return NewHandler(w, lvl, f), nil
}

// NewLogger returns a [slog.Logger] writing to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	h, err := c.NewHandler(w)
	if err != nil {
		return nil, err
	}

	return slog.New(h), nil
}
