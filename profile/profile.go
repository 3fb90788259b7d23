package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Option configures a [Profiler].
type Option func(*Profiler)

// WithLogger sets the logger used to report written profiles. The default is
// [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(p *Profiler) {
		p.logger = l
	}
}

// Profiler controls the lifecycle of runtime profiling sessions.
//
// Call [Profiler.Start] to begin profiling and [Profiler.Stop] to write all
// enabled profiles. A profiler with nothing enabled does nothing.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	config    *Config
	logger    *slog.Logger
	cpuFile   *os.File
	traceFile *os.File
}

// Start applies the sampling rates and starts CPU profiling and execution
// tracing when enabled. Rates are left untouched when no profile is enabled.
func (p *Profiler) Start() error {
	c := p.config
	if !c.Enabled() {
		return nil
	}

	runtime.MemProfileRate = c.MemProfileRate
	runtime.SetBlockProfileRate(c.BlockProfileRate)
	runtime.SetMutexProfileFraction(c.MutexProfileFraction)

	if c.CPUProfile != "" {
		f, err := os.Create(c.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return errors.Join(fmt.Errorf("start CPU profile: %w", err), f.Close())
		}

		p.cpuFile = f
	}

	if c.Trace != "" {
		f, err := os.Create(c.Trace) //nolint:gosec // Trace path from CLI flag is expected.
		if err != nil {
			return errors.Join(fmt.Errorf("create trace: %w", err), p.stopCPU())
		}

		err = trace.Start(f)
		if err != nil {
			return errors.Join(fmt.Errorf("start trace: %w", err), f.Close(), p.stopCPU())
		}

		p.traceFile = f
	}

	return nil
}

// Stop ends CPU profiling and tracing, then writes every enabled snapshot
// profile. All outputs are attempted even if one fails.
func (p *Profiler) Stop() error {
	return errors.Join(p.stopTrace(), p.stopCPU(), p.writeSnapshots())
}

func (p *Profiler) stopCPU() error {
	if p.cpuFile == nil {
		return nil
	}

	pprof.StopCPUProfile()

	err := p.cpuFile.Close()
	p.cpuFile = nil

	if err != nil {
		return fmt.Errorf("close CPU profile: %w", err)
	}

	p.logger.Debug("wrote profile", slog.String("profile", "cpu"), slog.String("path", p.config.CPUProfile))

	return nil
}

func (p *Profiler) stopTrace() error {
	if p.traceFile == nil {
		return nil
	}

	trace.Stop()

	err := p.traceFile.Close()
	p.traceFile = nil

	if err != nil {
		return fmt.Errorf("close trace: %w", err)
	}

	p.logger.Debug("wrote trace", slog.String("path", p.config.Trace))

	return nil
}

func (p *Profiler) writeSnapshots() error {
	c := p.config
	profiles := []struct {
		name string
		path string
	}{
		{"heap", c.HeapProfile},
		{"allocs", c.AllocsProfile},
		{"goroutine", c.GoroutineProfile},
		{"threadcreate", c.ThreadcreateProfile},
		{"block", c.BlockProfile},
		{"mutex", c.MutexProfile},
	}

	var errs []error

	for _, prof := range profiles {
		if prof.path == "" {
			continue
		}

		err := writeProfile(prof.name, prof.path)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		p.logger.Debug("wrote profile", slog.String("profile", prof.name), slog.String("path", prof.path))
	}

	return errors.Join(errs...)
}

func writeProfile(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("unknown profile: %s", name)
	}

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write %s profile: %w", name, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close %s profile: %w", name, err)
	}

	return nil
}
