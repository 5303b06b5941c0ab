// Package config loads preview settings from an optional .env file and the
// process environment. Environment variables win over file values.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/chazu/swarf/pkg/stock"
)

// Environment keys.
const (
	KeyResolution2D   = "SWARF_RESOLUTION_2D"
	KeyResolution3D   = "SWARF_RESOLUTION_3D"
	KeyMaxCells       = "SWARF_MAX_CELLS"
	KeyMaxVoxels      = "SWARF_MAX_VOXELS"
	KeyAutoScale      = "SWARF_AUTO_SCALE"
	KeyChordTolerance = "SWARF_CHORD_TOLERANCE"
	KeyCheckEvery     = "SWARF_CHECK_EVERY"
	KeyMeshCells      = "SWARF_MESH_CELLS"
	KeyEvalTimeout    = "SWARF_EVAL_TIMEOUT"
	KeyLogLevel       = "SWARF_LOG_LEVEL"
)

// Config holds preview settings.
type Config struct {
	Resolution2D   float64
	Resolution3D   float64
	MaxCells       int64
	MaxVoxels      int64
	AutoScale      bool
	ChordTolerance float64 // 0 means a quarter of the sample step
	CheckEvery     int
	MeshCells      int
	EvalTimeout    time.Duration
	LogLevel       slog.Level
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Resolution2D: 0.5,
		Resolution3D: 1.0,
		MaxCells:     64 << 20,
		MaxVoxels:    64 << 20,
		AutoScale:    true,
		CheckEvery:   64,
		MeshCells:    200,
		EvalTimeout:  5 * time.Second,
		LogLevel:     slog.LevelInfo,
	}
}

// Load reads envFile (if it exists; an empty name skips the file) and then
// the process environment on top of Default.
func Load(envFile string) (Config, error) {
	vals := map[string]string{}
	if envFile != "" {
		fileVals, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", envFile, err)
		default:
			vals = fileVals
		}
	}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			vals[k] = v
		}
	}
	return FromMap(vals)
}

// Parse reads KEY=value lines in .env syntax.
func Parse(r io.Reader) (Config, error) {
	vals, err := godotenv.Parse(r)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return FromMap(vals)
}

var keys = []string{
	KeyResolution2D, KeyResolution3D, KeyMaxCells, KeyMaxVoxels, KeyAutoScale,
	KeyChordTolerance, KeyCheckEvery, KeyMeshCells, KeyEvalTimeout, KeyLogLevel,
}

// FromMap applies the recognised keys in vals to Default. Unknown keys are
// ignored; malformed or out-of-range values are configuration errors.
func FromMap(vals map[string]string) (Config, error) {
	c := Default()
	p := parser{vals: vals}

	p.positive(KeyResolution2D, &c.Resolution2D)
	p.positive(KeyResolution3D, &c.Resolution3D)
	p.count64(KeyMaxCells, &c.MaxCells)
	p.count64(KeyMaxVoxels, &c.MaxVoxels)
	p.boolean(KeyAutoScale, &c.AutoScale)
	p.nonNegative(KeyChordTolerance, &c.ChordTolerance)
	p.count(KeyCheckEvery, &c.CheckEvery)
	p.count(KeyMeshCells, &c.MeshCells)
	p.duration(KeyEvalTimeout, &c.EvalTimeout)
	p.level(KeyLogLevel, &c.LogLevel)

	if p.err != nil {
		return Config{}, fmt.Errorf("config: %w", p.err)
	}
	return c, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// ValueError reports an environment value that could not be used. It
// matches stock.ErrConfiguration.
type ValueError struct {
	Key    string
	Raw    string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s=%q %s", e.Key, e.Raw, e.Reason)
}

func (e *ValueError) Is(target error) bool {
	return target == stock.ErrConfiguration
}

// parser keeps the first error and skips work after it.
type parser struct {
	vals map[string]string
	err  error
}

func (p *parser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.vals[key]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) fail(key, raw, reason string) {
	p.err = &ValueError{Key: key, Raw: raw, Reason: reason}
}

func (p *parser) float(key string) (float64, string, bool) {
	raw, ok := p.lookup(key)
	if !ok {
		return 0, "", false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, "is not a number")
		return 0, "", false
	}
	return f, raw, true
}

func (p *parser) positive(key string, dst *float64) {
	f, _, ok := p.float(key)
	if !ok {
		return
	}
	if err := stock.CheckPositive(key, f); err != nil {
		p.err = err
		return
	}
	*dst = f
}

func (p *parser) nonNegative(key string, dst *float64) {
	f, raw, ok := p.float(key)
	if !ok {
		return
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(key, raw, "must be a finite non-negative number")
		return
	}
	*dst = f
}

func (p *parser) count64(key string, dst *int64) {
	raw, ok := p.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		p.fail(key, raw, "must be a positive integer")
		return
	}
	*dst = n
}

func (p *parser) count(key string, dst *int) {
	raw, ok := p.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		p.fail(key, raw, "must be a positive integer")
		return
	}
	*dst = n
}

func (p *parser) boolean(key string, dst *bool) {
	raw, ok := p.lookup(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, "is not a boolean")
		return
	}
	*dst = b
}

func (p *parser) duration(key string, dst *time.Duration) {
	raw, ok := p.lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		p.fail(key, raw, "must be a positive duration")
		return
	}
	*dst = d
}

func (p *parser) level(key string, dst *slog.Level) {
	raw, ok := p.lookup(key)
	if !ok {
		return
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		p.fail(key, raw, "is not a log level")
		return
	}
	*dst = l
}
