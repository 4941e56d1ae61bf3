package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cutdrive/dsp/core"
)

const (
	defaultDistortionDrive = 1.0
	defaultDistortionMix   = 1.0

	minDistortionDrive      = 0.0
	maxDistortionDrive      = 10.0
	minDistortionPostGainDB = -60.0
	maxDistortionPostGainDB = 12.0

	tanSineScale = 0.625
)

// Shape selects the saturating transfer function.
type Shape int

const (
	ShapeTanh Shape = iota
	ShapeSine
	ShapeSineCubed
	ShapeTanSine
	ShapeHardClip
)

// Shapes lists every shape in declaration order.
var Shapes = []Shape{ShapeTanh, ShapeSine, ShapeSineCubed, ShapeTanSine, ShapeHardClip}

func (s Shape) String() string {
	switch s {
	case ShapeTanh:
		return "Tanh"
	case ShapeSine:
		return "Sine"
	case ShapeSineCubed:
		return "Sine³"
	case ShapeTanSine:
		return "TanSine"
	case ShapeHardClip:
		return "HardClip"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Valid reports whether s is a defined shape.
func (s Shape) Valid() bool {
	return s >= ShapeTanh && s <= ShapeHardClip
}

// DistortionOption mutates construction-time parameters.
type DistortionOption func(*distortionConfig) error

type distortionConfig struct {
	shape      Shape
	drive      float64
	mix        float64
	postGainDB float64
}

func defaultDistortionConfig() distortionConfig {
	return distortionConfig{
		shape: ShapeTanh,
		drive: defaultDistortionDrive,
		mix:   defaultDistortionMix,
	}
}

// WithDistortionShape selects the transfer function.
func WithDistortionShape(shape Shape) DistortionOption {
	return func(cfg *distortionConfig) error {
		if !shape.Valid() {
			return fmt.Errorf("distortion shape is invalid: %d", shape)
		}

		cfg.shape = shape

		return nil
	}
}

// WithDistortionDrive sets the input drive in [0, 10].
func WithDistortionDrive(drive float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validateDrive(drive); err != nil {
			return err
		}

		cfg.drive = drive

		return nil
	}
}

// WithDistortionMix sets the dry/wet mix in [0, 1].
func WithDistortionMix(mix float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validateMix(mix); err != nil {
			return err
		}

		cfg.mix = mix

		return nil
	}
}

// WithDistortionPostGain sets the output gain in dB, [-60, 12].
func WithDistortionPostGain(db float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validatePostGain(db); err != nil {
			return err
		}

		cfg.postGainDB = db

		return nil
	}
}

// Distortion is a memoryless waveshaper with dry/wet mix and post gain.
type Distortion struct {
	shape      Shape
	drive      float64
	mix        float64
	postGainDB float64
	gain       float64
}

// NewDistortion creates a distortion stage with validated options.
func NewDistortion(opts ...DistortionOption) (*Distortion, error) {
	cfg := defaultDistortionConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	d := &Distortion{}
	d.Configure(cfg.drive, cfg.mix, cfg.postGainDB, cfg.shape)

	return d, nil
}

// Configure sets all parameters at once, clamping out-of-range values
// instead of failing. It is safe to call once per audio block.
func (d *Distortion) Configure(drive, mix, postGainDB float64, shape Shape) {
	d.drive = core.Clamp(drive, minDistortionDrive, maxDistortionDrive)
	d.mix = core.Clamp(mix, 0, 1)

	if !shape.Valid() {
		shape = ShapeTanh
	}

	d.shape = shape

	postGainDB = core.Clamp(postGainDB, minDistortionPostGainDB, maxDistortionPostGainDB)
	if postGainDB != d.postGainDB || d.gain == 0 {
		d.postGainDB = postGainDB
		d.gain = core.DBToLinear(postGainDB)
	}
}

// SetShape selects the transfer function.
func (d *Distortion) SetShape(shape Shape) error {
	if !shape.Valid() {
		return fmt.Errorf("distortion shape is invalid: %d", shape)
	}

	d.shape = shape

	return nil
}

// SetDrive sets the input drive in [0, 10].
func (d *Distortion) SetDrive(drive float64) error {
	if err := validateDrive(drive); err != nil {
		return err
	}

	d.drive = drive

	return nil
}

// SetMix sets the dry/wet mix in [0, 1].
func (d *Distortion) SetMix(mix float64) error {
	if err := validateMix(mix); err != nil {
		return err
	}

	d.mix = mix

	return nil
}

// SetPostGain sets the output gain in dB.
func (d *Distortion) SetPostGain(db float64) error {
	if err := validatePostGain(db); err != nil {
		return err
	}

	d.postGainDB = db
	d.gain = core.DBToLinear(db)

	return nil
}

// ProcessSample shapes one sample.
func (d *Distortion) ProcessSample(x float64) float64 {
	wet := d.shapeSample(x * d.drive)
	if !core.IsFinite(wet) {
		wet = 0
	}

	return (wet*d.mix + x*(1-d.mix)) * d.gain
}

// ProcessInPlace shapes buf in place.
func (d *Distortion) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = d.ProcessSample(x)
	}
}

// Shape returns the transfer function.
func (d *Distortion) Shape() Shape { return d.shape }

// Drive returns the input drive.
func (d *Distortion) Drive() float64 { return d.drive }

// Mix returns the dry/wet mix.
func (d *Distortion) Mix() float64 { return d.mix }

// PostGain returns the output gain in dB.
func (d *Distortion) PostGain() float64 { return d.postGainDB }

// Gain returns the linear output gain.
func (d *Distortion) Gain() float64 { return d.gain }

func (d *Distortion) shapeSample(x float64) float64 {
	switch d.shape {
	case ShapeSine:
		return math.Sin(x)
	case ShapeSineCubed:
		s := math.Sin(x)
		return s * s * s
	case ShapeTanSine:
		return tanSineScale * math.Tan(math.Sin(x))
	case ShapeHardClip:
		return core.Clamp(x, -1, 1)
	default:
		return tanh(x)
	}
}

func validateDrive(drive float64) error {
	if drive < minDistortionDrive || drive > maxDistortionDrive || !core.IsFinite(drive) {
		return fmt.Errorf("distortion drive must be in [%g, %g]: %f", minDistortionDrive, maxDistortionDrive, drive)
	}

	return nil
}

func validateMix(mix float64) error {
	if mix < 0 || mix > 1 || !core.IsFinite(mix) {
		return fmt.Errorf("distortion mix must be in [0, 1]: %f", mix)
	}

	return nil
}

func validatePostGain(db float64) error {
	if db < minDistortionPostGainDB || db > maxDistortionPostGainDB || !core.IsFinite(db) {
		return fmt.Errorf("distortion post gain must be in [%g, %g] dB: %f",
			minDistortionPostGainDB, maxDistortionPostGainDB, db)
	}

	return nil
}
