package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTuning is wrapped by every validation failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds every gameplay parameter. Distances are world units, speeds
// are world units per second.
type Tuning struct {
	World     World     `yaml:"world"`
	Ship      Ship      `yaml:"ship"`
	Asteroid  Asteroid  `yaml:"asteroid"`
	Weapons   Weapons   `yaml:"weapons"`
	Collision Collision `yaml:"collision"`
	Session   Session   `yaml:"session"`
	Planet    Planet    `yaml:"planet"`
	Particles Particles `yaml:"particles"`
}

// World is the playfield and the camera viewport.
type World struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	ViewWidth   float64 `yaml:"view_width"`
	ViewHeight  float64 `yaml:"view_height"`
	MaxEntities int     `yaml:"max_entities"`
}

type Ship struct {
	Radius           float64       `yaml:"radius"`
	LowThrustSpeed   float64       `yaml:"low_thrust_speed"`
	MaxThrustSpeed   float64       `yaml:"max_thrust_speed"`
	LowRing          float64       `yaml:"low_ring"`
	MaxRing          float64       `yaml:"max_ring"`
	AccelTime        time.Duration `yaml:"accel_time"`
	BrakeTime        time.Duration `yaml:"brake_time"`
	RotationRate     float64       `yaml:"rotation_rate"` // degrees per second
	MomentumWeight   float64       `yaml:"momentum_weight"`
	ContrailInterval time.Duration `yaml:"contrail_interval"`
	ContrailLifespan time.Duration `yaml:"contrail_lifespan"`
}

type Asteroid struct {
	InitialCount   int     `yaml:"initial_count"`
	SpawnMinRadius float64 `yaml:"spawn_min_radius"`
	SpawnMaxRadius float64 `yaml:"spawn_max_radius"`
	// MinRadius is the smallest radius that still splits into fragments.
	MinRadius      float64 `yaml:"min_radius"`
	Sides          int     `yaml:"sides"`
	VertexJitter   float64 `yaml:"vertex_jitter"`
	AngleJitter    float64 `yaml:"angle_jitter"`
	MaxVelocity    float64 `yaml:"max_velocity"`
	MaxSpin        float64 `yaml:"max_spin"` // radians per second
	SplitSpinMin   float64 `yaml:"split_spin_min"`
	SplitSpinMax   float64 `yaml:"split_spin_max"`
	SpawnClearance float64 `yaml:"spawn_clearance"`
}

// Projectile describes a straight-flying shot and its fire rate.
type Projectile struct {
	Interval time.Duration `yaml:"interval"`
	Speed    float64       `yaml:"speed"`
	Radius   float64       `yaml:"radius"`
	Lifespan time.Duration `yaml:"lifespan"`
}

type MachineGun struct {
	Projectile `yaml:",inline"`
	Barrels    int     `yaml:"barrels"`
	Spacing    float64 `yaml:"spacing"`
	Spread     float64 `yaml:"spread"` // degrees
}

type Missile struct {
	Projectile `yaml:",inline"`
	Growth     float64       `yaml:"growth"`
	GrowthStep time.Duration `yaml:"growth_step"`
	MaxSpeed   float64       `yaml:"max_speed"`
}

type Beam struct {
	Interval time.Duration `yaml:"interval"`
	Length   float64       `yaml:"length"`
	Radius   float64       `yaml:"radius"`
	Lifespan time.Duration `yaml:"lifespan"`
}

type Weapons struct {
	Laser      Projectile `yaml:"laser"`
	MachineGun MachineGun `yaml:"machine_gun"`
	Missile    Missile    `yaml:"missile"`
	Beam       Beam       `yaml:"beam"`
}

type Collision struct {
	Restitution float64 `yaml:"restitution"`
	// SplitJitter is the full width of the random velocity kick given to
	// each fragment axis, centred on zero.
	SplitJitter  float64 `yaml:"split_jitter"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

type Session struct {
	RoundTime        time.Duration `yaml:"round_time"`
	BrakeHold        time.Duration `yaml:"brake_hold"`
	CentreRingRadius float64       `yaml:"centre_ring_radius"`
	DialogueDelay    time.Duration `yaml:"dialogue_delay"`
	MaxFrameDelta    time.Duration `yaml:"max_frame_delta"`
}

type Planet struct {
	Enabled bool    `yaml:"enabled"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Radius  float64 `yaml:"radius"`
}

type Particles struct {
	Count     int     `yaml:"count"`
	MaxSpeed  float64 `yaml:"max_speed"`
	MaxRadius float64 `yaml:"max_radius"`
}

// Default returns the stock game balance.
func Default() Tuning {
	return Tuning{
		World: World{
			Width:       3840,
			Height:      2560,
			ViewWidth:   960,
			ViewHeight:  640,
			MaxEntities: 200,
		},
		Ship: Ship{
			Radius:           20,
			LowThrustSpeed:   150,
			MaxThrustSpeed:   400,
			LowRing:          60,
			MaxRing:          240,
			AccelTime:        800 * time.Millisecond,
			BrakeTime:        time.Second,
			RotationRate:     250,
			MomentumWeight:   0.8,
			ContrailInterval: 50 * time.Millisecond,
			ContrailLifespan: 700 * time.Millisecond,
		},
		Asteroid: Asteroid{
			InitialCount:   20,
			SpawnMinRadius: 10,
			SpawnMaxRadius: 40,
			MinRadius:      10,
			Sides:          10,
			VertexJitter:   0.15,
			AngleJitter:    0.2,
			MaxVelocity:    24,
			MaxSpin:        1,
			SplitSpinMin:   1.5,
			SplitSpinMax:   2.5,
			SpawnClearance: 300,
		},
		Weapons: Weapons{
			Laser: Projectile{
				Interval: time.Second,
				Speed:    1000,
				Radius:   2,
				Lifespan: time.Second,
			},
			MachineGun: MachineGun{
				Projectile: Projectile{
					Interval: 200 * time.Millisecond,
					Speed:    600,
					Radius:   3,
					Lifespan: 6 * time.Second,
				},
				Barrels: 2,
				Spacing: 8,
			},
			Missile: Missile{
				Projectile: Projectile{
					Interval: 500 * time.Millisecond,
					Speed:    100,
					Radius:   5,
					Lifespan: 6 * time.Second,
				},
				Growth:     1.1,
				GrowthStep: 50 * time.Millisecond,
				MaxSpeed:   1000,
			},
			Beam: Beam{
				Interval: 750 * time.Millisecond,
				Length:   600,
				Radius:   4,
				Lifespan: 150 * time.Millisecond,
			},
		},
		Collision: Collision{
			Restitution:  0.8,
			SplitJitter:  20,
			GridCellSize: 80,
		},
		Session: Session{
			RoundTime:        3 * time.Minute,
			BrakeHold:        600 * time.Millisecond,
			CentreRingRadius: 60,
			DialogueDelay:    300 * time.Millisecond,
			MaxFrameDelta:    250 * time.Millisecond,
		},
		Planet: Planet{
			Enabled: true,
			X:       2880,
			Y:       640,
			Radius:  120,
		},
		Particles: Particles{
			Count:     200,
			MaxSpeed:  10,
			MaxRadius: 2,
		},
	}
}

// Load reads a YAML tuning file on top of Default. Unknown keys are
// rejected. An empty file yields the defaults.
func Load(path string) (Tuning, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("open tuning: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML tuning from r on top of Default and validates it.
func Decode(r io.Reader) (Tuning, error) {
	t := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate reports every inconsistent parameter at once.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTuning}, args...)...))
		}
	}

	w := t.World
	check(w.Width > 0 && w.Height > 0, "world size must be positive, got %vx%v", w.Width, w.Height)
	check(w.ViewWidth > 0 && w.ViewHeight > 0, "view size must be positive, got %vx%v", w.ViewWidth, w.ViewHeight)
	check(w.ViewWidth <= w.Width && w.ViewHeight <= w.Height, "view %vx%v larger than world", w.ViewWidth, w.ViewHeight)
	check(w.MaxEntities > 0, "max_entities must be positive, got %d", w.MaxEntities)

	s := t.Ship
	check(s.Radius > 0, "ship radius must be positive")
	check(s.LowThrustSpeed > 0 && s.LowThrustSpeed <= s.MaxThrustSpeed,
		"ship thrust speeds must satisfy 0 < low (%v) <= max (%v)", s.LowThrustSpeed, s.MaxThrustSpeed)
	check(s.LowRing > 0 && s.LowRing < s.MaxRing,
		"ship rings must satisfy 0 < low (%v) < max (%v)", s.LowRing, s.MaxRing)
	check(s.AccelTime > 0 && s.BrakeTime > 0, "ship accel_time and brake_time must be positive")
	check(s.RotationRate > 0, "ship rotation_rate must be positive")
	check(s.MomentumWeight >= 0 && s.MomentumWeight <= 1, "ship momentum_weight must be in [0,1], got %v", s.MomentumWeight)
	check(s.ContrailInterval > 0 && s.ContrailLifespan > 0, "contrail timings must be positive")

	a := t.Asteroid
	check(a.InitialCount >= 0, "asteroid initial_count must not be negative")
	check(a.SpawnMinRadius > 0 && a.SpawnMinRadius < a.SpawnMaxRadius,
		"asteroid spawn radii must satisfy 0 < min (%v) < max (%v)", a.SpawnMinRadius, a.SpawnMaxRadius)
	check(a.MinRadius > 0, "asteroid min_radius must be positive")
	check(a.Sides >= 3, "asteroid sides must be at least 3, got %d", a.Sides)
	check(a.SplitSpinMin > 0 && a.SplitSpinMin < a.SplitSpinMax, "asteroid split spin range is empty")

	wp := t.Weapons
	for name, p := range map[string]Projectile{
		"laser":       wp.Laser,
		"machine_gun": wp.MachineGun.Projectile,
		"missile":     wp.Missile.Projectile,
	} {
		check(p.Interval > 0 && p.Lifespan > 0, "%s interval and lifespan must be positive", name)
		check(p.Speed > 0 && p.Radius > 0, "%s speed and radius must be positive", name)
	}
	check(wp.MachineGun.Barrels >= 1, "machine_gun barrels must be at least 1")
	check(wp.Missile.Growth >= 1 && wp.Missile.GrowthStep > 0, "missile growth must be >= 1 with a positive step")
	check(wp.Missile.MaxSpeed >= wp.Missile.Speed, "missile max_speed below initial speed")
	check(wp.Beam.Interval > 0 && wp.Beam.Lifespan > 0, "beam interval and lifespan must be positive")
	check(wp.Beam.Length > 0 && wp.Beam.Radius > 0, "beam length and radius must be positive")

	c := t.Collision
	check(c.Restitution >= 0 && c.Restitution <= 1, "restitution must be in [0,1], got %v", c.Restitution)
	check(c.SplitJitter >= 0, "split_jitter must not be negative")
	check(c.GridCellSize >= 2*a.SpawnMaxRadius,
		"grid_cell_size %v smaller than the largest asteroid pair distance %v", c.GridCellSize, 2*a.SpawnMaxRadius)

	ss := t.Session
	check(ss.RoundTime > 0, "round_time must be positive")
	check(ss.BrakeHold > 0, "brake_hold must be positive")
	check(ss.CentreRingRadius > 0, "centre_ring_radius must be positive")
	check(ss.MaxFrameDelta > 0, "max_frame_delta must be positive")

	if t.Planet.Enabled {
		check(t.Planet.Radius > 0, "planet radius must be positive")
	}
	check(t.Particles.Count >= 0, "particle count must not be negative")

	return errors.Join(errs...)
}
