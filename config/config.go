// Package config loads and saves the dive-planning parameter set (§6) as a
// YAML file, mirroring the teacher's cmd/default_config.go convention of a
// strictly-decoded (KnownFields(true)) top-level Config struct rather than
// a loosely-typed map.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/m5lapp/decoplanner/env"
	"github.com/m5lapp/decoplanner/params"
)

// File is the on-disk YAML representation of params.Parameters. Every field
// is listed explicitly so KnownFields(true) catches a typo'd key rather
// than silently ignoring it, the same contract the teacher's defaults.yaml
// parsing enforces (R10-style strictness).
type File struct {
	Atmosphere struct {
		SurfacePressure float64 `yaml:"surface_pressure"`
		WaterDensity    float64 `yaml:"water_density"`
	} `yaml:"atmosphere"`

	GFLo float64 `yaml:"gf_lo"`
	GFHi float64 `yaml:"gf_hi"`

	PpO2MaxBottom  float64 `yaml:"ppo2_max_bottom"`
	PpO2MaxDeco    float64 `yaml:"ppo2_max_deco"`
	PpO2MinDeco    float64 `yaml:"ppo2_min_deco"`
	MaxPpO2Diluent float64 `yaml:"max_ppo2_diluent"`

	SACRateBottom float64 `yaml:"sac_rate_bottom"`
	SACRateDeco   float64 `yaml:"sac_rate_deco"`

	WarningDensity float64 `yaml:"warning_density"`
	ENDLimit       float64 `yaml:"end_limit"`
	O2Narcotic     bool    `yaml:"o2_narcotic"`

	AscentRate        float64 `yaml:"ascent_rate"`
	DescentRate       float64 `yaml:"descent_rate"`
	StopInterval      float64 `yaml:"stop_interval"`
	MaxStopMinutes    int     `yaml:"max_stop_minutes"`
	TankFillPressure  float64 `yaml:"tank_fill_pressure"`
	ReserveMultiplier float64 `yaml:"reserve_multiplier"`
}

// fromParameters and toParameters convert between the YAML shape and
// params.Parameters; kept as free functions rather than methods on either
// type so neither package needs to know about the other's marshalling
// concerns.
func fromParameters(p params.Parameters) File {
	var f File
	f.Atmosphere.SurfacePressure = p.Atmosphere.SurfacePressure
	f.Atmosphere.WaterDensity = p.Atmosphere.WaterDensity
	f.GFLo = p.GFLo
	f.GFHi = p.GFHi
	f.PpO2MaxBottom = p.PpO2MaxBottom
	f.PpO2MaxDeco = p.PpO2MaxDeco
	f.PpO2MinDeco = p.PpO2MinDeco
	f.MaxPpO2Diluent = p.MaxPpO2Diluent
	f.SACRateBottom = p.SACRateBottom
	f.SACRateDeco = p.SACRateDeco
	f.WarningDensity = p.WarningDensity
	f.ENDLimit = p.ENDLimit
	f.O2Narcotic = p.O2Narcotic
	f.AscentRate = p.AscentRate
	f.DescentRate = p.DescentRate
	f.StopInterval = p.StopInterval
	f.MaxStopMinutes = p.MaxStopMinutes
	f.TankFillPressure = p.TankFillPressure
	f.ReserveMultiplier = p.ReserveMultiplier
	return f
}

func (f File) toParameters() params.Parameters {
	p := params.Default()
	p.Atmosphere = env.Atmosphere{
		SurfacePressure: f.Atmosphere.SurfacePressure,
		WaterDensity:    f.Atmosphere.WaterDensity,
	}
	p.GFLo = f.GFLo
	p.GFHi = f.GFHi
	p.PpO2MaxBottom = f.PpO2MaxBottom
	p.PpO2MaxDeco = f.PpO2MaxDeco
	p.PpO2MinDeco = f.PpO2MinDeco
	p.MaxPpO2Diluent = f.MaxPpO2Diluent
	p.SACRateBottom = f.SACRateBottom
	p.SACRateDeco = f.SACRateDeco
	p.WarningDensity = f.WarningDensity
	p.ENDLimit = f.ENDLimit
	p.O2Narcotic = f.O2Narcotic
	p.AscentRate = f.AscentRate
	p.DescentRate = f.DescentRate
	p.StopInterval = f.StopInterval
	p.MaxStopMinutes = f.MaxStopMinutes
	p.TankFillPressure = f.TankFillPressure
	p.ReserveMultiplier = f.ReserveMultiplier
	return p
}

// Load reads and strictly decodes a parameters.yaml file at path. A missing
// file is not handled specially here; callers that want seed defaults on
// ENOENT should check errors.Is(err, os.ErrNotExist) (the error is wrapped,
// so os.IsNotExist does not match it) and fall back to params.Default()
// themselves, as cmd/decoplan's loadState does.
func Load(path string) (params.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return params.Parameters{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return params.Parameters{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return f.toParameters(), nil
}

// Save writes p to path as YAML, overwriting any existing file.
func Save(path string, p params.Parameters) error {
	data, err := yaml.Marshal(fromParameters(p))
	if err != nil {
		return fmt.Errorf("config: marshal parameters: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
