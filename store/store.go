// Package store implements the binary persistence of GasList and SetPoints
// (§6, §9 "file format versioning"). Each file carries a 4-byte magic
// followed by a uint16 format version; an unrecognized version is a load
// error rather than a silent best-effort decode, generalizing the teacher's
// plain os.ReadFile-then-parse flow in cmd/default_config.go to a binary,
// versioned format. Missing files are not fatal: the Load functions return
// the package-level defaults and log a warning, the way a first-run CLI
// would seed its state.
package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/m5lapp/decoplanner/gas"
	"github.com/m5lapp/decoplanner/setpoint"
)

// magic identifies a decoplanner binary state file ("DPLN" in ASCII hex).
const magic uint32 = 0x44504C4E

// Current format versions for each file kind. Bumped independently since
// GasList and SetPoints evolve on their own schedules.
const (
	gasListVersion  uint16 = 1
	setPointVersion uint16 = 1
)

// AppDataDir returns the per-user directory decoplanner stores its state
// files under, creating it if absent. Resolution uses os.UserConfigDir()
// (stdlib): no retrieved repo demonstrates a cross-platform app-data
// library, so this one concern stays on the standard library rather than
// reaching for an unjustified dependency.
func AppDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("store: resolve user config dir: %w", err)
	}
	dir := filepath.Join(base, "decoplanner")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: create %s: %w", dir, err)
	}
	return dir, nil
}

func writeHeader(buf *bytes.Buffer, version uint16) {
	binary.Write(buf, binary.BigEndian, magic)
	binary.Write(buf, binary.BigEndian, version)
}

func readHeader(r *bytes.Reader, wantVersion uint16) error {
	var m uint32
	if err := binary.Read(r, binary.BigEndian, &m); err != nil {
		return fmt.Errorf("store: read magic: %w", err)
	}
	if m != magic {
		return fmt.Errorf("store: not a decoplanner state file (magic %#x)", m)
	}
	var v uint16
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return fmt.Errorf("store: read version: %w", err)
	}
	if v != wantVersion {
		return fmt.Errorf("store: unsupported format version %d (want %d)", v, wantVersion)
	}
	return nil
}

// SaveGasList writes l to path in the versioned binary layout: header, then
// a uint16 count followed by (O2Pct, HePct float64; Type, Status uint8) per
// gas, matching the field order of gas.Gas (§6).
func SaveGasList(path string, l *gas.List) error {
	gases := l.Gases()

	var buf bytes.Buffer
	writeHeader(&buf, gasListVersion)
	binary.Write(&buf, binary.BigEndian, uint16(len(gases)))
	for _, g := range gases {
		binary.Write(&buf, binary.BigEndian, g.O2Pct)
		binary.Write(&buf, binary.BigEndian, g.HePct)
		binary.Write(&buf, binary.BigEndian, uint8(g.Type))
		binary.Write(&buf, binary.BigEndian, uint8(g.Status))
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadGasList reads path, falling back to gas.DefaultList() and logging a
// warning if the file does not exist.
func LoadGasList(path string) (*gas.List, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logrus.WithField("path", path).Warn("store: no gas list file, seeding default")
		return gas.DefaultList(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	r := bytes.NewReader(data)
	if err := readHeader(r, gasListVersion); err != nil {
		return nil, err
	}

	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("store: read gas count: %w", err)
	}

	gases := make([]gas.Gas, 0, count)
	for i := uint16(0); i < count; i++ {
		var o2Pct, hePct float64
		var typ, status uint8
		if err := binary.Read(r, binary.BigEndian, &o2Pct); err != nil {
			return nil, fmt.Errorf("store: read gas[%d].O2Pct: %w", i, err)
		}
		if err := binary.Read(r, binary.BigEndian, &hePct); err != nil {
			return nil, fmt.Errorf("store: read gas[%d].HePct: %w", i, err)
		}
		if err := binary.Read(r, binary.BigEndian, &typ); err != nil {
			return nil, fmt.Errorf("store: read gas[%d].Type: %w", i, err)
		}
		if err := binary.Read(r, binary.BigEndian, &status); err != nil {
			return nil, fmt.Errorf("store: read gas[%d].Status: %w", i, err)
		}
		g, err := gas.New(o2Pct, hePct, gas.Type(typ), gas.Status(status))
		if err != nil {
			return nil, fmt.Errorf("store: decode gas[%d]: %w", i, err)
		}
		gases = append(gases, g)
	}

	return gas.NewList(gases...), nil
}

// SaveSetPoints writes l to path: header, uint16 count, then (Depth,
// Setpoint float64) per point.
func SaveSetPoints(path string, l *setpoint.List) error {
	points := l.Points()

	var buf bytes.Buffer
	writeHeader(&buf, setPointVersion)
	binary.Write(&buf, binary.BigEndian, uint16(len(points)))
	for _, pt := range points {
		binary.Write(&buf, binary.BigEndian, pt.Depth)
		binary.Write(&buf, binary.BigEndian, pt.Setpoint)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadSetPoints reads path, falling back to setpoint.DefaultList() and
// logging a warning if the file does not exist.
func LoadSetPoints(path string) (*setpoint.List, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logrus.WithField("path", path).Warn("store: no setpoint file, seeding default")
		return setpoint.DefaultList(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	r := bytes.NewReader(data)
	if err := readHeader(r, setPointVersion); err != nil {
		return nil, err
	}

	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("store: read setpoint count: %w", err)
	}

	points := make([]setpoint.Point, 0, count)
	for i := uint16(0); i < count; i++ {
		var depth, sp float64
		if err := binary.Read(r, binary.BigEndian, &depth); err != nil {
			return nil, fmt.Errorf("store: read setpoint[%d].Depth: %w", i, err)
		}
		if err := binary.Read(r, binary.BigEndian, &sp); err != nil {
			return nil, fmt.Errorf("store: read setpoint[%d].Setpoint: %w", i, err)
		}
		points = append(points, setpoint.Point{Depth: depth, Setpoint: sp})
	}

	return setpoint.NewList(points...), nil
}
