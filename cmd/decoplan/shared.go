package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/m5lapp/decoplanner/config"
	"github.com/m5lapp/decoplanner/gas"
	"github.com/m5lapp/decoplanner/params"
	"github.com/m5lapp/decoplanner/setpoint"
	"github.com/m5lapp/decoplanner/store"
)

// loadedState bundles the three independently-persisted pieces a build
// needs: parameters, the gas list and the setpoint schedule.
type loadedState struct {
	Params    params.Parameters
	Gases     *gas.List
	Setpoints *setpoint.List
}

// loadState resolves the per-user app-data directory and loads each piece,
// falling back to documented defaults when a file is absent. The store
// package logs its own gas-list/setpoint fallbacks; the parameters.yaml
// fallback is logged here.
func loadState() (loadedState, error) {
	dir, err := store.AppDataDir()
	if err != nil {
		return loadedState{}, err
	}

	p, err := config.Load(filepath.Join(dir, "parameters.yaml"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return loadedState{}, err
		}
		logrus.WithField("path", dir).Warn("cmd: no parameters.yaml, using defaults")
		p = params.Default()
	}

	gases, err := store.LoadGasList(filepath.Join(dir, "gaslist.dat"))
	if err != nil {
		return loadedState{}, err
	}

	points, err := store.LoadSetPoints(filepath.Join(dir, "setpoints.dat"))
	if err != nil {
		return loadedState{}, err
	}

	return loadedState{Params: p, Gases: gases, Setpoints: points}, nil
}

// saveGases persists an updated gas list, used by optimize-deco after it
// settles on a winning Deco mix.
func saveGases(gases *gas.List) error {
	dir, err := store.AppDataDir()
	if err != nil {
		return err
	}
	return store.SaveGasList(filepath.Join(dir, "gaslist.dat"), gases)
}

