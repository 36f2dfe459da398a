package catalog

import (
	"errors"

	"apack/goody"
)

// ErrNotLoaded is returned by State.Catalog while loading has not finished.
var ErrNotLoaded = errors.New("catalog is not loaded yet")

// State is the catalog as seen by its consumers: still loading, loaded or
// failed to load. Only loaded state carries a catalog, only failed state
// carries an error. Zero value is pending.
type State struct {
	status  LoadStatus
	catalog *goody.Catalog
	err     error
}

func Pending() State {
	return State{status: LoadStatusPending}
}

func Loaded(c *goody.Catalog) State {
	return State{status: LoadStatusLoaded, catalog: c}
}

// Failed records load error. Nil error is replaced with ErrNotLoaded so
// failed state always has a reason.
func Failed(err error) State {
	if err == nil {
		err = ErrNotLoaded
	}
	return State{status: LoadStatusFailed, err: err}
}

func (s State) Status() LoadStatus {
	return s.status
}

// Catalog returns loaded catalog, load error for failed state and
// ErrNotLoaded for pending one.
func (s State) Catalog() (*goody.Catalog, error) {
	switch s.status {
	case LoadStatusLoaded:
		return s.catalog, nil
	case LoadStatusFailed:
		return nil, s.err
	default:
		return nil, ErrNotLoaded
	}
}

func (s State) Err() error {
	return s.err
}
