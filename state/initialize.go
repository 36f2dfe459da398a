package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"apack/catalog"
	"apack/session"
)

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// StartSession creates session for configured language and loads catalog
// from src (configured catalog source when src is empty). Load failure is
// recorded in the session and returned.
func (e *LocalEnv) StartSession(ctx context.Context, src string) error {
	if e.Cfg == nil || e.Log == nil {
		return errors.New("program environment is not initialized")
	}
	log := e.Log.Named("session")

	s, err := session.New(e.Cfg.Compose.Language, e.Cfg.Cache.MaxEntries, log)
	if err != nil {
		return err
	}
	e.Session = s

	if src == "" {
		src = e.Cfg.Catalog.Source
	}
	if src == "" {
		err := errors.New("no catalog source has been specified")
		s.SetFailed(err)
		return err
	}

	// catalog may change later, keep what we have loaded
	if err := e.Rpt.StoreCopy("catalog", src); err != nil {
		log.Warn("Unable to store catalog copy in report", zap.Error(err))
	}

	cat, err := catalog.Load(ctx, src, e.Log.Named("catalog"))
	if err != nil {
		s.SetFailed(err)
		return fmt.Errorf("unable to load catalog: %w", err)
	}
	s.SetLoaded(cat)
	log.Debug("Session started", zap.Stringer("id", s.ID), zap.String("catalog", src), zap.Int("goodies", cat.Len()))
	return nil
}
