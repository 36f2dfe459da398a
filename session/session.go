// Package session keeps user selection on top of the catalog: active
// language, equipped goodies per language and merged documents.
package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"apack/catalog"
	"apack/common"
	"apack/goody"
)

// ErrUnknownGoody is returned when equipping name absent from the catalog.
var ErrUnknownGoody = errors.New("unknown goody")

// Session is safe for concurrent use. Catalog could be replaced at any time
// (watch mode), equipped names survive replacement.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	state    catalog.State
	active   common.Language
	equipped map[common.Language]goody.EquippedSet
	cache    *goody.MergeCache
	log      *zap.Logger
}

// New creates session with pending catalog. cacheSize <= 0 selects default
// merge cache size.
func New(active common.Language, cacheSize int, log *zap.Logger) (*Session, error) {
	if !active.IsValid() {
		return nil, fmt.Errorf("active language %q is %w", active, common.ErrInvalidLanguage)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate session id: %w", err)
	}
	cache, err := goody.NewMergeCache(nil, cacheSize)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:       id,
		state:    catalog.Pending(),
		active:   active,
		equipped: make(map[common.Language]goody.EquippedSet),
		cache:    cache,
		log:      log.With(zap.Stringer("session", id)),
	}, nil
}

// SetLoaded replaces catalog. All merged documents are dropped.
func (s *Session) SetLoaded(c *goody.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = catalog.Loaded(c)
	s.cache.Reset(c)
	s.log.Debug("Catalog set", zap.Int("goodies", c.Len()))
}

// SetFailed records catalog load failure. Previously loaded catalog is
// dropped.
func (s *Session) SetFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = catalog.Failed(err)
	s.cache.Reset(nil)
	s.log.Debug("Catalog failed", zap.Error(err))
}

// Reload is a catalog.ReloadFunc. Failed reload does not replace catalog
// which is already loaded, so a broken edit in watch mode keeps serving the
// last good catalog.
func (s *Session) Reload(c *goody.Catalog, err error) {
	if err == nil {
		s.SetLoaded(c)
		return
	}
	if s.State().Status() == catalog.LoadStatusLoaded {
		s.log.Warn("Keeping previous catalog", zap.Error(err))
		return
	}
	s.SetFailed(err)
}

// State returns current catalog state.
func (s *Session) State() catalog.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectLanguage makes lang the active language.
func (s *Session) SelectLanguage(lang common.Language) error {
	if !lang.IsValid() {
		return fmt.Errorf("%q is %w", lang, common.ErrInvalidLanguage)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = lang
	return nil
}

// ActiveLanguage returns language selected by SelectLanguage.
func (s *Session) ActiveLanguage() common.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Equip adds goody to the language selection. Catalog must be loaded and
// contain the goody.
func (s *Session) Equip(lang common.Language, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equip(lang, name)
}

func (s *Session) equip(lang common.Language, name string) error {
	c, err := s.state.Catalog()
	if err != nil {
		return err
	}
	if _, ok := c.Get(lang, name); !ok {
		return fmt.Errorf("%s goody %q: %w", lang, name, ErrUnknownGoody)
	}
	set, ok := s.equipped[lang]
	if !ok {
		set = goody.NewEquippedSet()
		s.equipped[lang] = set
	}
	set.Add(name)
	return nil
}

// Unequip removes goody from the language selection, not equipped name is
// ignored.
func (s *Session) Unequip(lang common.Language, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.equipped[lang]; ok {
		set.Remove(name)
	}
}

// Toggle flips goody selection and reports whether it is equipped now.
func (s *Session) Toggle(lang common.Language, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set := s.equipped[lang]; set.Has(name) {
		set.Remove(name)
		return false, nil
	}
	if err := s.equip(lang, name); err != nil {
		return false, err
	}
	return true, nil
}

// Equipped returns names equipped for the language in ordinal order.
func (s *Session) Equipped(lang common.Language) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equipped[lang].Names()
}

// Document returns merged document of goodies equipped for the language.
// Equipped names missing from the current catalog are ignored.
func (s *Session) Document(lang common.Language) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.state.Catalog(); err != nil {
		return "", err
	}
	return s.cache.GetOrCompute(lang, s.equipped[lang].Names()), nil
}

// Goodies returns catalog goodies for the language in natural order of
// names, the way they are shown to the user.
func (s *Session) Goodies(lang common.Language) ([]*goody.Goody, error) {
	s.mu.Lock()
	c, err := s.state.Catalog()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	goodies := c.Goodies(lang)
	slices.SortStableFunc(goodies, func(a, b *goody.Goody) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		default:
			return 0
		}
	})
	return goodies, nil
}

// CacheStats returns merge cache counters.
func (s *Session) CacheStats() goody.CacheStats {
	return s.cache.Stats()
}
