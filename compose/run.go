// Package compose implements command line actions working with goody
// selection: composing merged document, listing catalog and watching catalog
// for changes.
package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"apack/catalog"
	"apack/common"
	"apack/goody"
	"apack/session"
	"apack/state"
)

// Run composes goodies selected for a language into a single document.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compose")

	lang, err := startSession(ctx, cmd, log, true)
	if err != nil {
		return err
	}
	names := env.Session.Equipped(lang)

	dst, err := resolveDestination(cmd.String("out"), lang, names, env)
	if err != nil {
		return err
	}

	log.Info("Composing starting", zap.Stringer("language", lang), zap.Strings("goodies", names))
	defer func(start time.Time) {
		log.Info("Composing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return emit(env, cmd.Root().Writer, lang, dst, cmd.Bool("overwrite"), log)
}

// List prints catalog goodies with their summaries. Goodies equipped by
// configuration or command line are marked.
func List(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("list")

	lang, err := startSession(ctx, cmd, log, false)
	if err != nil {
		return err
	}

	langs := []common.Language{lang}
	if cmd.Bool("all") {
		c, _ := env.Session.State().Catalog()
		langs = c.Languages()
	}

	w := cmd.Root().Writer
	for i, l := range langs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := listLanguage(w, env.Session, l); err != nil {
			return err
		}
	}
	return nil
}

func listLanguage(w io.Writer, s *session.Session, lang common.Language) error {
	goodies, err := s.Goodies(lang)
	if err != nil {
		return err
	}
	equipped := goody.NewEquippedSet(s.Equipped(lang)...)

	fmt.Fprintf(w, "%s (%d)\n", lang.DisplayName(), len(goodies))
	for _, g := range goodies {
		mark := " "
		if equipped.Has(g.Name) {
			mark = "*"
		}
		if summary := g.Summary(); summary != "" {
			fmt.Fprintf(w, "%s %s - %s\n", mark, g.Name, summary)
		} else {
			fmt.Fprintf(w, "%s %s\n", mark, g.Name)
		}
	}
	return nil
}

// Watch composes document and recomposes it every time catalog changes until
// interrupted. Destination is always overwritten.
func Watch(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("watch")

	lang, err := startSession(ctx, cmd, log, true)
	if err != nil {
		return err
	}
	names := env.Session.Equipped(lang)

	dst, err := resolveDestination(cmd.String("out"), lang, names, env)
	if err != nil {
		return err
	}

	src := cmd.String("catalog")
	if src == "" {
		src = env.Cfg.Catalog.Source
	}
	debounce := env.Cfg.Catalog.WatchDebounce
	if cmd.IsSet("debounce") {
		debounce = cmd.Duration("debounce")
	}

	out := cmd.Root().Writer
	if err := emit(env, out, lang, dst, true, log); err != nil {
		return err
	}

	w, err := catalog.NewWatcher(src, debounce, func(c *goody.Catalog, err error) {
		env.Session.Reload(c, err)
		if err != nil {
			return
		}
		if err := emit(env, out, lang, dst, true, log); err != nil {
			log.Error("Unable to output composed document", zap.Error(err))
		}
	}, env.Log.Named("catalog"))
	if err != nil {
		return err
	}

	log.Info("Watching catalog", zap.String("source", src), zap.Duration("debounce", debounce), zap.Stringer("language", lang))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	stats := env.Session.CacheStats()
	log.Info("Watching stopped", zap.Uint64("cache_hits", stats.Hits), zap.Uint64("cache_misses", stats.Misses))
	return nil
}

// startSession loads catalog, selects language and equips goodies named on
// command line (or configured ones when none are named). In strict mode
// unknown goody is an error, otherwise it is reported and skipped.
func startSession(ctx context.Context, cmd *cli.Command, log *zap.Logger, strict bool) (common.Language, error) {
	env := state.EnvFromContext(ctx)

	lang := env.Cfg.Compose.Language
	if l := cmd.String("lang"); len(l) > 0 {
		parsed, err := common.ParseLanguage(strings.ToLower(l))
		if err != nil {
			return "", fmt.Errorf("unable to select language: %w", err)
		}
		lang = parsed
	}

	if err := env.StartSession(ctx, cmd.String("catalog")); err != nil {
		return "", err
	}
	if err := env.Session.SelectLanguage(lang); err != nil {
		return "", err
	}

	names := cmd.Args().Slice()
	if len(names) == 0 {
		names = env.Cfg.Compose.Equipped
	}
	var errs error
	for _, name := range names {
		if err := env.Session.Equip(lang, name); err != nil {
			if !strict && errors.Is(err, session.ErrUnknownGoody) {
				log.Warn("Ignoring goody", zap.Error(err))
				continue
			}
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return "", fmt.Errorf("unable to equip goodies: %w", errs)
	}
	return lang, nil
}

// emit writes composed document either to w (empty dst) or to file dst.
func emit(env *state.LocalEnv, w io.Writer, lang common.Language, dst string, overwrite bool, log *zap.Logger) error {
	doc, err := env.Session.Document(lang)
	if err != nil {
		return err
	}

	if env.Rpt != nil {
		c, _ := env.Session.State().Catalog()
		env.Rpt.StoreData(fmt.Sprintf("compose/%s-trace.txt", lang), []byte(goody.Describe(lang, c.Lookup(lang, env.Session.Equipped(lang)))))
		env.Rpt.StoreData(fmt.Sprintf("compose/%s%s", lang, lang.Ext()), []byte(doc))
	}

	if dst == "" {
		_, err := io.WriteString(w, terminated(doc))
		return err
	}
	if err := writeDocument(dst, doc, overwrite, log); err != nil {
		return err
	}
	log.Info("Composed document written", zap.String("file", dst), zap.Int("size", len(doc)))
	return nil
}

func writeDocument(name, doc string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Debug("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(name, []byte(terminated(doc)), 0644); err != nil {
		return fmt.Errorf("unable to write composed document: %w", err)
	}
	return nil
}

// terminated returns non empty document ending with new line, composition
// itself never produces trailing new line.
func terminated(doc string) string {
	if doc == "" || strings.HasSuffix(doc, "\n") {
		return doc
	}
	return doc + "\n"
}
