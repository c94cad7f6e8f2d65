package cmd

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/config"
	"github.com/papapumpkin/pickgraph/internal/filter"
	"github.com/papapumpkin/pickgraph/internal/logger"
	"github.com/papapumpkin/pickgraph/internal/selection"
	"github.com/papapumpkin/pickgraph/internal/session"
	"github.com/papapumpkin/pickgraph/internal/telemetry"
	"github.com/papapumpkin/pickgraph/internal/ui"
)

var errNoSource = errors.New("no source catalog: pass --source or set source in .pickgraph.yaml")

// runEnv bundles what every command needs: config, logger, printer, the
// catalog cache and the optional session journal.
type runEnv struct {
	cfg     config.Config
	log     *logger.Logger
	printer *ui.Printer
	cache   *catalog.Cache
	journal *telemetry.Emitter
}

func newRunEnv() (*runEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	cache, err := catalog.NewCache(cfg.Cache.Size, log)
	if err != nil {
		return nil, err
	}
	env := &runEnv{cfg: cfg, log: log, printer: ui.New(), cache: cache}
	if cfg.Journal != "" {
		if env.journal, err = telemetry.NewEmitter(cfg.Journal); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func (e *runEnv) close() {
	if err := e.journal.Close(); err != nil {
		e.log.Warn("closing journal", "error", err)
	}
	e.log.Sync()
}

// openSession loads the configured catalogs and builds a session over them.
func (e *runEnv) openSession() (*session.Session, error) {
	if e.cfg.Source == "" {
		return nil, errNoSource
	}
	source, err := e.cache.Load(e.cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}

	scope, err := session.ParseScope(e.cfg.Scope)
	if err != nil {
		return nil, err
	}
	matcher, err := filter.NewMatcher(filter.Mode(e.cfg.Filter.Mode))
	if err != nil {
		return nil, err
	}
	opts := []session.Option{
		session.WithScope(scope),
		session.WithMatcher(matcher),
		session.WithLogger(e.log),
		session.WithJournal(e.journal),
	}

	if e.cfg.Destination != "" {
		dest, err := e.cache.Load(e.cfg.Destination)
		if err != nil {
			return nil, fmt.Errorf("loading destination: %w", err)
		}
		opts = append(opts, session.WithDestination(dest))
	}

	sess := session.New(source, opts...)
	if e.cfg.Verbose {
		e.printer.Loaded(e.cfg.Source, sess.Set(), sess.Table().Stats())
	}
	return sess, nil
}

// restoreFrom seeds sess with a previously saved selection. An empty path
// is a no-op.
func (e *runEnv) restoreFrom(sess *session.Session, path string) error {
	if path == "" {
		return nil
	}
	prev, err := selection.Load(path)
	if err != nil {
		return err
	}
	for _, ref := range sess.Restore(prev) {
		e.log.Warn("saved selection names an unknown candidate", "ref", ref.String())
	}
	return nil
}

// outputPath returns the selection path, honoring an explicit --format.
func (e *runEnv) outputPath(flag string) (string, error) {
	path := e.cfg.Output
	if flag != "" {
		path = flag
	}
	if _, err := catalog.FormatFor(path); err == nil {
		return path, nil
	}
	format, err := catalog.ParseFormat(e.cfg.Format)
	if err != nil {
		return "", err
	}
	return path + "." + string(format), nil
}
