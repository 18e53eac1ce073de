package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lazypower/waypoint/internal/config"
	"github.com/lazypower/waypoint/internal/engine"
	"github.com/lazypower/waypoint/internal/logging"
	"github.com/lazypower/waypoint/internal/store"
	"github.com/spf13/cobra"
)

// session is one load -> operate -> persist cycle.
type session struct {
	cfg     config.Config
	log     *logging.Logger
	backend store.Backend
	db      *engine.Database
}

// openSession loads the configuration and the whole database. terms are
// the search terms, nil for commands that do not search.
func openSession(cmd *cobra.Command, terms []string) (*session, error) {
	cfg, err := loadConfig(cmd, terms)
	if err != nil {
		return nil, err
	}
	return openSessionWith(cmd, cfg, true)
}

// openSessionWith opens storage for cfg, loading its records when load is set.
func openSessionWith(cmd *cobra.Command, cfg config.Config, load bool) (*session, error) {
	log := logging.New(cfg.LogFile, cmd.ErrOrStderr())

	backend, err := store.Open(cfg.DataFile)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("open data file: %w", err)
	}

	db := engine.New(log)
	if !load {
		return &session{cfg: cfg, log: log, backend: backend, db: db}, nil
	}
	if err := db.Load(backend); err != nil {
		backend.Close()
		log.Close()
		return nil, err
	}
	return &session{cfg: cfg, log: log, backend: backend, db: db}, nil
}

// persist writes the database back, creating the data directory if needed.
func (s *session) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.cfg.DataFile), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return s.db.Persist(s.backend)
}

func (s *session) Close() {
	s.backend.Close()
	s.log.Close()
}
