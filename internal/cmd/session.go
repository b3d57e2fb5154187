package cmd

import (
	"fmt"

	"github.com/fonny-io/fonny/internal/archive"
	"github.com/fonny-io/fonny/internal/config"
	"github.com/fonny-io/fonny/internal/logging"
	"github.com/fonny-io/fonny/internal/repl"
	"github.com/fonny-io/fonny/internal/transport"
)

// session bundles a wired engine with everything that needs closing
// when the command exits.
type session struct {
	engine   *repl.Engine
	endpoint string
	logger   *logging.Logger
	db       *archive.SQLite
}

// newSession builds the engine, transport, and sinks from config. When
// execCommand is non-empty a local subprocess replaces the serial line,
// which is handy for working against gforth without hardware attached.
func newSession(cfg *config.Config, execCommand string, execArgs []string) (*session, error) {
	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		var err error
		logger, err = logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("opening log: %w", err)
		}
	}

	engine := repl.New(logger)

	var (
		port     transport.Port
		endpoint string
	)
	if execCommand != "" {
		port = transport.NewExec(execCommand, execArgs, engine, logger)
		endpoint = execCommand
	} else {
		port = transport.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Serial.ReadTimeout(), engine, logger)
		endpoint = cfg.Serial.Port
	}
	engine.SetTransport(port)

	s := &session{
		engine:   engine,
		endpoint: endpoint,
		logger:   logger,
	}

	if cfg.Archive.Enabled {
		db, err := archive.OpenSQLite(cfg.Archive.ResolveArchivePath())
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("opening archive: %w", err)
		}
		s.db = db
		engine.AddSink(db)
	}

	if cfg.Logging.Enabled {
		engine.AddSink(archive.NewLogSink(logger))
	}

	return s, nil
}

// close releases the archive and log file. The engine is stopped by the
// caller before close.
func (s *session) close() {
	if s.db != nil {
		_ = s.db.Close()
	}
	_ = s.logger.Close()
}
