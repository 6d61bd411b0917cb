package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kerbaras/mangadesk/pkg/config"
	"github.com/kerbaras/mangadesk/pkg/data"
	"github.com/kerbaras/mangadesk/pkg/logging"
	"github.com/kerbaras/mangadesk/pkg/server"
	"github.com/kerbaras/mangadesk/pkg/server/interactions"
	"github.com/rs/zerolog"
)

// env holds what every command needs: config, logger and the server client.
type env struct {
	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func() error
	client   *server.Client
}

// loadEnv reads the config and builds the logger and client. The TUI owns
// the terminal, so it logs to a file next to the data store by default.
func loadEnv(tui bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}

	logCfg := cfg.Log
	if verbose {
		logCfg.Level = zerolog.LevelDebugValue
	}
	if tui && logCfg.File == "" {
		logCfg.File = filepath.Join(filepath.Dir(cfg.Data.Path), "mangadesk.log")
	}

	logger, closeLog, err := logging.New(logCfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("config", cfg.Path()).Str("server", cfg.Server.URL).Msg("environment loaded")

	return &env{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		client:   server.NewClient(cfg.ServerOptions(), logger),
	}, nil
}

func (e *env) Close() {
	if err := e.client.Close(); err != nil {
		e.logger.Debug().Err(err).Msg("closing client")
	}
	_ = e.closeLog()
}

func (e *env) chapters() *interactions.ChapterHandler {
	return interactions.NewChapterHandler(e.client)
}

func (e *env) sources() *interactions.SourceHandler {
	return interactions.NewSourceHandler(e.client)
}

func (e *env) mangas() *interactions.MangaHandler {
	return interactions.NewMangaHandler(e.client)
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, arg, err)
	}
	return id, nil
}

func parseChapterKey(mangaArg, indexArg string) (data.ChapterKey, error) {
	mangaID, err := parseID(mangaArg, "manga id")
	if err != nil {
		return data.ChapterKey{}, err
	}
	index, err := strconv.Atoi(indexArg)
	if err != nil {
		return data.ChapterKey{}, fmt.Errorf("invalid chapter index %q: %w", indexArg, err)
	}
	return data.ChapterKey{MangaID: mangaID, Index: index}, nil
}
