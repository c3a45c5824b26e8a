package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/jgates/waypoint/internal/config"
	"github.com/jgates/waypoint/internal/domain/cadence"
	"github.com/jgates/waypoint/internal/domain/mission"
	sig "github.com/jgates/waypoint/internal/domain/signal"
	"github.com/jgates/waypoint/internal/domain/user"
	"github.com/jgates/waypoint/internal/postgres"
	"github.com/jgates/waypoint/internal/sqlite"
	"github.com/jgates/waypoint/internal/transport"
)

// store bundles the backend-specific repository implementations.
type store struct {
	signals  sig.Source
	missions mission.Repository
	cadence  cadence.Repository
	users    user.Repository
	close    func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logWriter := io.Writer(os.Stderr)
	if logPath := os.Getenv("WAYPOINT_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	signalSvc := sig.NewService(st.signals, logger)
	missionSvc := mission.NewService(signalSvc, st.missions, logger)
	cadenceSvc := cadence.NewService(st.cadence, logger)

	var authMiddleware func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		authMiddleware = transport.AuthMiddleware(st.users)
	} else {
		devUser := cfg.Auth.DevUserID
		if devUser == "" {
			devUser = "dev"
		}
		logger.Warn("auth disabled, all requests map to one account", "user_id", devUser)
		authMiddleware = transport.DevAuthMiddleware(st.users, devUser)
	}

	router := transport.NewServer(signalSvc, missionSvc, cadenceSvc, authMiddleware, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "driver", cfg.DB.Driver)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func openStore(cfg config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.DB.Driver {
	case "sqlite":
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return nil, fmt.Errorf("preparing database path: %w", err)
		}
		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("sqlite store ready", "path", cfg.DB.Path)
		return &store{
			signals:  sqlite.NewSignalSource(db),
			missions: sqlite.NewMissionRepository(db),
			cadence:  sqlite.NewCadenceRepository(db),
			users:    sqlite.NewUserRepository(db),
			close:    db.Close,
		}, nil

	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := postgres.New(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("postgres store ready")
		return &store{
			signals:  postgres.NewSignalSource(db),
			missions: postgres.NewMissionRepository(db),
			cadence:  postgres.NewCadenceRepository(db),
			users:    postgres.NewUserRepository(db),
			close:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
