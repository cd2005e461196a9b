// main.go
//
// Entry point for the Word Search server.
// Responsibilities:
//   - Load .env, parse flags/env, configure zerolog.
//   - Load the word bank and open/migrate the results database.
//   - Serve HTTP until interrupted, then shut down gracefully.

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/db"
	"github.com/robalobadob/wordsearch/internal/httpserver"
	"github.com/robalobadob/wordsearch/internal/results"
	"github.com/robalobadob/wordsearch/internal/session"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

const (
	releaseVersion = "0.1.0"
	shutdownGrace  = 5 * time.Second
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).ExecuteContext(ctx))
}

// setupLogging applies the level and output format.
func setupLogging(cfg *Config) {
	if lvl, err := zerolog.ParseLevel(cfg.logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// loadWords reads the word bank from cfg.wordsFile or the built-in one.
func loadWords(cfg *Config) (*words.Bank, error) {
	if cfg.wordsFile == "" {
		return words.Default()
	}
	data, err := os.ReadFile(cfg.wordsFile)
	if err != nil {
		return nil, fmt.Errorf("read words file: %w", err)
	}
	return words.Parse(data)
}

// sessionSecret returns the configured secret, or a random one. Sessions
// signed with a random secret do not survive a restart.
func sessionSecret(cfg *Config) string {
	if cfg.jwtSecret != "" {
		return cfg.jwtSecret
	}
	var b [32]byte
	_, _ = rand.Read(b[:])
	log.Warn().Msg("no --jwt-secret set; using a random secret, sessions end on restart")
	return hex.EncodeToString(b[:])
}

// dailySalt returns the configured salt, or one derived from the session
// secret so that deployments never share the default seed.
func dailySalt(cfg *Config, secret string) string {
	if cfg.dailySalt != "" {
		return cfg.dailySalt
	}
	return hex.EncodeToString(session.DeriveKey(secret, "daily"))
}

func serve(ctx context.Context, cfg *Config) error {
	setupLogging(cfg)
	log.Info().Str("version", releaseVersion).Msg("starting wordsearch")

	bank, err := loadWords(cfg)
	if err != nil {
		return fmt.Errorf("load word bank: %w", err)
	}
	cats, n := bank.Stats()
	log.Info().Int("categories", cats).Int("words", n).Msg("word bank loaded")

	conn, err := db.Open(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	mem := store.NewMemoryStore(cfg.sessionTimeout)
	defer mem.Close()

	secret := sessionSecret(cfg)
	handler := httpserver.New(httpserver.Options{
		ClientOrigin: cfg.clientOrigin,
		DailySalt:    dailySalt(cfg, secret),
		Secure:       cfg.secure(),
		Version:      releaseVersion,
	},
		mem,
		results.NewStore(conn),
		session.NewManager(secret, cfg.sessionTTL, cfg.secure()),
		bank,
	).Handler()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           handler,
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.scheme()+"://"+srv.Addr+"/").Msg("listening")
		if cfg.secure() {
			errs <- srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			errs <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
