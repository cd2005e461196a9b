// config.go
//
// Command-line and environment configuration.
// Every flag can also be set as WORDSEARCH_<FLAG> (dashes become
// underscores); a .env file in the working directory is loaded first.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	clientOrigin   string
	dailySalt      string
	dbPath         string
	jwtSecret      string
	logLevel       string
	port           int
	pretty         bool
	sessionTTL     time.Duration
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	version        bool
	wordsFile      string
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if _, err := zerolog.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.logLevel, err)
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout: %s", c.sessionTimeout)
	}
	if c.dbPath == "" {
		return errors.New("--db must not be empty")
	}
	return nil
}

func (c *Config) secure() bool {
	return c.tlsCert != "" && c.tlsKey != ""
}

func (c *Config) scheme() string {
	if c.secure() {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordsearch",
		Short:         "A timed word search puzzle, served to the browser.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: WORDSEARCH_BIND)")
	fs.StringVar(&cfg.clientOrigin, "client-origin", "", "allowed CORS origin for a separately hosted client (env: WORDSEARCH_CLIENT_ORIGIN)")
	fs.StringVar(&cfg.dailySalt, "daily-salt", "", "salt for the daily puzzle seed; derived from --jwt-secret if empty (env: WORDSEARCH_DAILY_SALT)")
	fs.StringVar(&cfg.dbPath, "db", "./data/wordsearch.db", "path to the sqlite results database (env: WORDSEARCH_DB)")
	fs.StringVar(&cfg.jwtSecret, "jwt-secret", "", "secret for session tokens; random per run if empty (env: WORDSEARCH_JWT_SECRET)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "trace, debug, info, warn or error (env: WORDSEARCH_LOG_LEVEL)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: WORDSEARCH_PORT)")
	fs.BoolVar(&cfg.pretty, "pretty", false, "human-readable console logs (env: WORDSEARCH_PRETTY)")
	fs.DurationVar(&cfg.sessionTTL, "session-ttl", 14*24*time.Hour, "lifetime of the player session cookie (env: WORDSEARCH_SESSION_TTL)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 30*time.Minute, "time before idle games are discarded, 0 to keep forever (env: WORDSEARCH_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: WORDSEARCH_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: WORDSEARCH_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: WORDSEARCH_VERSION)")
	fs.StringVar(&cfg.wordsFile, "words-file", "", "JSON word bank replacing the built-in one (env: WORDSEARCH_WORDS_FILE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordsearch v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
