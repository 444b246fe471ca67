// Command server runs the backend for the card-and-revolver party game:
// the leaderboard API, the two-player room relay, and the QR share
// endpoint.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"lastchamber/internal/handlers/httpapi"
	"lastchamber/internal/handlers/relay"
	lbrepo "lastchamber/internal/repositories/leaderboard"
)

type config struct {
	bind        string
	port        int
	redisAddr   string
	redisPass   string
	roomTimeout time.Duration
	logLevel    string
	verbose     bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.roomTimeout <= 0 {
		return fmt.Errorf("room timeout must be positive: %s", c.roomTimeout)
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("LASTCHAMBER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Backend for the card-and-revolver party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: LASTCHAMBER_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: LASTCHAMBER_PORT)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "localhost:6379", "redis address (env: LASTCHAMBER_REDIS_ADDR)")
	fs.StringVar(&cfg.redisPass, "redis-password", "", "redis password (env: LASTCHAMBER_REDIS_PASSWORD)")
	fs.DurationVar(&cfg.roomTimeout, "room-timeout", 30*time.Minute, "time before idle rooms are closed (env: LASTCHAMBER_ROOM_TIMEOUT)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "zerolog level (env: LASTCHAMBER_LOG_LEVEL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "human-readable console logging (env: LASTCHAMBER_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

func run(cfg *config) error {
	if lvl, err := zerolog.ParseLevel(cfg.logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.verbose {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.redisAddr,
		Password: cfg.redisPass,
	})

	repo, err := lbrepo.NewRedis(&lbrepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return fmt.Errorf("failed to create leaderboard repository: %w", err)
	}

	relayManager := relay.NewManager(&relay.Config{
		Logger:      log.With().Str("component", "relay").Logger(),
		IdleTimeout: cfg.roomTimeout,
	})
	defer relayManager.Close()

	srv := httpapi.New(&httpapi.Config{
		Repository: repo,
		Relay:      relayManager,
		Logger:     log.With().Str("component", "http").Logger(),
	})

	addr := fmt.Sprintf("%s:%d", cfg.bind, cfg.port)
	log.Info().Str("addr", addr).Msg("starting server")
	return srv.Start(addr)
}

func main() {
	_ = godotenv.Load()

	cfg := &config{}
	if err := newCmd(cfg).Execute(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
