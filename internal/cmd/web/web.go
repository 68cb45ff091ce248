// Package web parses configuration for and runs the web service.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	platformcmd "github.com/ifc-cambodge/sreyka/internal/platform/cmd"
	"github.com/ifc-cambodge/sreyka/internal/platform/config"
	"github.com/ifc-cambodge/sreyka/internal/services/web"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/sessioncookie"
)

const (
	envHTTPAddr            = "SREYKA_WEB_HTTP_ADDR"
	envDBPath              = "SREYKA_WEB_DB_PATH"
	envSessionTTL          = "SREYKA_WEB_SESSION_TTL"
	envTrustForwardedProto = "SREYKA_WEB_TRUST_FORWARDED_PROTO"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"SREYKA_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath              string        `env:"SREYKA_WEB_DB_PATH" envDefault:"data/sreyka-auth.db"`
	SessionTTL          time.Duration `env:"SREYKA_WEB_SESSION_TTL" envDefault:"168h"`
	TrustForwardedProto bool          `env:"SREYKA_WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig reads env defaults through lookup and then parses flags.
func ParseConfig(fs *flag.FlagSet, args []string, lookup config.EnvLookup) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg, lookup, envHTTPAddr, envDBPath, envSessionTTL, envTrustForwardedProto); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite file for users and sessions")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Web session lifetime")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for cookie security")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config, lookup config.EnvLookup) error {
	codec, err := sessioncookie.LoadCodecFromEnv(lookup)
	if err != nil {
		return fmt.Errorf("load session codec: %w", err)
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:   cfg.HTTPAddr,
			DBPath:     cfg.DBPath,
			SessionTTL: cfg.SessionTTL,
			Codec:      codec,
			Policy:     requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
