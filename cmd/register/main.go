// Package main registers one account against a running web service.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	registercmd "github.com/ifc-cambodge/sreyka/internal/cmd/register"
	platformcmd "github.com/ifc-cambodge/sreyka/internal/platform/cmd"
	"github.com/ifc-cambodge/sreyka/internal/platform/config"
)

func main() {
	cfg, err := registercmd.ParseConfig(flag.CommandLine, os.Args[1:], os.LookupEnv)
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[REGISTER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceRegister, func(ctx context.Context) error {
		return registercmd.Run(ctx, cfg, os.Stdout)
	})
	config.ExitOnError(err, "register")
}
