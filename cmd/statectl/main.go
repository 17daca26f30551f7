package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RuiFG/streaming/streaming-state/config"
	"github.com/RuiFG/streaming/streaming-state/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	v          = config.New()
	configFile string
	profileArg string
)

var Command = &cobra.Command{
	Use:           "statectl",
	Short:         "inspect and edit the dual remote/local scheduler state store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := Command.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "config file, defaults to ./statestore.yml")
	flags.StringVar(&profileArg, "profile", "", "write a cpu or mem profile to the working directory")
	flags.String("name", "", "store name, the table name is derived from it")
	flags.String("table", "", "remote table name")
	flags.String("region", "", "remote table region")
	flags.String("endpoint", "", "remote table endpoint override")
	flags.String("dir", "", "local state directory")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address")
	flags.Bool("debug", false, "enable debug logging")
	bind(v, map[string]string{
		"name":                "name",
		"remote.table":        "table",
		"remote.region":       "region",
		"remote.endpoint":     "endpoint",
		"local.dir":           "dir",
		"metrics.listen_addr": "metrics-addr",
		"debug":               "debug",
	})
}

func bind(v *viper.Viper, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, Command.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Command.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "statectl: %v\n", err)
		_ = log.Global().Sync()
		stop()
		os.Exit(1)
	}
}
