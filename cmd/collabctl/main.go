package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"collabhub/internal/integration/collabapi"
	"collabhub/internal/observability"
)

func main() {
	if err := newRoot(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries the settings every subcommand needs. The token is read once
// here and handed to the API client explicitly.
type cli struct {
	v      *viper.Viper
	out    io.Writer
	logger *zap.Logger
}

func newRoot(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}
	root := &cobra.Command{
		Use:           "collabctl",
		Short:         "Command line client for the collabhub API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logger, err := observability.NewLogger(c.v.GetString("log-level"), "console")
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.String("api", "http://localhost:8080", "API base URL (COLLABHUB_API)")
	flags.String("token", "", "bearer token (COLLABHUB_TOKEN)")
	flags.Duration("timeout", 15*time.Second, "per-request timeout")
	flags.String("log-level", "warn", "log level")
	_ = c.v.BindPFlags(flags)
	c.v.SetEnvPrefix("COLLABHUB")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(c.talentsCommand(), c.wizardCommand(), c.inviteCommand(), c.respondCommand(), c.invitationsCommand())
	return root
}

func (c *cli) client() (*collabapi.Client, error) {
	token := strings.TrimSpace(c.v.GetString("token"))
	if token == "" {
		return nil, fmt.Errorf("a token is required: pass --token or set COLLABHUB_TOKEN")
	}
	return collabapi.NewClient(c.v.GetString("api"), collabapi.Credentials{Token: token}, &http.Client{Timeout: c.v.GetDuration("timeout")}), nil
}

func (c *cli) printJSON(value any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
