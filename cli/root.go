// Package cli implements the lead-router command line.
package cli

import (
	"fmt"
	"os"

	"lead-router/config"
	"lead-router/logger"

	"github.com/spf13/cobra"
)

var validFormats = map[string]bool{"text": true, "json": true, "csv": true}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}
	var (
		dbPath      string
		rosterPath  string
		env         string
		metricsAddr string
		pushURL     string
	)

	cmd := &cobra.Command{
		Use:          "lead-router",
		Short:        "Score incoming sales leads and route them to agents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("db") {
				cfg.DBPath = dbPath
			}
			if flags.Changed("roster") {
				cfg.RosterPath = rosterPath
			}
			if flags.Changed("env") {
				cfg.Env = env
			}
			if flags.Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if flags.Changed("push-url") {
				cfg.PushURL = pushURL
			}
			a.cfg = cfg
			a.log = logger.NewWithWriter(cfg.Env, cmd.ErrOrStderr())
			a.serveMetrics()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "SQLite database path (env: LEADROUTER_DB; empty keeps state in memory)")
	pf.StringVar(&rosterPath, "roster", "", "YAML roster file (env: LEADROUTER_ROSTER; default: built-in roster)")
	pf.StringVar(&env, "env", "", "Environment name; development enables debug logs (env: APP_ENV)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pf.StringVar(&pushURL, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	pf.BoolVar(&a.wait, "wait", false, "Keep process running after completion to allow for metric scraping")

	cmd.AddCommand(newSeedCmd(a))
	cmd.AddCommand(newEvaluateCmd(a))
	cmd.AddCommand(newSubmitCmd(a))
	cmd.AddCommand(newAgentsCmd(a))
	cmd.AddCommand(newExtendCmd(a))
	cmd.AddCommand(newReleaseCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newStatsCmd(a))

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	if version != "" {
		cmd.Version = version
	} else {
		cmd.Version = "dev"
	}
	return cmd
}

func checkFormat(format string) error {
	if !validFormats[format] {
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", format)
	}
	return nil
}

// render picks the formatter output matching format.
func render(cmd *cobra.Command, format string, text, json, csv func() string) {
	var out string
	switch format {
	case "json":
		out = json() + "\n"
	case "csv":
		out = csv()
	default: // "text"
		out = text()
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
}
