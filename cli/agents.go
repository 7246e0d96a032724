package cli

import (
	"fmt"
	"time"

	"lead-router/availability"
	"lead-router/formatter"
	"lead-router/models"

	"github.com/spf13/cobra"
)

func newAgentsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Show the agent board: free agents in rotation order, busy agents with time left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := a.open(cmd.Context(), true); err != nil {
				return err
			}
			agents, err := a.dir.List(cmd.Context())
			if err != nil {
				return err
			}
			board := formatter.PrepareBoard(agents, a.svc.Now())
			render(cmd, format,
				func() string { return formatter.FormatBoardText(board) },
				func() string { return formatter.FormatBoardJSON(board) },
				func() string { return formatter.FormatBoardCSV(board) },
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|csv")
	return cmd
}

func newExtendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extend <agent>",
		Short: fmt.Sprintf("Push an agent's availability window back by %d minutes", int(availability.ExtensionStep.Minutes())),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), true); err != nil {
				return err
			}
			now := a.svc.Now()
			agent, err := a.engine.Extend(cmd.Context(), args[0], now)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s available again at %s (in %d min)\n",
				agent.ID, agent.AvailableAgainAt.Format(time.Kitchen), availability.RemainingMinutes(agent, now))
			return nil
		},
	}
}

func newReleaseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "release <agent>",
		Short: "Mark an agent FREE; the availability window still applies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), true); err != nil {
				return err
			}
			agent, err := a.engine.Release(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s released (%s)\n", agent.ID, releaseNote(agent, a.svc.Now()))
			return nil
		},
	}
}

func releaseNote(agent models.Agent, now time.Time) string {
	if n := availability.RemainingMinutes(agent, now); n > 0 {
		return fmt.Sprintf("refreshes in %d min", n)
	}
	return formatter.LabelReady
}
