package cli

import (
	"fmt"
	"os"

	customerrors "lead-router/errors"
	"lead-router/formatter"
	"lead-router/models"
	"lead-router/parser"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the agent directory from the roster if it is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), false); err != nil {
				return err
			}
			seeded, err := a.seed(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Directory already populated; roster not applied")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d agents from roster %s\n", len(a.roster.Agents), a.roster.Version)
			return nil
		},
	}
}

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		input   string
		format  string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score, classify and route every lead in a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Workers
			}

			file, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("error opening file: %w", err)
			}
			defer file.Close()

			subs, err := parser.Parse(file)
			if err != nil {
				return fmt.Errorf("error parsing file: %w", err)
			}

			if err := a.open(cmd.Context(), true); err != nil {
				return err
			}
			outcomes, err := a.svc.SubmitBatch(cmd.Context(), subs, workers)
			if err != nil {
				return err
			}
			rows := formatter.OutcomeRows(outcomes)
			render(cmd, format,
				func() string { return formatter.FormatLeadsText(rows) },
				func() string { return formatter.FormatLeadsJSON(rows) },
				func() string { return formatter.FormatLeadsCSV(rows) },
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Input CSV file (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|csv")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent submissions (default: LEADROUTER_WORKERS)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		sub     models.Submission
		marital string
		partner string
		capital string
		urgency string
		risk    string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Evaluate and route a single lead",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			partnerDecides, ok := models.ParseYesNo(partner)
			if !ok {
				return fmt.Errorf("%w: %q", customerrors.ErrInvalidPartner, partner)
			}
			sub.Answers = models.Answers{
				MaritalStatus:  models.ParseMaritalStatus(marital),
				PartnerDecides: partnerDecides,
				Capital:        models.ParseCapitalType(capital),
				Urgency:        models.ParseUrgency(urgency),
				Risk:           models.ParseRisk(risk),
			}

			if err := a.open(cmd.Context(), true); err != nil {
				return err
			}
			lead, decision, err := a.svc.Submit(cmd.Context(), sub)
			if err != nil {
				return err
			}
			rows := formatter.LeadRows([]models.Lead{lead})
			rows[0].RegistrantMissing = decision.RegistrantMissing
			render(cmd, format,
				func() string { return formatter.FormatLeadsText(rows) },
				func() string { return formatter.FormatLeadsJSON(rows) },
				func() string { return formatter.FormatLeadsCSV(rows) },
			)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&sub.Name, "name", "", "Lead name (required)")
	f.StringVar(&sub.Phone, "phone", "", "Lead phone")
	f.StringVar(&sub.Owner, "owner", "", "Owning agent (required)")
	f.StringVar(&sub.Registrant, "registrant", "", "Agent who recorded the lead")
	f.StringSliceVar(&sub.Models, "model", nil, "Model preference, up to three (repeatable)")
	f.StringVar(&marital, "marital", "", "single|married|cohabiting")
	f.StringVar(&partner, "partner", "no", "Partner takes the decision: yes|no")
	f.StringVar(&capital, "capital", "", "bank|cash")
	f.StringVar(&urgency, "urgency", "", "immediate|can-wait")
	f.StringVar(&risk, "risk", "normal", "normal|loss")
	f.StringVar(&format, "format", "text", "Output format: text|json|csv")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent leads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := a.open(cmd.Context(), true); err != nil {
				return err
			}
			recent, err := a.svc.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rows := formatter.LeadRows(recent)
			render(cmd, format,
				func() string { return formatter.FormatLeadsText(rows) },
				func() string { return formatter.FormatLeadsJSON(rows) },
				func() string { return formatter.FormatLeadsCSV(rows) },
			)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of leads to show (default 10)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|csv")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lead counts per classification tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := a.open(cmd.Context(), true); err != nil {
				return err
			}
			counts, err := a.svc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			render(cmd, format,
				func() string { return formatter.FormatStatsText(counts) },
				func() string { return formatter.FormatStatsJSON(counts) },
				func() string { return formatter.FormatStatsCSV(counts) },
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|csv")
	return cmd
}
