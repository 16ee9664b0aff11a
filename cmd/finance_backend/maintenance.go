package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/SscSPs/facility_finance_app/internal/jobs"
	"github.com/spf13/cobra"
)

var flagRecomputeAll bool

var recomputeCmd = &cobra.Command{
	Use:   "recompute [account-id...]",
	Short: "Recompute the running balances of accounts",
	Args: func(cmd *cobra.Command, args []string) error {
		if flagRecomputeAll == (len(args) > 0) {
			return fmt.Errorf("pass either account ids or --all")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseAccountIDs(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := bootstrap(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.close()

		scope := domain.CountryScope()
		if flagRecomputeAll {
			accounts, err := a.services.Account.ListAccounts(cmd.Context(), scope, domain.AccountFilter{})
			if err != nil {
				return err
			}
			for _, acc := range accounts {
				ids = append(ids, acc.AccountID)
			}
		}

		for _, id := range ids {
			rewritten, err := a.services.Cashbook.RecomputeAccount(cmd.Context(), scope, id)
			if err != nil {
				return fmt.Errorf("account %d: %w", id, err)
			}
			a.logger.Info("Recomputed account", slog.Int64("account_id", id), slog.Int("rewritten", rewritten))
			fmt.Fprintf(cmd.OutOrStdout(), "account %d: %d rows rewritten\n", id, rewritten)
		}
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Compare stored running balances with a fresh recomputation",
	Long:  "Scans every account without writing. Exits non-zero when any account drifted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := bootstrap(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.close()

		drifts, err := jobs.NewAuditJob(a.services.Cashbook, a.logger).Run(cmd.Context())
		if err != nil {
			return err
		}
		printDrifts(cmd.OutOrStdout(), drifts)
		if len(drifts) > 0 {
			return fmt.Errorf("%d account(s) drifted", len(drifts))
		}
		return nil
	},
}

func parseAccountIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid account id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printDrifts(w io.Writer, drifts []domain.AccountDrift) {
	if len(drifts) == 0 {
		fmt.Fprintln(w, "all running balances consistent")
		return
	}
	fmt.Fprintf(w, "%-10s %-14s %15s %15s\n", "ACCOUNT", "FIRST BAD ROW", "STORED", "EXPECTED")
	for _, d := range drifts {
		fmt.Fprintf(w, "%-10d %-14d %15s %15s\n", d.AccountID, d.FirstBadEntryID, d.Stored.StringFixed(2), d.Expected.StringFixed(2))
	}
}

func init() {
	recomputeCmd.Flags().BoolVar(&flagRecomputeAll, "all", false, "Recompute every account")
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(auditCmd)
}
