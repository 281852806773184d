package main

import (
	"downalert/internal/notifier"
	"downalert/internal/scheduler"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single poll pass and print the sites that are down",
	Long: `Run a single poll pass over every stored site and print a report.
No alerts are sent unless --notify is given.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Bool("notify", false, "send alerts for the sites that are down")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	notify, _ := cmd.Flags().GetBool("notify")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	var notif notifier.Notifier
	if notify {
		if a.broker != nil {
			notif = a.broker
		} else {
			bot, err := a.newBot()
			if err != nil {
				return err
			}
			notif = bot
		}
	}

	report, err := a.newScheduler(notif).RunOnce(ctx)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, report scheduler.Report) {
	fmt.Fprintf(w, "pass %s: %d checked, %d down, %d notified\n",
		report.PassId, report.Checked, len(report.Down), report.Notified)
	for _, result := range report.Down {
		reason := result.Err
		if result.Code.Valid {
			reason = fmt.Sprintf("status %d", result.Code.Int64)
		}
		fmt.Fprintf(w, "  %d. %s %s\n", result.Site.Id, result.Site.Url, reason)
	}
}
