package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRunCleanup(c *common) *cobra.Command {
	var ttlDays int
	var yes bool

	cmd := &cobra.Command{
		Use:   "run-cleanup",
		Short: "reclaim artifacts past the retention TTL",
		Long: "run-cleanup asks picketd for one collection pass." +
			" Unless --yes is given, it previews how many artifacts would go" +
			" and asks for confirmation when run interactively.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := c.open()
			if err != nil {
				return err
			}

			ttl := time.Duration(ttlDays) * 24 * time.Hour

			if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
				preview, err := s.client.CountExpired(ctx, ttl)
				if err != nil {
					return err
				}
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"%d artifact(s) older than %s will be deleted. continue? [y/N]: ",
					preview.Count, preview.Cutoff.Format(time.RFC3339),
				)
				answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return err
				}
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			summary, err := s.client.RunCleanup(ctx, ttl)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
		},
	}
	cmd.Flags().IntVar(&ttlDays, "ttl-days", 0, "override the server's TTL for this pass (days)")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func newCountExpired(c *common) *cobra.Command {
	var ttlDays int

	cmd := &cobra.Command{
		Use:   "count-expired",
		Short: "show how many artifacts the next cleanup would reclaim",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.open()
			if err != nil {
				return err
			}
			count, err := s.client.CountExpired(
				cmd.Context(), time.Duration(ttlDays)*24*time.Hour,
			)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(count)
		},
	}
	cmd.Flags().IntVar(&ttlDays, "ttl-days", 0, "override the server's TTL (days)")
	return cmd
}
