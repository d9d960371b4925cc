package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newUpload(c *common) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "upload a file, honoring this device's quota",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.open()
			if err != nil {
				return err
			}

			// admission first; the server never sees a denied upload
			decision, err := s.quota.TryAdmit(ctx, s.principal, s.now())
			if err != nil {
				return err
			}
			if !decision.Allowed {
				fmt.Fprintln(cmd.ErrOrStderr(), decision.Message())
				return fmt.Errorf("upload denied")
			}

			payload, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer payload.Close()

			detail, err := s.client.Upload(ctx, filepath.Base(args[0]), payload)
			if err != nil {
				return err
			}

			// the upload happened; it counts even if the record of
			// that fails below
			if err := s.quota.RecordAdmission(ctx, s.principal, s.now()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: quota ledger not updated: %s\n", err)
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(detail)
		},
	}
}

func newList(c *common) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list this principal's uploads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.open()
			if err != nil {
				return err
			}
			found, err := s.client.List(cmd.Context())
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(found)
		},
	}
}

func newRemove(c *common) *cobra.Command {
	return &cobra.Command{
		Use:   "rm UPLOAD_ID",
		Short: "delete one upload: the blob, then its record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open()
			if err != nil {
				return err
			}
			if err := s.client.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "removed", args[0])
			return nil
		},
	}
}
