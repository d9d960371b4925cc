package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/picket-dev/picket/pkg/auth"
	"github.com/picket-dev/picket/pkg/utils/clock"
)

// newToken is the operator-side counterpart of pkg/auth: it signs a
// principal token with the server's key.
func newToken() *cobra.Command {
	var key, principal string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "sign a principal token (operator; needs the server's key)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := auth.New(key, clock.System()).Issue(principal, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "HS256 signing key, same as the server config")
	cmd.Flags().StringVar(&principal, "principal", "", "principal the token names")
	cmd.Flags().DurationVar(&ttl, "ttl", 365*24*time.Hour, "token lifetime")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("principal")
	return cmd
}
