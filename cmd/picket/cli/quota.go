package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	apiuploads "github.com/picket-dev/picket/pkg/api/types/uploads"
)

func newCheckQuota(c *common) *cobra.Command {
	return &cobra.Command{
		Use:   "check-quota [PRINCIPAL]",
		Short: "show this device's standing against the upload limits",
		Long: "check-quota prints whether an upload would be admitted right now," +
			" and the counts in the hourly and daily windows." +
			" Checking does not consume an admission." +
			" PRINCIPAL defaults to the profile's one.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open()
			if err != nil {
				return err
			}

			principal := s.principal
			if 0 < len(args) {
				principal = args[0]
			}
			decision, err := s.quota.TryAdmit(cmd.Context(), principal, s.now())
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(
				apiuploads.ComposeQuotaStatus(decision),
			)
		},
	}
}
