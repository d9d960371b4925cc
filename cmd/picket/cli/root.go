// Package cli wires the picket subcommands.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/picket-dev/picket/cmd/picket/config/profile"
	"github.com/picket-dev/picket/cmd/picket/rest"
	"github.com/picket-dev/picket/pkg/domain/quota"
	quotafile "github.com/picket-dev/picket/pkg/domain/quota/file"
)

type common struct {
	profilePath string
}

// session is everything a subcommand needs after the profile loaded.
type session struct {
	profile   *profile.Profile
	principal string
	client    *rest.Client
	quota     *quota.Controller
	now       func() time.Time
}

func (c *common) open() (*session, error) {
	p, err := profile.Load(c.profilePath)
	if err != nil {
		return nil, err
	}
	if err := p.Verify(); err != nil {
		return nil, err
	}
	principal, err := p.Principal()
	if err != nil {
		return nil, err
	}
	return &session{
		profile:   p,
		principal: principal,
		client:    rest.New(p.ApiRoot, p.Token),
		quota: quota.New(
			quotafile.New(p.QuotaPath(c.profilePath)),
			quota.WithLimits(p.Limits()),
		),
		now: time.Now,
	}, nil
}

func New() *cobra.Command {
	c := &common{}

	root := &cobra.Command{
		Use:           "picket",
		Short:         "picket is the client and operator tool for the picket upload service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(
		&c.profilePath, "profile", profile.DefaultPath(), "path to the profile file",
	)

	root.AddCommand(
		newUpload(c),
		newList(c),
		newRemove(c),
		newCheckQuota(c),
		newRunCleanup(c),
		newCountExpired(c),
		newToken(),
		newInit(c),
	)
	return root
}

func newInit(c *common) *cobra.Command {
	var apiRoot, token string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "write a profile file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := &profile.Profile{ApiRoot: apiRoot, Token: token}
			if err := p.Verify(); err != nil {
				return err
			}

			// take the admission limits from the server, so an
			// operator's quota config reaches this device.
			policy, err := rest.New(apiRoot, token).QuotaPolicy(cmd.Context())
			if err != nil {
				fmt.Fprintln(
					cmd.ErrOrStderr(),
					"could not fetch the server's quota policy (keeping the defaults):", err,
				)
			} else {
				p.Quota = &profile.QuotaLimits{
					PerHour: policy.PerHour, PerDay: policy.PerDay,
				}
			}

			if err := p.Save(c.profilePath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "profile written to", c.profilePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiRoot, "api-root", "", "endpoint of picket server")
	cmd.Flags().StringVar(&token, "token", "", "bearer token for this device")
	cmd.MarkFlagRequired("api-root")
	cmd.MarkFlagRequired("token")
	return cmd
}
