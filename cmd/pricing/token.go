package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/catalog-pricing/pkg/auth"
	"github.com/angelmondragon/catalog-pricing/pkg/enums"
)

func newTokenCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the admin HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			rawRole, _ := cmd.Flags().GetString("role")
			role, err := enums.ParseActorRole(rawRole)
			if err != nil {
				return err
			}
			token, err := auth.MintAccessToken(rt.cfg.JWT, time.Now(), auth.AccessTokenPayload{
				Subject: subject,
				Role:    role,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().String("subject", "pricing-cli", "Token subject")
	cmd.Flags().String("role", string(enums.ActorRoleAdmin), "Actor role (admin|operator)")
	return cmd
}
