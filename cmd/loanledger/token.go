package main

import (
	"errors"
	"fmt"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/service"

	"github.com/spf13/cobra"
)

func tokenCmd(cfgPath func() string) *cobra.Command {
	var (
		memberID string
		email    string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a member or staff account",
		Long: `Sign a JWT with the configured secret. Member sign-in lives outside
the ledger; this is for operators and local testing.

Examples:
  loanledger token --member M-1001 --email ana@coop.example
  loanledger token --member S-01 --role staff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cfgPath())
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is not configured")
			}

			r := domain.Role(role)
			if r != domain.RoleMember && r != domain.RoleStaff {
				return fmt.Errorf("unknown role %q", role)
			}

			tokens := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
			tok, expiresAt, err := tokens.Generate(domain.MemberContext{
				MemberID: memberID,
				Email:    email,
				Role:     r,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&memberID, "member", "m", "", "member or staff id")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email claim")
	cmd.Flags().StringVarP(&role, "role", "r", string(domain.RoleMember), "member or staff")
	_ = cmd.MarkFlagRequired("member")

	return cmd
}
