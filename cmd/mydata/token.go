package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/mydata-invoicing/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	var userID, role string
	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Genera un Bearer token para la API de administración",
		Example: `  JWT_SECRET=... mydata token --user ops@example.com --role admin`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role != jwt.RoleAdmin && role != jwt.RoleAuditor {
				return fmt.Errorf("rol %q no soportado (admin | auditor)", role)
			}
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			tok, err := jwt.Generate(rt.cfg.JWT.Secret, userID, role, rt.cfg.JWT.Issuer, rt.cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "operator", "identificador del operador (claim user_id)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleAuditor, "rol: admin | auditor")
	return cmd
}
