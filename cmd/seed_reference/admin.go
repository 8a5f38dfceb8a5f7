package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var validRoles = map[string]bool{"admin": true, "bodeguero": true, "vendedor": true}

func newAdminCmd() *cobra.Command {
	var email, password, name, role string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Imprime el INSERT de un usuario con su password hasheado (bcrypt)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeUserSQL(cmd.OutOrStdout(), email, password, name, role)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del usuario (requerido)")
	cmd.Flags().StringVar(&password, "password", "", "password en claro, mínimo 8 caracteres (requerido)")
	cmd.Flags().StringVar(&name, "name", "Administrador", "nombre visible")
	cmd.Flags().StringVar(&role, "role", "admin", "admin | bodeguero | vendedor")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func writeUserSQL(w io.Writer, email, password, name, role string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("email inválido: %q", email)
	}
	if len(password) < 8 {
		return fmt.Errorf("password debe tener al menos 8 caracteres")
	}
	if !validRoles[role] {
		return fmt.Errorf("rol desconocido %q (admin, bodeguero, vendedor)", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashear password: %w", err)
	}
	_, err = fmt.Fprintf(w,
		"INSERT INTO users (email, password_hash, name, role, status)\nVALUES ('%s', '%s', '%s', '%s', 'active')\nON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role;\n",
		escapeSQL(email), escapeSQL(string(hash)), escapeSQL(name), role)
	return err
}
