package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/backoffice-api/internal/app"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/validator"
)

// CreateUserOptions flags de create-user.
type CreateUserOptions struct {
	*RootOptions
	Email    string
	Password string
	Name     string
	Role     string
}

// NewCreateUserCommand crea un usuario sin pasar por la API (primer admin).
func NewCreateUserCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateUserOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Crea un usuario del back-office",
		Example: `  backoffice create-user --email admin@local --password secreto123 --role admin
  backoffice create-user --email caja@local --password secreto123 --name "Caja 1"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateUser(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "email del usuario")
	cmd.Flags().StringVar(&opts.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "nombre visible")
	cmd.Flags().StringVar(&opts.Role, "role", entity.RoleEmpleado, "rol (admin|empleado)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func runCreateUser(opts *CreateUserOptions, cmd *cobra.Command) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	req := dto.CreateUserRequest{
		Email:    opts.Email,
		Password: opts.Password,
		Name:     opts.Name,
		Role:     opts.Role,
	}
	if err := validator.Struct(req); err != nil {
		return err
	}
	return withContainer(cmd.Context(), opts.RootOptions, func(c *app.Container) error {
		user, err := c.Auth.RegisterUser(cmd.Context(), req)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), opts.Format, user, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "usuario creado: %s (%s) id=%s\n", user.Email, user.Role, user.ID)
			return err
		})
	})
}
