package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"FruitStore/internal/auth"
)

func newUsersCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage stored accounts",
	}
	cmd.AddCommand(newUsersInitCommand(v), newUsersRegisterCommand(v))
	return cmd
}

func newUsersInitCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the default accounts if no account list exists",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			created, err := a.auth.InitializeDefaults(ctx)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(out, "default accounts created")
			} else {
				fmt.Fprintln(out, "account list already present, nothing to do")
			}
			return nil
		}),
	}
}

func newUsersRegisterCommand(v *viper.Viper) *cobra.Command {
	var c auth.Candidate
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a customer account",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			u, err := a.auth.Register(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "registered %s (id %d, %s)\n", u.Username, u.ID, u.Role)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&c.Username, "username", "", "login name")
	f.StringVar(&c.Password, "password", "", "password")
	f.StringVar(&c.FullName, "full-name", "", "display name")
	f.StringVar(&c.Phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
