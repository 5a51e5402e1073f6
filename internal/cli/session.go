package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newLoginCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in and store the current session",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(v, func(ctx context.Context, a *app, out io.Writer, args []string) error {
			s, err := a.auth.Login(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "signed in as %s (%s)\n", s.FullName, s.Role)
			return nil
		}),
	}
}

func newLogoutCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the current session",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			next, err := a.auth.Logout(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "signed out, continue at %s\n", next)
			return nil
		}),
	}
}

func newWhoAmICommand(v *viper.Viper) *cobra.Command {
	var admin bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			if admin {
				acc, err := a.auth.CheckAdminAccess(ctx)
				if err != nil {
					return err
				}
				if !acc.Allowed {
					return fmt.Errorf("%s (redirect to %s)", acc.Notice, acc.Redirect)
				}
			}

			s, ok, err := a.auth.CurrentUser(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "not signed in")
				return nil
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", s.Username, s.FullName, s.Phone, s.Role)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "fail unless the session has admin access")
	return cmd
}
