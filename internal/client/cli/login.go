package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session and save its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = GetSimpleText(a.reader, "Username", a.out); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("password") {
				if password, err = GetPassword(a.out); err != nil {
					return err
				}
			}
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}

			c, err := a.dial(a.config.ServerAddr)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()

			token, p, err := c.Login(ctx, username, password)
			if err != nil {
				return explain(err)
			}
			if err := writeToken(a.config.TokenFile, token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}

			fmt.Fprintf(a.out, "Logged in as %s (%s, %s)\n", p.Name, p.Username, p.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "password; prompted when omitted")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := removeToken(a.config.TokenFile); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}
