package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MrJamesThe3rd/cashtrack/internal/auth"
	"github.com/MrJamesThe3rd/cashtrack/internal/profile"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to the Cashtrack API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := "signed out"
			if ledgerApp.Auth.Authenticated() {
				state = "signed in"
			}

			if ledgerApp.Auth.IsMock() {
				state += " (mock auth)"
			}

			fmt.Fprintln(cmd.OutOrStdout(), state)

			return nil
		},
	}

	cmd.PersistentFlags().String("email", "", "account email")

	login := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")

			password, err := readSecret(cmd, "password", "Password: ")
			if err != nil {
				return err
			}

			return reply(cmd.OutOrStdout(), "Logged in.")(ledgerApp.Auth.Login(cmd.Context(), email, password))
		},
	}
	login.Flags().String("password", "", "password (prompted when omitted)")

	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")

			password, err := readSecret(cmd, "password", "Password: ")
			if err != nil {
				return err
			}

			return reply(cmd.OutOrStdout(), "Registered.")(ledgerApp.Auth.Register(cmd.Context(), email, password, name))
		},
	}
	register.Flags().String("name", "", "business name")
	register.Flags().String("password", "", "password (prompted when omitted)")

	verify := &cobra.Command{
		Use:   "verify CODE",
		Short: "Verify the account email with the code that was sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			return reply(cmd.OutOrStdout(), "Email verified.")(ledgerApp.Auth.VerifyEmail(cmd.Context(), email, args[0]))
		},
	}

	forgot := &cobra.Command{
		Use:   "forgot",
		Short: "Request a password reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			return reply(cmd.OutOrStdout(), "Reset code sent.")(ledgerApp.Auth.ForgotPassword(cmd.Context(), email))
		},
	}

	reset := &cobra.Command{
		Use:   "reset CODE",
		Short: "Set a new password with a reset code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")

			password, err := readSecret(cmd, "password", "New password: ")
			if err != nil {
				return err
			}

			return reply(cmd.OutOrStdout(), "Password reset.")(ledgerApp.Auth.ResetPassword(cmd.Context(), email, args[0], password))
		},
	}
	reset.Flags().String("password", "", "new password (prompted when omitted)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ledgerApp.Auth.Logout(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")

			return nil
		},
	}

	cmd.AddCommand(login, register, verify, forgot, reset, logout)

	return cmd
}

// reply prints the server's message, or fallback when it sent none.
func reply(w io.Writer, fallback string) func(auth.Response, error) error {
	return func(resp auth.Response, err error) error {
		if err != nil {
			return err
		}

		msg := resp.Message()
		if msg == "" {
			msg = fallback
		}

		fmt.Fprintln(w, msg)

		return nil
	}
}

// readSecret returns the flag value, or prompts for it without echo when
// stdin is a terminal.
func readSecret(cmd *cobra.Command, flag, prompt string) (string, error) {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	defer fmt.Fprintln(cmd.ErrOrStderr())

	if f, ok := cmd.InOrStdin().(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", flag, err)
		}

		return string(secret), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading %s: %w", flag, err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the business profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cached, _ := cmd.Flags().GetBool("cached")

			p := ledgerApp.State.Profile()
			if !cached {
				var err error
				if p, err = ledgerApp.Profiles.Fetch(cmd.Context()); err != nil {
					return err
				}
			}

			if p == nil {
				return fmt.Errorf("no profile loaded; run without --cached while signed in")
			}

			printProfile(cmd.OutOrStdout(), p)

			return nil
		},
	}
	cmd.Flags().Bool("cached", false, "show the locally stored copy without calling the server")

	set := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := &profile.Profile{}
			if cached := ledgerApp.State.Profile(); cached != nil {
				copied := *cached
				p = &copied
			}

			for flag, field := range map[string]*string{
				"business-name": &p.BusinessName,
				"business-type": &p.BusinessType,
				"email":         &p.Email,
			} {
				if cmd.Flags().Changed(flag) {
					*field, _ = cmd.Flags().GetString(flag)
				}
			}

			saved, err := ledgerApp.Profiles.Save(cmd.Context(), p)
			if err != nil {
				return err
			}

			printProfile(cmd.OutOrStdout(), saved)

			return nil
		},
	}
	set.Flags().String("business-name", "", "business name")
	set.Flags().String("business-type", "", "business type")
	set.Flags().String("email", "", "contact email")

	cmd.AddCommand(set)

	return cmd
}

func printProfile(w io.Writer, p *profile.Profile) {
	rows := [][]string{
		{"Business name", p.BusinessName},
		{"Business type", p.BusinessType},
		{"Email", p.Email},
	}

	for key, raw := range p.Extra {
		rows = append(rows, []string{key, string(raw)})
	}

	printTable(w, []string{"Field", "Value"}, rows)
}
