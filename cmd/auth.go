package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"cinema-booking-cli/auth"
	"cinema-booking-cli/model"
	"cinema-booking-cli/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Booking API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := model.Credentials{Username: strings.TrimSpace(username)}
			if creds.Username == "" {
				value, err := promptUsername()
				if err != nil {
					return err
				}
				creds.Username = value
			}
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				creds.Password = strings.TrimRight(line, "\r\n")
			} else {
				value, err := promptPassword()
				if err != nil {
					return err
				}
				creds.Password = value
			}

			pair, err := a.client.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			session, err := auth.NewSession(pair)
			if err != nil {
				return err
			}
			if session.Username == "" {
				session.Username = creds.Username
			}
			if err := store.SaveSession(session); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			a.log.Info("logged in", "username", session.Username)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", session.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.loggedIn {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			user, err := a.client.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s", user.Username)
			if user.Email != "" {
				fmt.Fprintf(out, " <%s>", user.Email)
			}
			if user.IsStaff {
				fmt.Fprint(out, " (staff)")
			}
			fmt.Fprintln(out)
			if !a.session.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Session expires %s\n", a.session.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func promptUsername() (string, error) {
	prompt := promptui.Prompt{
		Label: "Username",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("username is required")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptPassword() (string, error) {
	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}
	return prompt.Run()
}

// confirm asks a yes/no question. promptui returns ErrAbort on "n".
func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
