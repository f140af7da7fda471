package cmd

import (
	"fmt"
	"io"
	"strings"

	"cinema-booking-cli/model"

	"github.com/spf13/cobra"
)

func newProfileCmd(a *app) *cobra.Command {
	var update model.ProfileUpdate
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			update.FirstName = strings.TrimSpace(update.FirstName)
			update.LastName = strings.TrimSpace(update.LastName)
			update.Email = strings.TrimSpace(update.Email)

			var user model.User
			var err error
			if update == (model.ProfileUpdate{}) {
				user, err = a.client.GetProfile(cmd.Context())
			} else {
				user, err = a.client.UpdateProfile(cmd.Context(), update)
			}
			if err != nil {
				return err
			}
			renderProfile(cmd.OutOrStdout(), user)
			return nil
		},
	}
	cmd.Flags().StringVar(&update.FirstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&update.LastName, "last-name", "", "new last name")
	cmd.Flags().StringVar(&update.Email, "email", "", "new email address")
	return cmd
}

func renderProfile(out io.Writer, user model.User) {
	fmt.Fprintf(out, "Username: %s\n", user.Username)
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name != "" {
		fmt.Fprintf(out, "Name: %s\n", name)
	}
	if user.Email != "" {
		fmt.Fprintf(out, "Email: %s\n", user.Email)
	}
	if user.IsStaff {
		fmt.Fprintln(out, "Role: staff")
	}
}
