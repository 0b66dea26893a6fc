package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helmcode/inr-assistant/pkg/admin"
	"github.com/helmcode/inr-assistant/pkg/auth"
	"github.com/helmcode/inr-assistant/pkg/formatter"
)

var (
	adminAs   string
	adminYes  bool
	adminName string
)

func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer registered users",
		Long: `Administrator commands. --as must match the configured administrator email
(ADMIN_EMAIL).

The CLI runs with local operator trust: --as is compared with ADMIN_EMAIL but
not verified against an identity token, and anyone who can read the local
store can already change it. The HTTP admin routes require a verified token.

Examples:
  # List users, newest first
  inr-assistant admin users list --as admin@inr-assistant.app

  # Delete a user and all of their INR data
  inr-assistant admin users delete 3f9c... --as admin@inr-assistant.app --yes`,
	}
	cmd.PersistentFlags().StringVar(&adminAs, "as", "", "Administrator email")

	users := &cobra.Command{
		Use:   "users",
		Short: "Manage user records",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE:  runAdminList,
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user and their INR data",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdminDelete,
	}
	del.Flags().BoolVarP(&adminYes, "yes", "y", false, "Do not ask for confirmation")
	del.Flags().StringVar(&adminName, "name", "", "Name shown in messages (default: looked up)")

	users.AddCommand(list, del)
	cmd.AddCommand(users)
	return cmd
}

func withAdmin(cmd *cobra.Command, fn func(rt *runtime, svc *admin.Service) error) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	st, err := rt.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	svc := admin.New(st, rt.cfg.AdminEmail, rt.log)
	// Local operator trust; unlike the HTTP routes there is no token to verify.
	if err := svc.Authorize(&auth.Identity{Email: adminAs}); err != nil {
		return fmt.Errorf("%w: pass --as with the administrator email", err)
	}
	return fn(rt, svc)
}

func runAdminList(cmd *cobra.Command, args []string) error {
	return withAdmin(cmd, func(rt *runtime, svc *admin.Service) error {
		users, note, err := svc.ListUsers(cmd.Context())
		if err != nil {
			formatter.DisplayNotification(rt.errOut, note)
			return err
		}
		return formatter.DisplayUsers(rt.out, users, outputFormat)
	})
}

func runAdminDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	return withAdmin(cmd, func(rt *runtime, svc *admin.Service) error {
		name := adminName
		if name == "" {
			name = lookupName(cmd, svc, id)
		}

		if !adminYes && !confirm(cmd, fmt.Sprintf(
			"Delete user %q? This removes all of their data and cannot be undone. [y/N] ", name)) {
			fmt.Fprintln(rt.errOut, "Aborted")
			return nil
		}

		note, err := svc.DeleteUser(cmd.Context(), id, name)
		formatter.DisplayNotification(rt.errOut, note)
		return err
	})
}

func lookupName(cmd *cobra.Command, svc *admin.Service, id string) string {
	users, _, err := svc.ListUsers(cmd.Context())
	if err != nil {
		return id
	}
	for _, u := range users {
		if u.ID == id && u.Label() != "" {
			return u.Label()
		}
	}
	return id
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
