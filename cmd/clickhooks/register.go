package clickhooks

import (
	"github.com/arthur-debert/clickhooks/pkg/db"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/spf13/cobra"
)

// registrationScope picks the user a register or unregister acts for.
func registrationScope(userName string, allUsers bool) (string, error) {
	switch {
	case allUsers && userName != "":
		return "", errors.New(errors.ErrInvalidInput, "--user and --all-users are mutually exclusive")
	case allUsers:
		return db.AllUsers, nil
	case userName == "":
		return "", errors.New(errors.ErrInvalidInput, "need --user or --all-users")
	}
	return userName, nil
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var userName string
	var allUsers bool
	cmd := &cobra.Command{
		Use:     "register PACKAGE VERSION",
		Short:   MsgRegisterShort,
		Long:    MsgRegisterLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			user, err := registrationScope(userName, allUsers)
			if err != nil {
				return err
			}
			if err := a.engine.Register(cmd.Context(), args[0], args[1], user); err != nil {
				return err
			}
			a.out.Message(MsgDone)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userName, "user", "", MsgFlagRegisterUser)
	cmd.Flags().BoolVar(&allUsers, "all-users", false, MsgFlagAllUsers)
	return cmd
}

func newUnregisterCmd(opts *rootOptions) *cobra.Command {
	var userName string
	var allUsers bool
	cmd := &cobra.Command{
		Use:     "unregister PACKAGE [VERSION]",
		Short:   MsgUnregisterShort,
		GroupID: "core",
		Args:    cobra.RangeArgs(1, 2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			user, err := registrationScope(userName, allUsers)
			if err != nil {
				return err
			}
			var ver string
			if len(args) > 1 {
				ver = args[1]
			}
			if err := a.engine.Unregister(cmd.Context(), args[0], ver, user); err != nil {
				return err
			}
			a.out.Message(MsgDone)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userName, "user", "", MsgFlagRegisterUser)
	cmd.Flags().BoolVar(&allUsers, "all-users", false, MsgFlagAllUsers)
	return cmd
}
