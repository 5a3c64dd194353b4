package clickhooks

import (
	"os/user"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.engine.Run(cmd.Context()); err != nil {
				return err
			}
			a.out.Message(MsgDone)
			return nil
		}),
	}
}

func newRunSystemCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "run-system",
		Short:   MsgRunSystemShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.engine.RunSystemHooks(cmd.Context()); err != nil {
				return err
			}
			a.out.Message(MsgDone)
			return nil
		}),
	}
}

func newRunUserCmd(opts *rootOptions) *cobra.Command {
	var userName string
	cmd := &cobra.Command{
		Use:     "run-user",
		Short:   MsgRunUserShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			name := userName
			if name == "" {
				current, err := user.Current()
				if err != nil {
					return errors.Wrap(err, errors.ErrNotFound, "cannot determine the current user")
				}
				name = current.Username
			}
			err := errors.Join(
				a.engine.SyncUserHooks(cmd.Context(), name),
				a.engine.RunUserHooks(cmd.Context(), name),
			)
			if err != nil {
				return err
			}
			a.out.Message(MsgDone)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userName, "user", "", MsgFlagUser)
	return cmd
}
