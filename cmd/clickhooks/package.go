package clickhooks

import (
	"github.com/spf13/cobra"
)

func newPackageCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "package",
		Short:   MsgPackageShort,
		GroupID: "core",
	}
	cmd.AddCommand(newPackageInstallHooksCmd(opts))
	cmd.AddCommand(newPackageRemoveHooksCmd(opts))
	return cmd
}

func newPackageInstallHooksCmd(opts *rootOptions) *cobra.Command {
	var oldVer, userName string
	cmd := &cobra.Command{
		Use:   "install-hooks PACKAGE NEW",
		Short: MsgPackageInstallShort,
		Long:  MsgPackageInstallLong,
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.engine.PackageInstallHooks(cmd.Context(), args[0], oldVer, args[1], userName); err != nil {
				return err
			}
			a.out.Message(MsgDone)
			return nil
		}),
	}
	cmd.Flags().StringVar(&oldVer, "old", "", MsgFlagOldVer)
	cmd.Flags().StringVar(&userName, "user", "", MsgFlagUser)
	return cmd
}

func newPackageRemoveHooksCmd(opts *rootOptions) *cobra.Command {
	var userName string
	cmd := &cobra.Command{
		Use:   "remove-hooks PACKAGE VERSION",
		Short: MsgPackageRemoveShort,
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.engine.PackageRemoveHooks(cmd.Context(), args[0], args[1], userName); err != nil {
				return err
			}
			a.out.Message(MsgDone)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userName, "user", "", MsgFlagUser)
	return cmd
}
