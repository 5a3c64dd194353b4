package clickhooks

import (
	"context"
	"strconv"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/hooks"
	"github.com/arthur-debert/clickhooks/pkg/output"
	"github.com/spf13/cobra"
)

func newHookCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hook",
		Short:   MsgHookShort,
		GroupID: "core",
	}
	cmd.AddCommand(newHookActionCmd(opts, "install", MsgHookInstallShort, (*hooks.Hook).Install))
	cmd.AddCommand(newHookActionCmd(opts, "remove", MsgHookRemoveShort, (*hooks.Hook).Remove))
	cmd.AddCommand(newHookActionCmd(opts, "sync", MsgHookSyncShort, (*hooks.Hook).Sync))
	cmd.AddCommand(newHookShowCmd(opts))
	return cmd
}

// newHookActionCmd builds install, remove and sync: apply the action,
// then run the hook's command for every scope it touched.
func newHookActionCmd(opts *rootOptions, use, short string, action func(*hooks.Hook, string) error) *cobra.Command {
	var userName string
	cmd := &cobra.Command{
		Use:               use + " NAME",
		Short:             short,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: hookNamesCompletion(opts),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			h, err := a.engine.Open(args[0])
			if err != nil {
				return err
			}
			errs := []error{action(h, userName)}
			errs = append(errs, runHookCommands(cmd.Context(), a, h, userName)...)
			if err := errors.Join(errs...); err != nil {
				return err
			}
			a.out.Message(MsgDone)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userName, "user", "", MsgFlagUser)
	return cmd
}

// runHookCommands runs h's command once, or once per user for a
// user-level hook applied to every user.
func runHookCommands(ctx context.Context, a *app, h *hooks.Hook, userName string) []error {
	if !h.UserLevel || userName != "" {
		return []error{h.RunCommands(ctx, userName)}
	}
	users, err := a.db.Users()
	if err != nil {
		return []error{err}
	}
	var errs []error
	for _, u := range users {
		errs = append(errs, h.RunCommands(ctx, u))
	}
	return errs
}

type hookInfo struct {
	Name          string `json:"name" yaml:"name"`
	HookName      string `json:"hook_name" yaml:"hook_name"`
	Path          string `json:"path" yaml:"path"`
	Pattern       string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Exec          string `json:"exec,omitempty" yaml:"exec,omitempty"`
	User          string `json:"user,omitempty" yaml:"user,omitempty"`
	UserLevel     bool   `json:"user_level" yaml:"user_level"`
	SingleVersion bool   `json:"single_version" yaml:"single_version"`
}

func newHookInfo(h *hooks.Hook) hookInfo {
	return hookInfo{
		Name:          h.Name,
		HookName:      h.HookName,
		Path:          h.Path,
		Pattern:       h.Pattern,
		Exec:          h.Exec,
		User:          h.User,
		UserLevel:     h.UserLevel,
		SingleVersion: h.SingleVersion,
	}
}

func newHookShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "show NAME",
		Short:             MsgHookShowShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: hookNamesCompletion(opts),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			h, err := a.engine.Open(args[0])
			if err != nil {
				return err
			}
			info := newHookInfo(h)
			return a.out.Render(info, output.Table{
				Header: []string{"FIELD", "VALUE"},
				Rows: [][]string{
					{"Name", info.Name},
					{"Hook-Name", info.HookName},
					{"Path", info.Path},
					{"Pattern", info.Pattern},
					{"Exec", info.Exec},
					{"User", info.User},
					{"User-Level", strconv.FormatBool(info.UserLevel)},
					{"Single-Version", strconv.FormatBool(info.SingleVersion)},
				},
				StateColumn: -1,
			})
		}),
	}
}

// hookNamesCompletion completes hook file names.
func hookNamesCompletion(opts *rootOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		a, err := newApp(cmd, opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		all, err := a.engine.OpenAll("")
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := make([]string, 0, len(all))
		for _, h := range all {
			names = append(names, h.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
