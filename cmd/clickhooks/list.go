package clickhooks

import (
	"github.com/arthur-debert/clickhooks/pkg/output"
	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			all, err := a.engine.OpenAll("")
			if err != nil {
				return err
			}
			infos := make([]hookInfo, 0, len(all))
			table := output.Table{
				Header:      []string{"NAME", "HOOK-NAME", "SCOPE", "PATTERN", "EXEC"},
				StateColumn: -1,
				Empty:       MsgNoHooks,
			}
			for _, h := range all {
				info := newHookInfo(h)
				infos = append(infos, info)
				scope := "system"
				if info.UserLevel {
					scope = "user"
				}
				if info.SingleVersion {
					scope += ", single-version"
				}
				table.Rows = append(table.Rows, []string{info.Name, info.HookName, scope, info.Pattern, info.Exec})
			}
			return a.out.Render(infos, table)
		}),
	}
}
