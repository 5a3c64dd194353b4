package clickhooks

import (
	"fmt"

	"github.com/arthur-debert/clickhooks/pkg/output"
	"github.com/spf13/cobra"
)

type linkInfo struct {
	Package string `json:"package" yaml:"package"`
	Version string `json:"version" yaml:"version"`
	App     string `json:"app" yaml:"app"`
	User    string `json:"user,omitempty" yaml:"user,omitempty"`
	Path    string `json:"path" yaml:"path"`
	Target  string `json:"target" yaml:"target"`
	State   string `json:"state" yaml:"state"`
	Actual  string `json:"actual,omitempty" yaml:"actual,omitempty"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var userName string
	cmd := &cobra.Command{
		Use:               "status NAME",
		Short:             MsgStatusShort,
		GroupID:           "inspect",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: hookNamesCompletion(opts),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			h, err := a.engine.Open(args[0])
			if err != nil {
				return err
			}
			statuses, err := h.Status(userName)
			if err != nil && len(statuses) == 0 {
				return err
			}

			infos := make([]linkInfo, 0, len(statuses))
			table := output.Table{
				Header:      []string{"APP", "LINK", "STATE"},
				StateColumn: 2,
				Empty:       fmt.Sprintf(MsgNoLinks, h.Name),
			}
			for _, s := range statuses {
				info := linkInfo{
					Package: s.App.Package,
					Version: s.App.Version,
					App:     s.App.App,
					User:    s.App.User,
					Path:    s.Path,
					Target:  s.Target,
					State:   string(s.State),
					Actual:  s.Actual,
				}
				infos = append(infos, info)
				table.Rows = append(table.Rows, []string{
					fmt.Sprintf("%s_%s_%s", info.Package, info.App, info.Version),
					info.Path,
					info.State,
				})
			}
			if rerr := a.out.Render(infos, table); rerr != nil {
				return rerr
			}
			return err
		}),
	}
	cmd.Flags().StringVar(&userName, "user", "", MsgFlagUser)
	return cmd
}
