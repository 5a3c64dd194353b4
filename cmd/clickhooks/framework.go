package clickhooks

import (
	"fmt"

	"github.com/arthur-debert/clickhooks/pkg/framework"
	"github.com/arthur-debert/clickhooks/pkg/output"
	"github.com/spf13/cobra"
)

func newFrameworkCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "framework",
		Short:   MsgFrameworkShort,
		GroupID: "inspect",
	}
	cmd.AddCommand(newFrameworkListCmd(opts))
	cmd.AddCommand(newFrameworkValidateCmd(opts))
	return cmd
}

func newFrameworkListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgFrameworkListShort,
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			catalog := a.engine.Frameworks()
			names, err := catalog.List()
			if err != nil {
				return err
			}
			descriptors := make([]*framework.Descriptor, 0, len(names))
			table := output.Table{
				Header:      []string{"NAME", "BASE-NAME", "BASE-VERSION"},
				StateColumn: -1,
				Empty:       fmt.Sprintf(MsgNoFrameworks, catalog.Dir()),
			}
			for _, name := range names {
				d, err := catalog.Descriptor(name)
				if err != nil {
					return err
				}
				descriptors = append(descriptors, d)
				table.Rows = append(table.Rows, []string{d.Name, d.BaseName, d.BaseVersion})
			}
			return a.out.Render(descriptors, table)
		}),
	}
}

func newFrameworkValidateCmd(opts *rootOptions) *cobra.Command {
	var ignoreMissing bool
	cmd := &cobra.Command{
		Use:   "validate PACKAGE VERSION",
		Short: MsgFrameworkValidShort,
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.engine.ValidateFrameworks(args[0], args[1], ignoreMissing); err != nil {
				return err
			}
			a.out.Message(MsgFrameworksValid, args[0], args[1])
			return nil
		}),
	}
	cmd.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, MsgFlagIgnoreMissing)
	return cmd
}
