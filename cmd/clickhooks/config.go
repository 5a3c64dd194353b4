package clickhooks

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "inspect",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			data, err := a.cfg.MarshalTOML()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, src := range a.cfg.Sources {
				fmt.Fprintf(w, MsgConfigSource+"\n", src)
			}
			_, err = w.Write(data)
			return err
		}),
	}
}
