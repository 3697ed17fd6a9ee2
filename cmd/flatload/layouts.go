package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLayoutsCmd(a *app) *cobra.Command {
	var fields bool
	cmd := &cobra.Command{
		Use:   "layouts [code...]",
		Short: "Print the record layouts in effect",
		Long: `Print every registered record type with its mode and width, after layout
overrides and relaxed codes from the config are applied. With --fields (or
explicit codes) the field ranges are printed too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			codes := reg.Codes()
			if len(args) > 0 {
				codes, fields = args, true
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			defer tw.Flush()
			for _, c := range codes {
				l, err := reg.Lookup(c)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%d fields\twidth %d\n", l.Code, l.Mode, len(l.Fields), l.MaxWidth())
				if !fields {
					continue
				}
				for _, f := range l.Fields {
					req := ""
					if f.Required() {
						req = "required"
					}
					fmt.Fprintf(tw, "\t%s\t[%d:%d]\t%s\n", f.Name, f.Start, f.End, req)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fields, "fields", false, "print field ranges")
	return cmd
}
