package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"flatload/internal/config"
)

func newValidateCmd(a *app) *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the resolved configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			issues := config.Validate(a.cfg)
			for _, iss := range issues {
				fmt.Fprintf(a.out, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			}
			if config.HasErrors(issues) {
				return errors.New("configuration is invalid")
			}
			if _, err := a.registry(); err != nil {
				return errors.Wrap(err, "layouts")
			}
			if show {
				b, err := config.Marshal(redacted(a.cfg))
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(b))
			}
			fmt.Fprintln(a.out, "configuration is valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "print", false, "print the resolved configuration (DSN redacted)")
	return cmd
}

// redacted hides the DSN, which usually carries a password.
func redacted(c config.Config) config.Config {
	if c.Storage.DSN != "" {
		c.Storage.DSN = "REDACTED"
	}
	return c
}
