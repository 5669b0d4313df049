package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stratint/outlook/app/render"
)

func topicsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the topic catalogue and the selectable countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := render.Topics(out, a.cfg.Topics); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nCountries: %s (default %s)\n", strings.Join(a.cfg.Countries, ", "), a.cfg.DefaultCountry)
			return nil
		},
	}
}
