package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the inference runtime and weights are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.newManager()
			if err != nil {
				return err
			}
			rep := mgr.SanityCheck()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
			if !rep.DNNBuilt || !rep.ModelFound {
				return errors.New("runtime not usable")
			}
			return nil
		},
	}
}
