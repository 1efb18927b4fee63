package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sufield/mapgw/internal/debug"
)

type checkResult struct {
	Endpoint  string `json:"endpoint"`
	Engine    string `json:"engine"`
	Installed bool   `json:"installed"`
	Mapscript bool   `json:"mapscript"`
	Version   int    `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that MapServer answers at the configured endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, _, err := buildRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			gw := rt.Gateway
			res := checkResult{
				Endpoint:  gw.Path(),
				Engine:    rt.Engine,
				Mapscript: gw.MapscriptExists(),
			}
			installed, installErr := gw.IsInstalled(cmd.Context())
			res.Installed = installed
			if installErr != nil {
				res.Error = installErr.Error()
			}
			if v, err := gw.Version(cmd.Context()); err == nil {
				res.Version = v
			} else {
				debug.GetLogger().Debugf("engine version unavailable: %v", err)
			}

			out := cmd.OutOrStdout()
			if jsonMode(cmd) {
				if err := printJSON(out, res); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Endpoint:  %s\n", res.Endpoint)
				fmt.Fprintf(out, "Engine:    %s\n", res.Engine)
				fmt.Fprintf(out, "Installed: %t\n", res.Installed)
				fmt.Fprintf(out, "Mapscript: %t\n", res.Mapscript)
				if res.Version != 0 {
					fmt.Fprintf(out, "Version:   %d\n", res.Version)
				}
			}
			return installErr
		},
	}
}
