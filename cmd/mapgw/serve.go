package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sufield/mapgw"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the gateway HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			srv, err := mapgw.Start(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mapgw listening on http://%s\n", srv.Addr())

			<-cmd.Context().Done()
			log.Println("Shutting down gracefully...")
			return srv.Shutdown()
		},
	}
}
