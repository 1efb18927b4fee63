package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sufield/mapgw/internal/domain"
)

func newMapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Create, inspect and render maps",
	}
	cmd.AddCommand(
		newMapCreateCommand(),
		newMapListCommand(),
		newMapCapabilitiesCommand(),
		newMapRenderCommand(),
	)
	return cmd
}

func newMapCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a map in the storage path, or refresh an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := domain.ValidateMapName(name); err != nil {
				return err
			}
			rt, _, err := buildRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			storage := rt.Gateway.StoragePath()
			mapfilePath, templatePath := domain.StorageFiles(storage, name)
			if v, _ := cmd.Flags().GetString("mapfile"); v != "" {
				mapfilePath = v
			}
			if v, _ := cmd.Flags().GetString("template"); v != "" {
				templatePath = v
			}
			if err := os.MkdirAll(filepath.Dir(mapfilePath), 0o755); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrConfigWriteFailed, err)
			}

			m, err := rt.Gateway.CreateMap(cmd.Context(), name, mapfilePath, templatePath)
			if err != nil {
				return err
			}
			rec, err := domain.NewMapRecord(name, mapfilePath, templatePath)
			if err != nil {
				return err
			}
			stored, err := rt.Registry.Put(cmd.Context(), *rec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonMode(cmd) {
				return printJSON(out, map[string]string{
					"id":              stored.ID,
					"name":            stored.Name,
					"mapfile":         stored.MapfilePath,
					"template":        stored.TemplatePath,
					"online_resource": m.MetaData("wms_onlineresource"),
				})
			}
			fmt.Fprintf(out, "Created map %s\n", stored.Name)
			fmt.Fprintf(out, "  Mapfile:  %s\n", stored.MapfilePath)
			fmt.Fprintf(out, "  Template: %s\n", stored.TemplatePath)
			return nil
		},
	}
	cmd.Flags().String("mapfile", "", "mapfile path (default <storage>/<name>.map)")
	cmd.Flags().String("template", "", "template path (default <storage>/<name>.html)")
	return cmd
}

func newMapListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, _, err := buildRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			records, err := rt.Registry.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonMode(cmd) {
				return printJSON(out, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No maps registered")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMAPFILE\tUPDATED")
			for _, rec := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.Name, rec.MapfilePath, rec.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}
}

func newMapCapabilitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capabilities <name>",
		Short: "Print the WMS GetCapabilities document of a registered map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := buildRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			rec, err := rt.Registry.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m, err := rt.Gateway.OpenMap(cmd.Context(), rec.Name, rec.MapfilePath, rec.TemplatePath)
			if err != nil {
				return err
			}
			resp, err := rt.Gateway.CapabilitiesResponse(cmd.Context(), m)
			if err != nil {
				return err
			}
			return writeOutput(cmd, resp.Body)
		},
	}
	cmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	return cmd
}

func newMapRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a registered map into the image path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cfg, err := buildRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			rec, err := rt.Registry.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m, err := rt.Gateway.OpenMap(cmd.Context(), rec.Name, rec.MapfilePath, rec.TemplatePath)
			if err != nil {
				return err
			}
			resp, err := rt.Gateway.ImageResponse(cmd.Context(), m, cfg.Images.Path, cfg.Images.URL)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetString("output"); v != "" {
				return writeOutput(cmd, resp.Body)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s (%s, %d bytes)\n",
				filepath.Join(cfg.Images.Path, m.Name()), resp.Header.Get("Content-Type"), len(resp.Body))
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "also copy the image to this file")
	return cmd
}

// writeOutput writes data to --output, or to stdout when it is empty.
func writeOutput(cmd *cobra.Command, data []byte) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - output is a user-requested artifact
		return fmt.Errorf("%w: %w", domain.ErrFileIOFailed, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
