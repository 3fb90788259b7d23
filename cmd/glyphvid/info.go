package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/glyphvid/config"
	"go.jacobcolvin.com/glyphvid/version"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file format",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := config.SchemaJSON()
			if err != nil {
				return err
			}

			_, err = a.stdout.Write(data)
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	})

	return cmd
}

func (a *app) newVersionCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := version.Get()

			var (
				data []byte
				err  error
			)

			switch format {
			case "text":
				data = []byte(info.String() + "\n")
			case "json":
				data, err = json.MarshalIndent(info, "", "  ")
				data = append(data, '\n')
			case "yaml":
				data, err = yaml.Marshal(info)
			default:
				return fmt.Errorf("unknown format %q, one of: text, json, yaml", format)
			}

			if err != nil {
				return fmt.Errorf("encode version: %w", err)
			}

			_, err = a.stdout.Write(data)
			if err != nil {
				return fmt.Errorf("write version: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format, one of: text, json, yaml")

	err := cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions([]string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		panic(err)
	}

	return cmd
}
