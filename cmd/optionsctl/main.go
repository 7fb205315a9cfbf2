// Command optionsctl is the operator-facing front end for the
// configuration engine, adapted from cmd/build-config's flag-based
// tool into cobra subcommands: parse an option string into its
// canonical form, diff two option strings, or validate one against
// the lifecycle driver.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mantisdb/optionengine/config"
	"github.com/mantisdb/optionengine/pkg/dboptions"
	"github.com/mantisdb/optionengine/pkg/options"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "optionsctl",
		Short: "Inspect and validate mantisDB database/column-family option strings",
	}
	root.AddCommand(parseCmd(), diffCmd(), validateCmd(), bootCmd())
	return root
}

func bootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "boot",
		Short: "Load the host config and print the compression/checksum/storage-provider option strings it selects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if configPath != "" {
				cfg, err = config.Load(configPath)
			} else {
				cfg = config.Default()
			}
			if err != nil {
				return err
			}
			fmt.Printf("listen: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			fmt.Printf("data_dir: %s\n", cfg.Database.DataDir)
			fmt.Printf("storage_provider: %s\n", cfg.Database.StorageProvider)
			fmt.Printf("compression: %s\n", cfg.Database.Compression)
			fmt.Printf("checksum: %s\n", cfg.Database.Checksum)

			ctx, err := dboptions.NewContext()
			if err != nil {
				return err
			}
			db := dboptions.NewDBOptions()
			if err := db.ConfigureOption(ctx, "storage_provider", cfg.Database.StorageProvider); err != nil {
				return fmt.Errorf("applying database.storage_provider: %w", err)
			}
			fmt.Println("storage provider configured and prepared ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a host config YAML file")
	return cmd
}

func parseCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "parse <option-string>",
		Short: "Parse an option string and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := dboptions.NewContext()
			if err != nil {
				return err
			}
			cfg, err := buildAndConfigure(ctx, group, args[0])
			if err != nil {
				return err
			}
			out, err := cfg.GetOptionString(ctx)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "db", `which option group to parse ("db" or "cf")`)
	return cmd
}

func diffCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "diff <option-string-a> <option-string-b>",
		Short: "Parse two option strings and report the first mismatch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := dboptions.NewContext()
			if err != nil {
				return err
			}
			a, err := buildAndConfigure(ctx, group, args[0])
			if err != nil {
				return err
			}
			b, err := buildAndConfigure(ctx, group, args[1])
			if err != nil {
				return err
			}
			ok, mismatch := a.Matches(ctx, b)
			if ok {
				fmt.Println("options match")
				return nil
			}
			fmt.Printf("mismatch at %s\n", mismatch)
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "db", `which option group to parse ("db" or "cf")`)
	return cmd
}

func validateCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "validate <option-string>",
		Short: "Run PrepareOptions and ValidateOptions over an option string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := dboptions.NewContext()
			if err != nil {
				return err
			}
			cfg, err := buildAndConfigure(ctx, group, args[0])
			if err != nil {
				return err
			}
			if err := cfg.ValidateOptions(ctx); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "db", `which option group to validate ("db" or "cf")`)
	return cmd
}

func buildAndConfigure(ctx options.Context, group, optionString string) (options.Configurable, error) {
	var cfg options.Configurable
	switch group {
	case "db":
		cfg = dboptions.NewDBOptions()
	case "cf":
		cfg = dboptions.NewCFOptions()
	default:
		return nil, options.InvalidArgument("unknown option group %q", group)
	}
	if err := cfg.ConfigureFromString(ctx, optionString); err != nil {
		return nil, err
	}
	return cfg, nil
}
