package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/tapd/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the tapd configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented starter configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.WriteExample(cfgFile); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", cfgFile)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(cfgFile)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := os.ReadFile(cfgFile)
		if err != nil {
			return err
		}
		cmd.Print(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configPathCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
