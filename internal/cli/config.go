package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/issuewatch/issuewatch/internal/config"
)

var validateConfigPath string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configTemplateCmd)
	configValidateCmd.Flags().StringVar(&validateConfigPath, "config", "", "Path to config YAML (defaults to environment variables)")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration tooling",
	Long:  "Validate a configuration, print the JSON schema, or emit a starter template.",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration and report every issue",
	Long:  "Checks the given config file (or the environment when no file is given)\nand prints all validation issues with remediation suggestions.",
	RunE:  runConfigValidate,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(string(config.JSONSchema()))
	},
}

var configTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print an example configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(string(config.Template()))
	},
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	var cfg config.Config

	if validateConfigPath != "" {
		data, err := os.ReadFile(validateConfigPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		if err := config.ValidateStrict(&cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		if _, err := config.FromEnv(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fmt.Println("configuration is valid")
	return nil
}
