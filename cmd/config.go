package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/fl-cli/pkg/config"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the fl configuration file",
	Long: `Manage <root>/` + config.FileName + `.

Every setting is optional; missing keys use the built-in defaults.`,
}

var configInitCmd = &cobra.Command{
	Use:         "init [dir]",
	Short:       "Write a config file with the default settings",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appWorkspace.ConfigPath

		if _, err := os.Stat(path); err == nil && !configInitForce {
			fmt.Println(ui.FormatWarning("Config already exists: " + path))
			fmt.Println(ui.FormatMuted("Use --force to overwrite it"))
			return nil
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Wrote " + path))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:         "show [dir]",
	Short:       "Print the effective configuration",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}

		if ui.IsTerminal(os.Stdout) {
			fmt.Println(ui.FormatMuted("# " + appWorkspace.ConfigPath))
			fmt.Print(highlightSource(config.FileName, string(data)))
			return nil
		}
		fmt.Print(string(data))
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:         "edit [dir]",
	Short:       "Open the config file in $EDITOR",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appWorkspace.ConfigPath

		// Ensure it exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config file not found at %s (run 'fl config init')", path)
		}

		fmt.Println(ui.FormatInfo("Opening config: " + path))

		c := exec.Command(GetPreferredEditor(), path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
}
