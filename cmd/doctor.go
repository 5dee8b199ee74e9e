package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/internal/core/services"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
	"github.com/kamal-hamza/fl-cli/pkg/workspace"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [dir]",
	Short: "Check the health of a site directory",
	Long: `Diagnose issues with a site before or after localizing it.

Checks for:
  - Site, public and assets directories
  - Mapping file integrity
  - Configuration file and hosts
  - A stale or active run lock
  - Mapped assets missing on disk`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	Run:         runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	ctx := getContext()

	fmt.Println(ui.FormatTitle("FL Doctor"))
	fmt.Println()

	// 1. Check site structure
	checkStep("Site Directory", func() error {
		if !appWorkspace.Exists() {
			return fmt.Errorf("not found at %s", appWorkspace.RootPath)
		}
		return nil
	})

	checkStep("Public Directory", func() error {
		if _, err := os.Stat(appWorkspace.PublicPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (created on first run)", appWorkspace.PublicPath)
		}
		return nil
	})

	checkStep("Assets Directory", func() error {
		if _, err := os.Stat(appWorkspace.AssetsPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (created on first run)", appWorkspace.AssetsPath)
		}
		return nil
	})

	checkStep("Mapping File", func() error {
		if _, err := os.Stat(appWorkspace.MappingPath); os.IsNotExist(err) {
			return fmt.Errorf("missing (written by the next run)")
		}
		return mappingRepo.Load(ctx)
	})

	// 2. Check config
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appWorkspace.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (using defaults)", appWorkspace.ConfigPath)
		}
		return nil
	})

	checkStep("Hosts", func() error {
		if len(appConfig.Hosts) == 0 {
			return fmt.Errorf("no hosts configured, nothing will be localized")
		}
		return nil
	})

	checkStep("Run Lock", func() error {
		if err := appWorkspace.Lock(); err != nil {
			if errors.Is(err, workspace.ErrLocked) {
				return fmt.Errorf("held by another fl process (%s)", appWorkspace.LockPath())
			}
			return err
		}
		return appWorkspace.Unlock()
	})

	fmt.Println()
	fmt.Println(ui.FormatInfo("Checking downloaded assets..."))

	checkStep("Asset Files", func() error {
		resp, err := services.NewReportService(mappingRepo).Execute(ctx)
		if err != nil {
			return err
		}
		missing := 0
		for _, c := range resp.Categories {
			missing += c.Missing
		}
		if missing > 0 {
			return fmt.Errorf("%d of %d mapped assets missing (run 'fl' again)", missing, resp.TotalCount)
		}
		return nil
	})
}

// checkStep runs a check function and prints the result
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
