package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/pkg/ui"
)

var cleanForce bool

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove downloaded assets and the mapping file",
	Long: `Delete public/assets/<category>/ and the mapping file.

Rewritten sources are NOT restored: they keep pointing at /assets/...
Re-export from Framer first if you want to start over.

Examples:
  fl clean           # Asks for confirmation
  fl clean -f        # No questions`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	RunE:        runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanForce, "force", "f", false, "Skip confirmation")
}

func runClean(cmd *cobra.Command, args []string) error {
	if !cleanForce {
		fmt.Println(ui.FormatWarning("This removes every downloaded asset under " + appWorkspace.AssetsPath))
		fmt.Println(ui.FormatMuted("Sources that point at them are left as they are."))
		if !confirm(os.Stdin, "Continue?") {
			fmt.Println(ui.FormatInfo("Clean cancelled."))
			return nil
		}
	}

	if err := lockWorkspace(); err != nil {
		return err
	}
	defer appWorkspace.Unlock()

	fmt.Print(ui.StyleWarning.Render("Removing assets... "))
	if err := appWorkspace.Clean(); err != nil {
		fmt.Println(ui.FormatError("Failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Done"))
	return nil
}
