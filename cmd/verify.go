package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/internal/core/services"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Check that no remote asset references remain",
	Long: `Scan the site for references to the configured hosts that a run left
behind, and check that every asset in the mapping file exists on disk.

HTML files are tokenized so each leftover is reported with the tag and
attribute it sits in. Downloaded CSS and JS under public/assets are
checked too.

Exits with an error when anything is found, so it can gate a deploy.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	RunE:        runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	localizer := newLocalizeService(newConsoleReporter(io.Discard, os.Stderr, appWorkspace.RootPath, true))
	verifier := services.NewVerifyService(localizer, services.NewURLExtractor(appConfig.Hosts), mappingRepo)

	resp, err := verifier.Execute(ctx)
	if err != nil {
		return err
	}

	if len(resp.Residuals) == 0 && len(resp.MissingAssets) == 0 {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Checked %d files, no remote references left", resp.FilesChecked)))
		return nil
	}

	if len(resp.Residuals) > 0 {
		fmt.Println(ui.FormatWarning(strconv.Itoa(len(resp.Residuals)) + " remote references remain"))
		fmt.Println()

		table := ui.NewTable([]ui.TableColumn{
			{Header: "FILE", MaxWidth: 40},
			{Header: "WHERE"},
			{Header: "URL", MaxWidth: 72},
		})
		for _, r := range resp.Residuals {
			table.AddRow([]string{relToRoot(r.Path), r.Where, r.URL})
		}
		fmt.Print(table.Render())
		fmt.Println()
	}

	if len(resp.MissingAssets) > 0 {
		fmt.Println(ui.FormatWarning(strconv.Itoa(len(resp.MissingAssets)) + " mapped assets are missing on disk"))
		items := make([]string, 0, len(resp.MissingAssets))
		for _, rec := range resp.MissingAssets {
			items = append(items, rec.LocalPath+ui.StyleSubtle.Render("  "+rec.URL))
		}
		fmt.Print(ui.RenderSimpleList(items))
		fmt.Println(ui.FormatMuted("Run 'fl' again to download them"))
		fmt.Println()
	}

	return fmt.Errorf("verification failed: %d residual references, %d missing assets",
		len(resp.Residuals), len(resp.MissingAssets))
}
