package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/internal/adapters/httpfetch"
	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/internal/core/ports"
	"github.com/kamal-hamza/fl-cli/internal/core/services"
	"github.com/kamal-hamza/fl-cli/pkg/config"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
	"github.com/kamal-hamza/fl-cli/pkg/workspace"
)

var (
	runSkipExt  []string
	runNoNested bool
	runTimeout  int
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Localize Framer assets in a site directory",
	Long: `Scan every HTML, CSS, JS, MJS and JSON file under dir (default: the
current directory), download each framerusercontent.com asset it references
and rewrite the file to point at the local copy.

Assets are stored as public/assets/<category>/<name>-<hash><ext> and the
URL -> path table is written to public/assets/framer-asset-mappings.json.

Examples:
  fl run                       # Localize the current directory
  fl run ./site                # Localize another directory
  fl run --skip-ext woff2      # Keep fonts on the CDN
  fl run --timeout 30          # Give up on a download after 30s`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationDirArg: "true"},
	RunE:        runLocalize,
}

func init() {
	addLocalizeFlags(runCmd)
}

func addLocalizeFlags(c *cobra.Command) {
	c.Flags().StringSliceVar(&runSkipExt, "skip-ext", nil, "Extensions to leave on the remote host (e.g. woff2,ttf)")
	c.Flags().BoolVar(&runNoNested, "no-nested", false, "Do not localize URLs inside downloaded CSS/JS")
	c.Flags().IntVar(&runTimeout, "timeout", 0, "Per-download timeout in seconds (0 = none)")
}

// applyLocalizeFlags merges command line overrides into the loaded config
func applyLocalizeFlags(cmd *cobra.Command, cfg *config.Config) {
	if len(runSkipExt) > 0 {
		cfg.SkipExtensions = append(cfg.SkipExtensions, config.NormalizeExtensions(runSkipExt)...)
	}
	if runNoNested {
		cfg.FollowNested = false
	}
	if cmd.Flags().Changed("timeout") && runTimeout >= 0 {
		cfg.TimeoutSeconds = runTimeout
	}
}

func runLocalize(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	applyLocalizeFlags(cmd, appConfig)

	if err := lockWorkspace(); err != nil {
		return err
	}
	defer appWorkspace.Unlock()

	if !quietFlag {
		fmt.Println(ui.FormatRocket("Localizing " + appWorkspace.RootPath))
		fmt.Println(ui.FormatMuted("Hosts: " + strings.Join(appConfig.Hosts, ", ")))
		fmt.Println()
	}

	localizer := newLocalizeService(newConsoleReporter(os.Stdout, os.Stderr, appWorkspace.RootPath, quietFlag))
	resp, err := localizer.Execute(ctx, services.LocalizeRequest{})
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println()
			fmt.Println(ui.FormatWarning("Interrupted; mapping file not written"))
		}
		return err
	}

	printSummary(resp)
	return nil
}

// lockWorkspace takes the run lock and explains a conflict
func lockWorkspace() error {
	if err := appWorkspace.Lock(); err != nil {
		if errors.Is(err, workspace.ErrLocked) {
			fmt.Println(ui.FormatError("Another fl run is using " + appWorkspace.RootPath))
			fmt.Println(ui.FormatMuted("Lock file: " + appWorkspace.LockPath()))
		}
		return err
	}
	return nil
}

// newLocalizeService wires the services for one process
func newLocalizeService(rep ports.Reporter) *services.LocalizeService {
	cfg := appConfig

	fetcher := httpfetch.NewHTTPFetcher(time.Duration(cfg.TimeoutSeconds)*time.Second, cfg.UserAgent)
	downloader := services.NewDownloadService(fetcher, mappingRepo, appWorkspace, newClassifier(cfg), rep, services.DownloadOptions{
		HashLength:     cfg.HashLength,
		ChunkSize:      cfg.ChunkSize,
		SkipExtensions: cfg.SkipExtensions,
	})
	if cfg.Progress && !quietFlag && ui.IsTerminal(os.Stderr) {
		downloader.WithProgress(ui.NewDownloadProgress(os.Stderr))
	}

	return services.NewLocalizeService(
		appWorkspace,
		services.NewURLExtractor(cfg.Hosts),
		downloader,
		mappingRepo,
		rep,
		services.WalkOptions{
			Extensions:   cfg.Extensions,
			SkipDirs:     cfg.SkipDirs,
			Exclude:      cfg.Exclude,
			FollowNested: cfg.FollowNested,
		},
	)
}

// newClassifier converts the configured category table
func newClassifier(cfg *config.Config) *domain.Classifier {
	rules := make([]domain.CategoryRule, 0, len(cfg.Categories))
	for _, r := range cfg.Categories {
		rules = append(rules, domain.CategoryRule{
			Category:   domain.ParseCategory(r.Name),
			Extensions: r.Extensions,
			Keywords:   r.Keywords,
		})
	}
	return domain.NewClassifier(rules)
}

func printSummary(resp *services.LocalizeResponse) {
	fmt.Println()
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Localized %d assets (%s) in %s",
		resp.Downloaded, ui.FormatBytes(resp.Bytes), resp.Duration.Round(time.Millisecond))))

	if quietFlag {
		return
	}

	fmt.Println(ui.RenderKeyValue("  Files scanned", strconv.Itoa(resp.FilesScanned)))
	fmt.Println(ui.RenderKeyValue("  Files rewritten", strconv.Itoa(resp.FilesRewritten)))
	fmt.Println(ui.RenderKeyValue("  URLs found", strconv.Itoa(resp.URLsFound)))
	if resp.Skipped > 0 {
		fmt.Println(ui.RenderKeyValue("  Skipped", strconv.Itoa(resp.Skipped)))
	}
	if resp.Failed > 0 {
		fmt.Println(ui.RenderKeyValue("  Failed", ui.StyleError.Render(strconv.Itoa(resp.Failed))))
	}
	fmt.Println(ui.FormatMuted("Mappings: " + appWorkspace.MappingPath))
}
