package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/internal/adapters/repository"
	"github.com/kamal-hamza/fl-cli/pkg/config"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
	"github.com/kamal-hamza/fl-cli/pkg/workspace"
)

// annotationDirArg marks commands whose optional first argument is the site root
const annotationDirArg = "dir-arg"

var (
	// Global workspace and configuration
	appWorkspace *workspace.Workspace
	appConfig    *config.Config

	// Repositories
	mappingRepo *repository.FileMappingRepository

	// Global flags
	configFlag string
	quietFlag  bool

	appCtx = context.Background()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fl",
	Short: "FL - Framer asset localizer",
	Long: ui.StyleTitle.Render("FL") + " - Framer Asset Localizer\n\n" +
		"Downloads every asset a Framer export pulls from framerusercontent.com,\n" +
		"sorts it into public/assets/<category>/ and rewrites the sources to use\n" +
		"the local copies.\n\n" +
		"Running 'fl' without a command localizes the current directory.",
	Args:              cobra.NoArgs,
	PersistentPreRunE: initializeApp,
	RunE:              runLocalize,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	appCtx = ctx

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mappingsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default <root>/"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only print errors and the final summary")

	addLocalizeFlags(rootCmd)
}

// initializeApp loads the configuration and opens the workspace
func initializeApp(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	root := "."
	if cmd.Annotations[annotationDirArg] == "true" && len(args) > 0 {
		root = args[0]
	}

	cfgPath := configFlag
	if cfgPath == "" {
		cfgPath = filepath.Join(root, config.FileName)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	ws, err := workspace.New(root, cfg)
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}
	if !ws.Exists() {
		fmt.Println(ui.FormatError("Site root not found: " + ws.RootPath))
		return fmt.Errorf("site root %s does not exist", ws.RootPath)
	}
	if configFlag != "" {
		ws.ConfigPath = configFlag
	}
	appWorkspace = ws

	// Initialize repositories
	mappingRepo = repository.NewFileMappingRepository(appWorkspace)

	return nil
}

// getContext returns a context that is cancelled on Ctrl+C
func getContext() context.Context {
	return appCtx
}
