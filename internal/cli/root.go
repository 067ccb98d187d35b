package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/expressr/create-expressr-app/internal/addon"
	"github.com/expressr/create-expressr-app/internal/branding"
	"github.com/expressr/create-expressr-app/internal/config"
	"github.com/expressr/create-expressr-app/internal/installer"
	"github.com/expressr/create-expressr-app/internal/project"
	"github.com/expressr/create-expressr-app/internal/prompt"
	"github.com/expressr/create-expressr-app/internal/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	logger  = slog.New(slog.DiscardHandler)
)

// Flags of the root (create) command.
var (
	createPort     int
	createAddons   []string
	skipInstall    bool
	packageManager string
	addonsDir      string
	templateDir    string
	forceCreate    bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print diagnostic logs to stderr")
	rootCmd.PersistentFlags().StringVar(&addonsDir, "addons-dir", "", "Extra directory of addons (default: config addons_dir)")
	rootCmd.PersistentFlags().StringVar(&templateDir, "template-dir", "", "Use a template directory instead of the built-in one")

	rootCmd.Flags().IntVar(&createPort, "port", 0, "Port the app listens on (prompted when omitted)")
	rootCmd.Flags().StringSliceVar(&createAddons, "addons", nil, "Addons to apply, by name (prompted when omitted)")
	rootCmd.Flags().BoolVar(&skipInstall, "skip-install", false, "Do not install dependencies")
	rootCmd.Flags().StringVar(&packageManager, "package-manager", "", "Package manager: npm, pnpm, yarn or bun (default: config package_manager)")
	rootCmd.Flags().BoolVar(&forceCreate, "force", false, "Create into an existing non-empty directory")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [project-name]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds a new Express + TypeScript application with file-based routing.

Without arguments it asks for the project name, the port and the addons to
apply. Every answer can be given up front instead:

  ` + branding.CLIName() + ` my-app --port 8080 --addons cors,logger`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logger = newLogger(cmd.ErrOrStderr(), verbose)
	},
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	settings := resolveSettings(cmd)
	logger.Debug("resolved settings",
		"default_port", settings.DefaultPort,
		"package_manager", settings.PackageManager,
		"addons_dir", settings.AddonsDir,
		"template_dir", settings.TemplateDir)

	var inst installer.Installer = installer.Skip{}
	if !skipInstall {
		pm, err := installer.New(settings.PackageManager)
		if err != nil {
			return err
		}
		pm.Stdin = cmd.InOrStdin()
		pm.Stdout = cmd.OutOrStdout()
		pm.Stderr = cmd.ErrOrStderr()
		inst = pm
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	creator := &project.Creator{
		FS:         afero.NewOsFs(),
		Template:   scaffold.Template(settings.TemplateDir),
		LoadAddons: func() ([]*addon.Descriptor, error) {
			return loadAddons(settings)
		},
		Prompter: prompt.New(prompt.Config{
			In:          cmd.InOrStdin(),
			Out:         cmd.OutOrStdout(),
			DefaultPort: settings.DefaultPort,
		}),
		Installer: inst,
		Out:       cmd.OutOrStdout(),
		Logger:    logger,
		WorkDir:   cwd,
	}

	opts := project.Options{Port: createPort, Force: forceCreate}
	if len(args) == 1 {
		opts.Name = args[0]
	}
	if cmd.Flags().Changed("addons") {
		opts.Addons = append([]string{}, createAddons...)
	}

	result, err := creator.Create(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if skipInstall {
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("\nSkipped dependency installation (--skip-install)."))
	}
	project.PrintSummary(cmd.OutOrStdout(), result, settings.PackageManager)
	return nil
}

// resolveSettings layers command-line flags over the loaded configuration.
func resolveSettings(cmd *cobra.Command) config.Settings {
	s := config.Current()
	if f := cmd.Flags().Lookup("package-manager"); f != nil && f.Changed {
		s.PackageManager = packageManager
	}
	if addonsDir != "" {
		s.AddonsDir = addonsDir
	}
	if templateDir != "" {
		s.TemplateDir = templateDir
	}
	return s
}

// addonSources lists the addon roots: the built-in addons first, then the
// user's directory when one is configured.
func addonSources(s config.Settings) []addon.Source {
	sources := []addon.Source{{Name: "builtin", FS: scaffold.BuiltinAddons()}}
	if s.AddonsDir != "" {
		sources = append(sources, addon.Source{Name: "user", FS: os.DirFS(filepath.Clean(s.AddonsDir))})
	}
	return sources
}

func loadAddons(s config.Settings) ([]*addon.Descriptor, error) {
	available, err := addon.DiscoverAll(addonSources(s))
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded addons", "count", len(available))
	return available, nil
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed here; the caller only sets the exit code. An interrupt
// cancels the command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}
