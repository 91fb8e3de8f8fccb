package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/solixos/solixsh/core"
	"github.com/solixos/solixsh/core/config"
	"github.com/solixos/solixsh/core/ctxlog"
	"github.com/solixos/solixsh/core/vos"
)

var (
	cfgPath     string
	command     string
	historyFile string
	noBanner    bool

	// exitCode is the status of the last interpreter run.
	exitCode int
)

// configPath returns the --config value or $HOME/.solix.yaml.
func configPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	home := os.Getenv(core.EnvHome)
	if home == "" {
		home = config.Default().DefaultHome
	}
	return config.DefaultPath(home)
}

func loadConfig(fsys afero.Fs) (*config.Configuration, error) {
	configuration, err := config.Load(fsys, configPath())
	if err != nil {
		return nil, err
	}
	if historyFile != "" {
		configuration.HistoryFile = historyFile
	}
	return configuration, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "solix",
	Short: "Solix interactive shell",
	Long: `An interactive shell with builtins, ; && || chaining, a single pipe
and <, >, >> redirections.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxlog.New(cmd.Context(), ctxlog.NewTextLogger(cmd.ErrOrStderr()))
		ctx = ctxlog.With(ctx, "session", uuid.NewString())

		cfg, err := loadConfig(afero.NewOsFs())
		if err != nil {
			return err
		}

		interactive := !cmd.Flags().Changed("command")
		pty := core.HostPTY()
		proc := vos.NewHostProc(afero.NewOsFs(), vos.NewOSIO(), pty)

		sh, err := core.New(ctx, core.Options{
			Config:      cfg,
			Proc:        proc,
			Interactive: interactive,
		})
		if err != nil {
			return err
		}

		if !interactive {
			exitCode = sh.Eval(ctx, command)
			return sh.Close()
		}

		reader, err := core.NewReadlineReader(core.ReaderOptions{
			Files:        proc,
			Input:        sh.Input,
			PTY:          pty,
			Width:        core.HostWidth,
			Completions:  sh.Builtins.Names(),
			History:      sh.History.Entries(),
			HistoryLimit: cfg.HistorySize,
		})
		if err != nil {
			return err
		}
		sh.Reader = reader

		if cfg.Banner && !noBanner {
			fmt.Fprintln(proc.Stdout(), sh.Banner(Version))
		}

		exitCode = sh.Run(ctx)
		fmt.Fprintln(proc.Stdout(), "Exiting Solix shell...")

		if err := sh.Close(); err != nil {
			ctxlog.Warn(ctx, "shutdown", "error", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode & 0xff)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config path (default $HOME/.solix.yaml)")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "evaluate a single line and exit with its status")
	rootCmd.Flags().StringVar(&historyFile, "history-file", "", "history file (default $HOME/.solix_history)")
	rootCmd.Flags().BoolVar(&noBanner, "no-banner", false, "don't show the startup banner")
}
