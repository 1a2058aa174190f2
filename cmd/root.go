package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/netgraph/internal/config"
	"github.com/olivierh59500/netgraph/internal/logger"
	"github.com/olivierh59500/netgraph/internal/ui"
)

var version = "0.3.0"

var (
	cfgFile  string
	dataPath string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "netgraph",
	Short: "netgraph - a live force-directed view of your contacts",
	Long: ui.Brand.Sprint("netgraph") + " - a live force-directed view of your contacts\n" +
		ui.Subtle.Sprint("Drag nodes, pan, zoom and hover to inspect relationships"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if dataPath != "" {
			c.Data.Path = dataPath
		}
		if err := logger.Init(c.Log.Env, c.Log.Level); err != nil {
			return err
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.SetVersionTemplate("netgraph {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (.toml, .yaml); default "+config.DefaultPath())
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Contact document to load (overrides data.path)")

	rootCmd.AddCommand(
		viewCmd(),
		layoutCmd(),
		edgesCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Fprintf(os.Stderr, "netgraph: %v\n", err)
		return err
	}
	return nil
}
