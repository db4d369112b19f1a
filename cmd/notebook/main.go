package main

import (
	"github.com/spf13/cobra"

	"github.com/malonaz/notebook/cli/console"
	"github.com/malonaz/notebook/cli/tui"
	"github.com/malonaz/notebook/internal/api"
	"github.com/malonaz/notebook/internal/configuration"
	"github.com/malonaz/notebook/internal/debug"
)

var opts struct {
	ConfigPath string
	Server     string
	Admin      bool
}

// Filled in once the flags are parsed, before any command runs.
var (
	config = &configuration.Config{}
	client = &api.Client{}
)

var rootCmd = &cobra.Command{
	Use:     "notebook",
	Short:   "Chat with your documents",
	Version: "1.0",
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := configuration.Parse(opts.ConfigPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("server") {
			parsed.ServerURL = opts.Server
		}
		if cmd.Flags().Changed("admin") {
			parsed.Admin = opts.Admin
		}
		if err := parsed.Validate(); err != nil {
			return err
		}
		*config = *parsed

		debug.SetPath(config.LogFile)
		*client = *api.NewClient(config.ServerURL, config.Timeout())
		debug.GetLogger().Info("starting notebook", "command", cmd.Name(), "server", config.ServerURL, "admin", config.Admin)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd, config, client)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", configuration.DefaultPath, "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.Server, "server", "", "server url, overrides the configuration")
	rootCmd.PersistentFlags().BoolVar(&opts.Admin, "admin", false, "show delete controls, overrides the configuration")

	rootCmd.AddCommand(tui.NewCmd(config, client))
	rootCmd.AddCommand(console.NewListCmd(config, client))
	rootCmd.AddCommand(console.NewUploadCmd(config, client))
	rootCmd.AddCommand(console.NewRemoveCmd(config, client))
	rootCmd.AddCommand(console.NewAskCmd(config, client))
	rootCmd.AddCommand(console.NewChatCmd(config, client))
	cobra.CheckErr(rootCmd.Execute())
}
