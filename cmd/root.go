// Package cmd holds the command line entry points.
package cmd

import (
	"fmt"
	"os"

	"github.com/Greenfield-Taster/ChatService/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = config.New()
)

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "chatservice",
	Short: "Realtime support chat between admins and users",
	Long: `chatservice runs the support chat backend: a websocket endpoint for
realtime calls, a REST API for users, rooms and messages, and an optional
Redis activity mirror.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./chat.yaml)")
	rootCmd.PersistentFlags().Int("port", 3000, "HTTP port")
	rootCmd.PersistentFlags().String("db", "chat.db", "SQLite database path")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for the activity mirror (disabled when empty)")

	bindFlag(v, "http.port", rootCmd, "port")
	bindFlag(v, "db.path", rootCmd, "db")
	bindFlag(v, "redis.addr", rootCmd, "redis")

	rootCmd.AddCommand(serveCmd, seedCmd)
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	cobra.CheckErr(v.BindPFlag(key, cmd.PersistentFlags().Lookup(name)))
}

func loadConfig() (*config.Config, error) {
	return config.Load(v, cfgFile)
}
