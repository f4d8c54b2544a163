package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lai323/kanjidrill/config"
	"github.com/lai323/kanjidrill/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	storagePath string
	verbose     bool

	cfg     config.Config
	fs      = afero.NewOsFs()
	logFile afero.File

	rootCmd = &cobra.Command{
		Use:           "kanjidrill",
		Short:         "multiple choice kanji drills in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", fmt.Sprintf("storage dir (default is %s)", config.DefaultStorageDir))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func initConfig() {
	var err error
	cfg, err = config.InitConfig(fs, configPath)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if storagePath != "" {
		cfg.StoragePath = storagePath
		if err := fs.MkdirAll(cfg.StoragePath, 0755); err != nil {
			fmt.Println(utils.FmtErrorf("create storage dir", err))
			os.Exit(1)
		}
	}
	if err := initLogger(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	slog.Debug("config loaded", "storage", cfg.StoragePath, "system", cfg.System, "drill", cfg.Drill)
}

// initLogger sends logs to a file in the storage dir, the terminal belongs
// to the TUI.
func initLogger() error {
	f, err := fs.OpenFile(cfg.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return utils.FmtErrorf("open log", err)
	}
	logFile = f
	slog.SetDefault(utils.NewLogger(f, cfg.LogLevel, verbose))
	return nil
}
