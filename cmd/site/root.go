package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	portfolio "github.com/aurorascharff/aurorascharff.no"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgFile string
	siteCfg portfolio.SiteConfig
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "site",
	Short: "Build and serve the aurorascharff.no blog and portfolio",
	Long: `site renders blog posts, speaking engagements and the About page from
markdown files, generates Open Graph preview images and an RSS feed, and either
serves them over HTTP or writes them out as a static site.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, level, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		siteCfg = cfg
		logger = newLogger(level)
		slog.SetDefault(logger)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "site %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./site.yaml)")
	rootCmd.AddCommand(buildCmd, serveCmd, newCmd, ogCmd, versionCmd)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// configKeys are registered as defaults so that SITE_* environment
// variables are picked up even when no config file sets them.
var configKeys = map[string]any{
	"name":             "",
	"url":              "",
	"description":      "",
	"author":           "",
	"addr":             "",
	"contentDir":       "",
	"staticDir":        "",
	"outputDir":        "",
	"ogCachePath":      "",
	"previewPassword":  "",
	"sessionSecret":    "",
	"cookieSecure":     false,
	"contentCacheTTL":  "5m",
	"avatar":           "",
	"theme.primary":    "",
	"theme.secondary":  "",
	"theme.background": "",
	"theme.text":       "",
	"logLevel":         "info",
}

// loadConfig reads .env (if any), then site.yaml or path, then SITE_*
// environment variables, in increasing order of precedence.
func loadConfig(path string) (portfolio.SiteConfig, string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return portfolio.SiteConfig{}, "", fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, val := range configKeys {
		v.SetDefault(key, val)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("site")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return portfolio.SiteConfig{}, "", fmt.Errorf("read config: %w", err)
		}
	}

	var cfg portfolio.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return portfolio.SiteConfig{}, "", fmt.Errorf("decode config: %w", err)
	}
	return cfg, v.GetString("logLevel"), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newApp() (*portfolio.App, error) {
	return portfolio.New(siteCfg, portfolio.WithLogger(logger))
}
