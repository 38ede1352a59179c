package main

import (
	"github.com/spf13/cobra"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the site as static files",
	Long: `build renders every published page, the RSS feed, the sitemap and all
Open Graph images into the output directory. The directory is emptied first.
Drafts are never written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		out := buildOut
		if out == "" {
			out = app.Config.OutputDir
		}
		_, err = app.Build(cmd.Context(), out)
		return err
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory (default from config, \"dist\")")
}
