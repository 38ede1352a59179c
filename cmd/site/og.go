package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurorascharff/aurorascharff.no/ogimage"
)

var ogOpts struct {
	out         string
	template    string
	description string
	label       string
	date        string
}

var ogCmd = &cobra.Command{
	Use:   "og <title>",
	Short: "Render a single Open Graph image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := ogimage.ParseTemplate(ogOpts.template)
		if err != nil {
			return err
		}
		t := siteCfg.Theme
		theme, err := ogimage.ParseTheme(t.Primary, t.Secondary, t.Background, t.Text)
		if err != nil {
			return err
		}
		spec := ogimage.Spec{
			Template:    tmpl,
			Title:       args[0],
			Author:      siteCfg.Author,
			Description: ogOpts.description,
			Label:       ogOpts.label,
			Theme:       theme,
		}
		if spec.Author == "" {
			spec.Author = siteCfg.Name
		}
		if ogOpts.date != "" {
			if spec.Date, err = time.Parse(time.DateOnly, ogOpts.date); err != nil {
				return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", ogOpts.date)
			}
		}

		var opts []ogimage.Option
		if siteCfg.Avatar != "" {
			f, err := os.Open(siteCfg.Avatar)
			if err != nil {
				return err
			}
			avatar, err := ogimage.LoadAvatar(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("avatar: %w", err)
			}
			opts = append(opts, ogimage.WithAvatar(avatar))
		}
		r, err := ogimage.NewRenderer(opts...)
		if err != nil {
			return err
		}
		data, err := r.Render(spec)
		if err != nil {
			return err
		}
		if err := os.WriteFile(ogOpts.out, data, 0o644); err != nil {
			return err
		}
		logger.Info("wrote image", "file", ogOpts.out, "bytes", len(data))
		return nil
	},
}

func init() {
	f := ogCmd.Flags()
	f.StringVarP(&ogOpts.out, "out", "o", "og.png", "output file")
	f.StringVarP(&ogOpts.template, "template", "t", "post", "layout: site, post or event")
	f.StringVar(&ogOpts.description, "description", "", "subtitle (site and event layouts)")
	f.StringVar(&ogOpts.label, "label", "", "label above the title")
	f.StringVar(&ogOpts.date, "date", "", "date shown in the footer, YYYY-MM-DD")
}
