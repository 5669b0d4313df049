package cmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stratint/outlook/app/ai"
	"stratint/outlook/app/analysis"
	"stratint/outlook/app/config"
	"stratint/outlook/app/feed"
	"stratint/outlook/app/logger"
	"stratint/outlook/app/pipeline"
	"stratint/outlook/app/render"
)

type scanOptions struct {
	topics      []string
	country     string
	policy      string
	format      string
	digest      string
	concurrency int
	noColor     bool
}

func scanCmd(a *app) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch headlines and print one outlook card per topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, a.cfg, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.topics, "topic", "t", nil, "topic to scan (repeatable, default: whole catalogue)")
	cmd.Flags().StringVarP(&opts.country, "country", "c", "", "country focus (default from config)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "relevance policy: all, any, country or keyword")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text or json")
	cmd.Flags().StringVar(&opts.digest, "digest", "", "also write an RSS digest to this file")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 1, "topics processed in parallel")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	return cmd
}

func runScan(cmd *cobra.Command, cfg *config.Config, opts *scanOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", opts.format)
	}

	rc, err := config.NewRunConfig(cfg, config.RunOptions{
		Topics:      opts.topics,
		Country:     opts.country,
		Credential:  config.Credential(),
		Policy:      opts.policy,
		Concurrency: opts.concurrency,
	})
	if err != nil {
		return err
	}
	if rc.Credential() == "" {
		logger.Warn("no API key set, falling back to offline analysis")
	}

	normalizer := analysis.NewNormalizer(analysis.SettingsFactory(ai.Settings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.Timeout,
	}), cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	runner := pipeline.NewRunner(feed.NewHTTPFetcher(cfg.Feeds.Timeout, cfg.Feeds.UserAgent), normalizer)

	out := cmd.OutOrStdout()
	var emit func(pipeline.Card)
	if opts.format == "text" {
		emit = render.NewPrinter(out, !opts.noColor && !color.NoColor).Card
	}

	cards := runner.Run(cmd.Context(), rc, emit)

	if opts.format == "json" {
		if err := render.JSON(out, cards); err != nil {
			return err
		}
	}
	if opts.digest != "" {
		meta, err := digestMeta(cfg.Digest, opts.digest, rc.Country())
		if err != nil {
			return err
		}
		if err := writeDigest(opts.digest, meta, cards); err != nil {
			return err
		}
		logger.Info("digest written", "path", opts.digest, "items", len(cards))
	}
	return nil
}

func writeDigest(path string, meta render.DigestMeta, cards []pipeline.Card) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing digest: %w", cerr)
		}
	}()

	return render.Digest(file, cards, meta)
}

// digestMeta describes the digest channel. RSS requires a channel link, so
// without a configured one the digest points at itself.
func digestMeta(cfg config.DigestConfig, path, country string) (render.DigestMeta, error) {
	link := cfg.Link
	if link == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return render.DigestMeta{}, err
		}
		link = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
	return render.DigestMeta{
		Title:       cfg.Title,
		Link:        link,
		Description: "Renewable energy outlook for " + country,
		Generated:   time.Now(),
	}, nil
}
