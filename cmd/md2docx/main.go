// Command md2docx converts a Markdown file to a styled word-processing
// document, applying an optional branding configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/inkwelldocs/md2docx/internal/branding"
	"github.com/inkwelldocs/md2docx/internal/generator"
	"github.com/inkwelldocs/md2docx/internal/imagefetch"
	"github.com/inkwelldocs/md2docx/internal/markdown"
)

type cliFlags struct {
	config string
	output string

	title   string
	author  string
	company string

	header      string
	footer      string
	pageNumbers bool

	font     string
	fontSize float64

	allowHosts    []string
	maxImageBytes int64
	fetchTimeout  time.Duration

	ast            bool
	generateConfig bool
	verbose        bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "md2docx:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var fl cliFlags
	fs := flag.NewFlagSet("md2docx", flag.ContinueOnError)
	fs.StringVarP(&fl.config, "config", "c", "", "branding configuration file (YAML or JSON)")
	fs.StringVarP(&fl.output, "output", "o", "", "output file (default: input name with .docx)")
	fs.StringVar(&fl.title, "title", "", "document title metadata")
	fs.StringVar(&fl.author, "author", "", "document author metadata")
	fs.StringVar(&fl.company, "company", "", "document company metadata")
	fs.StringVar(&fl.header, "header", "", "centered header text on every page")
	fs.StringVar(&fl.footer, "footer", "", "centered footer text on every page")
	fs.BoolVar(&fl.pageNumbers, "page-numbers", false, "add a page number to the footer")
	fs.StringVar(&fl.font, "font", "", "body font name")
	fs.Float64Var(&fl.fontSize, "font-size", 0, "body font size in points")
	fs.StringArrayVar(&fl.allowHosts, "allow-image-host", nil, "host allowed for remote images (repeatable)")
	fs.Int64Var(&fl.maxImageBytes, "max-image-bytes", 10485760, "remote image size cap in bytes")
	fs.DurationVar(&fl.fetchTimeout, "fetch-timeout", 10*time.Second, "remote image fetch timeout")
	fs.BoolVar(&fl.ast, "ast", false, "print the parsed document tree and exit")
	fs.BoolVar(&fl.generateConfig, "generate-config", false, "print a sample branding configuration and exit")
	fs.BoolVarP(&fl.verbose, "verbose", "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: md2docx [flags] <input.md>")
		fmt.Fprintln(os.Stderr, "       md2docx --generate-config")
		fmt.Fprintln(os.Stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fl.generateConfig {
		fmt.Print(branding.SampleJSON)
		return nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one input file is required")
	}

	input := fs.Arg(0)
	var src []byte
	var err error
	if input == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	root := markdown.Parse(src)
	if fl.ast {
		fmt.Print(root.Dump())
		return nil
	}

	cfg, err := loadBranding(fl)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if fl.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var fetcher *imagefetch.Fetcher
	if len(fl.allowHosts) > 0 {
		fetcher = imagefetch.New(imagefetch.Policy{
			AllowedHosts: fl.allowHosts,
			MaxBytes:     fl.maxImageBytes,
			Timeout:      fl.fetchTimeout,
		})
	}

	gen := generator.New(fetcher, log)
	doc, warnings, err := gen.Generate(context.Background(), root, cfg)
	if err != nil {
		return err
	}
	for _, warn := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", warn)
	}

	out := fl.output
	if out == "" {
		if input == "-" {
			out = "document.docx"
		} else {
			out = strings.TrimSuffix(input, filepath.Ext(input)) + ".docx"
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := doc.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if fl.verbose {
		log.Debug("wrote document", "path", out)
	}
	return nil
}

// loadBranding reads the configuration file, if any, and layers the
// command-line overrides on top.
func loadBranding(fl cliFlags) (branding.Config, error) {
	var cfg branding.Config
	if fl.config != "" {
		data, err := os.ReadFile(fl.config)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		cfg, err = branding.Load(data)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", fl.config, err)
		}
	}

	if fl.title != "" {
		cfg.Title = fl.title
	}
	if fl.author != "" {
		cfg.Author = fl.author
	}
	if fl.company != "" {
		cfg.Company = fl.company
	}
	if fl.font != "" || fl.fontSize > 0 {
		if cfg.BodyFont == nil {
			cfg.BodyFont = &branding.FontConfig{}
		}
		if fl.font != "" {
			cfg.BodyFont.Name = &fl.font
		}
		if fl.fontSize > 0 {
			cfg.BodyFont.Size = &fl.fontSize
		}
	}
	if fl.header != "" {
		if cfg.Header == nil {
			cfg.Header = &branding.HeaderFooterConfig{}
		}
		cfg.Header.Text = &fl.header
	}
	if fl.footer != "" || fl.pageNumbers {
		if cfg.Footer == nil {
			cfg.Footer = &branding.HeaderFooterConfig{}
		}
		if fl.footer != "" {
			cfg.Footer.Text = &fl.footer
		}
		if fl.pageNumbers {
			cfg.Footer.IncludePageNumber = &fl.pageNumbers
		}
	}
	return cfg, nil
}
