// Command hilite renders stored annotations as highlights into HTML files.
//
//	hilite render -i page.html -a annotations.json -o highlighted.html
//	hilite strip -i highlighted.html
//	hilite annotate -i page.html --from 120 --to 180
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/annotation"
	"github.com/npillmayer/hilite/config"
	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/hilite/eventloop"
	"github.com/npillmayer/hilite/highlight"
	"github.com/npillmayer/hilite/xrange"
	"github.com/npillmayer/schuko/tracing"
	"github.com/urfave/cli/v3"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

var traceKeys = []string{"hilite", "hilite.dom", "hilite.xrange", "hilite.highlight",
	"hilite.selector", "hilite.adder", "hilite.widget", "hilite.loop"}

// setup loads the options and opens the input document.
func setup(cmd *cli.Command) (config.Options, *dom.Document, error) {
	if cmd.Bool("verbose") {
		for _, key := range traceKeys {
			tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
		}
	}
	opts := config.Default()
	if err := config.LoadIfExists(cmd.String("config"), &opts); err != nil {
		return opts, nil, err
	}
	f, err := os.Open(cmd.String("input"))
	if err != nil {
		return opts, nil, err
	}
	defer f.Close()
	doc, err := dom.Parse(f)
	if err != nil {
		return opts, nil, fmt.Errorf("cannot parse %s: %w", cmd.String("input"), err)
	}
	return opts, doc, nil
}

func findRoot(doc *dom.Document, opts config.Options) (*html.Node, error) {
	root, err := dom.Query(doc.Root(), opts.Root)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("%w: %q", hilite.ErrNoRoot, opts.Root)
	}
	return root, nil
}

func loadAnnotations(path string) ([]*annotation.Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return annotation.LoadYAML(f)
	}
	return annotation.LoadJSON(f)
}

func output(cmd *cli.Command) (io.WriteCloser, error) {
	path := cmd.String("output")
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeDocument(cmd *cli.Command, doc *dom.Document) error {
	w, err := output(cmd)
	if err != nil {
		return err
	}
	if err := doc.Render(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// render draws all annotations on an event loop, the way a browser page
// would, and writes the resulting document.
func render(ctx context.Context, cmd *cli.Command) error {
	opts, doc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer doc.Release()
	root, err := findRoot(doc, opts)
	if err != nil {
		return err
	}
	anns, err := loadAnnotations(cmd.String("annotations"))
	if err != nil {
		return fmt.Errorf("cannot load annotations: %w", err)
	}
	loop := eventloop.New()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(ctx)
	var promise highlight.Promise
	err = loop.Do(func() {
		h := highlight.New(root,
			highlight.HighlightClass(opts.HighlightClass),
			highlight.ChunkSize(opts.ChunkSize),
			highlight.ChunkDelay(opts.Delay()),
			highlight.WithLoop(loop),
		)
		promise = h.DrawAll(ctx, anns)
	})
	if err != nil {
		return err
	}
	markers, err := promise()
	if err != nil {
		return fmt.Errorf("drawing highlights: %w", err)
	}
	slog.Info("highlights drawn", slog.Int("annotations", len(anns)), slog.Int("markers", len(markers)))
	var werr error
	if err := loop.Do(func() { werr = writeDocument(cmd, doc) }); err != nil {
		return err
	}
	return werr
}

// strip removes all highlights from a document.
func strip(_ context.Context, cmd *cli.Command) error {
	opts, doc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer doc.Release()
	h := highlight.New(doc.Root(), highlight.HighlightClass(opts.HighlightClass))
	h.Destroy()
	return writeDocument(cmd, doc)
}

// annotate prints a stored annotation for a span of the root's text.
func annotate(_ context.Context, cmd *cli.Command) error {
	opts, doc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer doc.Release()
	root, err := findRoot(doc, opts)
	if err != nil {
		return err
	}
	span := &xrange.Serialized{
		StartOffset: int(cmd.Int("from")),
		EndOffset:   int(cmd.Int("to")),
		IgnoreClass: opts.HighlightClass,
	}
	nr, err := span.Normalize(root)
	if err != nil {
		return fmt.Errorf("cannot select text %d…%d: %w", span.StartOffset, span.EndOffset, err)
	}
	ann, err := hilite.MakeAnnotation([]*xrange.Normalized{nr}, root, opts.HighlightClass)
	if err != nil {
		return err
	}
	w, err := output(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if cmd.String("format") == "yaml" {
		return yaml.NewEncoder(w).Encode([]*annotation.Annotation{ann})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode([]*annotation.Annotation{ann})
}

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "HTML file to read",
		Required: true,
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "File to write, default is stdout",
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "hilite",
		Usage: "Render annotations as highlights into HTML documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "hilite.yaml",
				Value:       "hilite.yaml",
				Sources:     cli.EnvVars("HILITE_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Trace what is going on",
				Sources: cli.EnvVars("HILITE_VERBOSE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "render",
				Usage:  "Draw stored annotations into a document",
				Action: render,
				Flags: []cli.Flag{
					inputFlag(),
					outputFlag(),
					&cli.StringFlag{
						Name:     "annotations",
						Aliases:  []string{"a"},
						Usage:    "JSON or YAML file with annotations",
						Required: true,
					},
				},
			},
			{
				Name:   "strip",
				Usage:  "Remove all highlights from a document",
				Action: strip,
				Flags:  []cli.Flag{inputFlag(), outputFlag()},
			},
			{
				Name:   "annotate",
				Usage:  "Create an annotation for a span of text",
				Action: annotate,
				Flags: []cli.Flag{
					inputFlag(),
					outputFlag(),
					&cli.IntFlag{Name: "from", Usage: "Offset of the first character", Required: true},
					&cli.IntFlag{Name: "to", Usage: "Offset after the last character", Required: true},
					&cli.StringFlag{Name: "format", Usage: "json or yaml", Value: "json"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("hilite failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
