/*
Package domdbg implements helpers to debug a DOM tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/hilite/dom"
	tp "github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// Print returns an indented tree rendering of the DOM below n.
// Whitespace-only text nodes are shown as ␣ runs. Elements carrying the
// class `mark` are prefixed with an asterisk.
func Print(n *html.Node, mark string) string {
	if n == nil {
		return "<nil>\n"
	}
	tree := tp.New()
	printChildren(n, tree.AddBranch(label(n, mark)), mark)
	return tree.String()
}

func printChildren(n *html.Node, branch tp.Tree, mark string) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.FirstChild == nil {
			branch.AddNode(label(ch, mark))
			continue
		}
		printChildren(ch, branch.AddBranch(label(ch, mark)), mark)
	}
}

func label(n *html.Node, mark string) string {
	switch n.Type {
	case html.TextNode:
		return quote(n.Data)
	case html.ElementNode:
		if mark != "" && dom.HasClass(n, mark) {
			return "*" + dom.Describe(n)
		}
	}
	return dom.Describe(n)
}

func quote(s string) string {
	s = strings.Replace(s, "\n", `\n`, -1)
	s = strings.Replace(s, "\t", `\t`, -1)
	if dom.IsWhitespace(s) {
		return strings.Replace(s, " ", "␣", -1)
	}
	return fmt.Sprintf("%q", s)
}

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	Mark     string
	NodeTmpl *template.Template
	EdgeTmpl *template.Template
}

// ToGraphViz outputs a diagram for a DOM tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root node of
// the DOM, a Writer, and the CSS class of highlight markers.
// Markers will be drawn in a distinct color.
func ToGraphViz(doc *html.Node, w io.Writer, mark string) {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		panic(err)
	}
	gparams := graphParamsType{Fontname: "Helvetica", Mark: mark}
	gparams.NodeTmpl = template.Must(template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	err = tmpl.Execute(w, gparams)
	if err != nil {
		panic(err)
	}
	dict := make(map[*html.Node]string, 4096)
	nodes(doc, w, dict, &gparams)
	w.Write([]byte("}\n"))
}

// Dotty is a helper for testing. Given a DOM node and a testing.T, it will
// create a Graphiviz image of the DOM tree under `doc` and write it to
// a file in the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
//
func Dotty(doc *html.Node, mark string, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "dom.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing DOM digraph to %s\n", tmpfile.Name())
	ToGraphViz(doc, tmpfile, mark)
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Log("writing DOM tree image to tree.svg\n")
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	N      *html.Node
	Name   string
	Label  string
	IsText bool
	Marker bool
}

func nodes(n *html.Node, w io.Writer, dict map[*html.Node]string, gparams *graphParamsType) {
	domNode(n, w, dict, gparams)
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		nodes(ch, w, dict, gparams)
		domEdge(n, ch, w, dict, gparams)
	}
}

func domNode(n *html.Node, w io.Writer, dict map[*html.Node]string, gparams *graphParamsType) {
	name := dict[n]
	if name == "" {
		l := len(dict) + 1
		name = fmt.Sprintf("node%05d", l)
		dict[n] = name
	}
	nd := &node{N: n, Name: name, Label: dom.Describe(n), IsText: n.Type == html.TextNode}
	nd.Marker = gparams.Mark != "" && dom.HasClass(n, gparams.Mark)
	if err := gparams.NodeTmpl.Execute(w, nd); err != nil {
		panic(err)
	}
}

type edge struct {
	N1, N2 node
}

func domEdge(n1 *html.Node, n2 *html.Node, w io.Writer, dict map[*html.Node]string,
	gparams *graphParamsType) {
	//
	e := edge{node{N: n1, Name: dict[n1]}, node{N: n2, Name: dict[n2]}}
	if err := gparams.EdgeTmpl.Execute(w, e); err != nil {
		panic(err)
	}
}

func shortText(n *html.Node) string {
	s := "\"\\\""
	if len(n.Data) > 10 {
		s += n.Data[:10] + "...\\\"\""
	} else {
		s += n.Data + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if .IsText }}
{{ .Name }}	[ label={{ shortstring .N }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else if .Marker }}
{{ .Name }}	[ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor=gold ] ;
{{ else }}
{{ .Name }}	[ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`
