// Package prettyprint renders a parse tree or a fatal error to a terminal,
// optionally colorized.
package prettyprint

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"go.clc.dev/pkg"
)

var (
	structuralColor = color.New(color.FgCyan)
	leafColor       = color.New(color.FgYellow)
	errorColor      = color.New(color.FgRed)
)

// Tree writes n to w. When colored is true, the kinds of nodes that carry a
// value are printed in yellow and all other kinds (structural nodes and
// value-less leaves such as parentheses) in cyan; otherwise it falls back to
// ParseNode.PrintTree's plain rendering.
func Tree(w io.Writer, n *clc.ParseNode, colored bool) {
	if !colored {
		n.PrintTree(w)
		return
	}

	printColored(w, n, 0)
}

func printColored(w io.Writer, n *clc.ParseNode, depth int) {
	indent := strings.Repeat("  ", depth)
	paint := structuralColor
	if n.HasValue {
		paint = leafColor
	}

	if n.HasValue {
		fmt.Fprintf(w, "%s%s: %s\n", indent, paint.Sprint(n.Kind), n.Value)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, paint.Sprint(n.Kind))
	}

	for _, c := range n.Children {
		printColored(w, c, depth+1)
	}
}

// Error writes a fatal error to w, in red when colored is true.
func Error(w io.Writer, err error, colored bool) {
	msg := fmt.Sprintf("error: %v\n", err)
	if !colored {
		fmt.Fprint(w, msg)
		return
	}

	errorColor.Fprint(w, msg)
}

// Banner writes an informational one-liner to w, in cyan when colored.
func Banner(w io.Writer, msg string, colored bool) {
	if !colored {
		fmt.Fprintln(w, msg)
		return
	}

	structuralColor.Fprintln(w, msg)
}
