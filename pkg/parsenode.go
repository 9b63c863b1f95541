package clc

import (
	"fmt"
	"io"
	"strings"
)

// NodeKind tags a ParseNode. It is either a structural production name
// (Program, Statement, Expression, ...) or a leaf wrapping the TokenClass
// it was built from. This is the idiomatic Go substitute for a Rust-style
// sum type: two constructors, compared by value.
type NodeKind struct {
	structural string
	class      TokenClass
	isLeaf     bool
}

// StructuralKind names a non-leaf production.
func StructuralKind(name string) NodeKind {
	return NodeKind{structural: name}
}

// LeafKind wraps a TokenClass for a leaf node.
func LeafKind(c TokenClass) NodeKind {
	return NodeKind{class: c, isLeaf: true}
}

// Equal reports whether two NodeKind values denote the same kind. Defining
// this lets go-cmp compare ParseNode trees without needing access to
// NodeKind's unexported fields.
func (k NodeKind) Equal(other NodeKind) bool {
	return k.isLeaf == other.isLeaf && k.structural == other.structural && k.class == other.class
}

// String renders the kind for pretty-printing.
func (k NodeKind) String() string {
	if k.isLeaf {
		return k.class.String()
	}

	return k.structural
}

// The structural node kinds named by the grammar.
var (
	NodeProgram             = StructuralKind("Program")
	NodeStatement           = StructuralKind("Statement")
	NodeBlock               = StructuralKind("Block")
	NodeExpression          = StructuralKind("Expression")
	NodeAssignmentStatement = StructuralKind("AssignmentStatement")
	NodeConditionStatement  = StructuralKind("ConditionStatement")
	NodeForLoopStatement    = StructuralKind("ForLoopStatement")
	NodeReturnStatement     = StructuralKind("ReturnStatement")
	NodeControlFlowBlock    = StructuralKind("ControlFlowBlock")
	NodeFunctionDefinition  = StructuralKind("FunctionDefinition")
	NodeFunctionCall        = StructuralKind("FunctionCall")
	NodeArgument            = StructuralKind("Argument")
	NodeArguments           = StructuralKind("Arguments")
)

// Location is a 1-based source position.
type Location struct {
	Line   int
	Column int
}

// ParseNode is a node of the concrete parse tree: a kind, an optional value
// for leaves, a source location, and ordered children. Children are owned
// outright, so the tree can never contain a cycle. No node is mutated once
// it becomes a child of another.
type ParseNode struct {
	Kind     NodeKind
	Value    string
	HasValue bool
	Loc      Location
	Children []*ParseNode
}

// NewParseNode seeds a node at loc with no children.
func NewParseNode(kind NodeKind, loc Location) *ParseNode {
	return &ParseNode{Kind: kind, Loc: loc}
}

// NewLeaf builds a value-carrying leaf node.
func NewLeaf(kind NodeKind, value string, loc Location) *ParseNode {
	return &ParseNode{Kind: kind, Value: value, HasValue: true, Loc: loc}
}

// AddChild appends c to n's children. If n had no children before this
// call, n adopts c's location as its own — structural nodes report the
// location of their first leaf.
func (n *ParseNode) AddChild(c *ParseNode) {
	if len(n.Children) == 0 {
		n.Loc = c.Loc
	}

	n.Children = append(n.Children, c)
}

// PrintTree renders n and its descendants to w, one node per line, indented
// two spaces per depth level. Nodes with a value render "kind: value";
// others render just "kind".
func (n *ParseNode) PrintTree(w io.Writer) {
	n.printTree(w, 0)
}

func (n *ParseNode) printTree(w io.Writer, depth int) {
	indent := strings.Repeat("  ", depth)

	if n.HasValue {
		fmt.Fprintf(w, "%s%s: %s\n", indent, n.Kind, n.Value)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, n.Kind)
	}

	for _, c := range n.Children {
		c.printTree(w, depth+1)
	}
}
