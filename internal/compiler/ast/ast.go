package ast

import (
	"fmt"

	"github.com/arnavsurve/signal/internal/compiler/token"
)

// Rule tags a node with the grammar rule that produced it.
type Rule int

const (
	Empty Rule = iota
	SignalProgram
	Program
	Block
	VariableDeclarations
	DeclarationsList
	Declaration
	StatementsList
	Statements
	ConditionalExpression
	Logical
	LogicalSummand
	LogicalMultipliersList
	LogicalMultiplier
	ComparisonOperator
	Expression
	VariableIdentifier
	ProcedureIdentifier
	Identifier
	UnsignedInteger
	Email
)

var ruleNames = [...]string{
	Empty:                  "empty",
	SignalProgram:          "signal-program",
	Program:                "program",
	Block:                  "block",
	VariableDeclarations:   "variable-declarations",
	DeclarationsList:       "declarations-list",
	Declaration:            "declaration",
	StatementsList:         "statements-list",
	Statements:             "statements",
	ConditionalExpression:  "conditional-expression",
	Logical:                "logical",
	LogicalSummand:         "logical-summand",
	LogicalMultipliersList: "logical-multipliers-list",
	LogicalMultiplier:      "logical-multiplier",
	ComparisonOperator:     "comparison-operator",
	Expression:             "expression",
	VariableIdentifier:     "variable-identifier",
	ProcedureIdentifier:    "procedure-identifier",
	Identifier:             "identifier",
	UnsignedInteger:        "unsigned-integer",
	Email:                  "email",
}

func (r Rule) String() string {
	if r >= 0 && int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// NodeID addresses a node inside its Tree.
type NodeID int

// None is the absent node: the parent of the root, and the cursor before
// the first Open and after the root is closed.
const None NodeID = -1

type Node struct {
	Rule     Rule
	Tokens   []token.Token
	Parent   NodeID
	Children []NodeID
}

// Token returns the first payload token, if any.
func (n *Node) Token() (token.Token, bool) {
	if len(n.Tokens) == 0 {
		return token.Token{}, false
	}
	return n.Tokens[0], true
}

// Tree is an arena of nodes built depth first through a cursor.
type Tree struct {
	nodes  []Node
	cursor NodeID
}

func NewTree() *Tree {
	return &Tree{cursor: None}
}

// Open appends a node for rule under the cursor and moves the cursor to it.
// The first Open creates the root.
func (t *Tree) Open(rule Rule, payload ...token.Token) NodeID {
	if t.cursor == None && len(t.nodes) > 0 {
		panic("ast: Open after the root was closed")
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Rule:   rule,
		Tokens: append([]token.Token(nil), payload...),
		Parent: t.cursor,
	})
	if t.cursor != None {
		parent := &t.nodes[t.cursor]
		parent.Children = append(parent.Children, id)
	}
	t.cursor = id
	return id
}

// Close moves the cursor to the parent of the current node.
func (t *Tree) Close() {
	if t.cursor == None {
		panic("ast: Close with no open node")
	}
	t.cursor = t.nodes[t.cursor].Parent
}

// AttachValue extends the payload of the node at the cursor.
func (t *Tree) AttachValue(toks ...token.Token) {
	if t.cursor == None {
		panic("ast: AttachValue with no open node")
	}
	n := &t.nodes[t.cursor]
	n.Tokens = append(n.Tokens, toks...)
}

func (t *Tree) Cursor() NodeID {
	return t.cursor
}

// Root returns the first node opened, or None for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return None
	}
	return 0
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given id. The pointer is invalidated by the
// next Open.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].Children
}

func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].Parent
}

// Depth is the number of ancestors of id.
func (t *Tree) Depth(id NodeID) int {
	d := 0
	for p := t.nodes[id].Parent; p != None; p = t.nodes[p].Parent {
		d++
	}
	return d
}

// Walk visits the subtree rooted at id in depth-first pre-order. Returning
// false from fn skips the children of that node.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	if id == None {
		return
	}
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.nodes[id].Children {
		t.walk(c, depth+1, fn)
	}
}

// Find returns the first node in pre-order below (and including) id whose
// rule matches, or None.
func (t *Tree) Find(id NodeID, rule Rule) NodeID {
	found := None
	t.Walk(id, func(n NodeID, _ int) bool {
		if found != None {
			return false
		}
		if t.nodes[n].Rule == rule {
			found = n
			return false
		}
		return true
	})
	return found
}

// Leaves returns the payload tokens of the subtree at id in source order.
func (t *Tree) Leaves(id NodeID) []token.Token {
	var out []token.Token
	t.Walk(id, func(n NodeID, _ int) bool {
		switch t.nodes[n].Rule {
		case Identifier, UnsignedInteger, Email:
			out = append(out, t.nodes[n].Tokens...)
		}
		return true
	})
	return out
}
