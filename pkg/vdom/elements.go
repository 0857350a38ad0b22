package vdom

func el(tag string, args []any) *Node {
	return H(tag, nil, args...)
}

// Element creates an element with an arbitrary tag.
func Element(tag string, args ...any) *Node { return el(tag, args) }

// Structure

func Div(args ...any) *Node     { return el("div", args) }
func Span(args ...any) *Node    { return el("span", args) }
func P(args ...any) *Node       { return el("p", args) }
func Header(args ...any) *Node  { return el("header", args) }
func Main(args ...any) *Node    { return el("main", args) }
func Section(args ...any) *Node { return el("section", args) }
func Nav(args ...any) *Node     { return el("nav", args) }
func Pre(args ...any) *Node     { return el("pre", args) }

// Headings

func H1(args ...any) *Node { return el("h1", args) }
func H2(args ...any) *Node { return el("h2", args) }
func H3(args ...any) *Node { return el("h3", args) }

// Lists

func Ul(args ...any) *Node { return el("ul", args) }
func Ol(args ...any) *Node { return el("ol", args) }
func Li(args ...any) *Node { return el("li", args) }

// Inline

func A(args ...any) *Node      { return el("a", args) }
func Strong(args ...any) *Node { return el("strong", args) }
func Em(args ...any) *Node     { return el("em", args) }
func Small(args ...any) *Node  { return el("small", args) }

// Forms

func Form(args ...any) *Node     { return el("form", args) }
func Label(args ...any) *Node    { return el("label", args) }
func Input(args ...any) *Node    { return el("input", args) }
func Textarea(args ...any) *Node { return el("textarea", args) }
func Button(args ...any) *Node   { return el("button", args) }
