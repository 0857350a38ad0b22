package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document creates nodes and fans mutations out to its observers.
// Only mutations of nodes connected to the body are observed, so building a
// detached subtree before inserting it reports a single insertion.
type Document struct {
	body      *Node
	observers []MutationObserver
	nextID    uint64
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the document's root element.
func (d *Document) Body() *Node {
	return d.body
}

// CreateRoot creates an element with the given id attribute, appends it to
// the body and returns it. It is the usual way to create a mount point.
func (d *Document) CreateRoot(id string) *Node {
	root := d.CreateElement("div")
	root.SetAttribute("id", id)
	d.body.AppendChild(root)
	return root
}

// GetElementByID finds a connected element by its id attribute.
func (d *Document) GetElementByID(id string) *Node {
	return d.body.find(func(n *Node) bool {
		v, ok := n.Attribute("id")
		return ok && v == id
	})
}

// Observe registers an observer that is called for every mutation.
func (d *Document) Observe(o MutationObserver) {
	if o == nil {
		return
	}
	d.observers = append(d.observers, o)
}

// CreateElement creates a detached element with the given tag name.
func (d *Document) CreateElement(tag string) *Node {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *Node {
	return d.wrap(&html.Node{
		Type: html.TextNode,
		Data: text,
	})
}

// CreateFragment creates an empty fragment. Appending a fragment moves its
// children into the new parent and leaves the fragment empty.
func (d *Document) CreateFragment() *Node {
	return d.wrap(&html.Node{
		Type: html.DocumentNode,
	})
}

// Parse parses markup into a new detached element of the given tag.
// Used to adopt a server-rendered mount point.
func (d *Document) Parse(tag, markup string) (*Node, error) {
	container := d.CreateElement(tag)
	parsed, err := html.ParseFragment(strings.NewReader(markup), container.n)
	if err != nil {
		return nil, err
	}
	for _, n := range parsed {
		container.n.AppendChild(n)
		container.children = append(container.children, d.adopt(n, container))
	}
	return container, nil
}

// adopt wraps a parsed html subtree.
func (d *Document) adopt(n *html.Node, parent *Node) *Node {
	node := d.wrap(n)
	node.parent = parent
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		node.children = append(node.children, d.adopt(c, node))
	}
	return node
}

func (d *Document) wrap(n *html.Node) *Node {
	d.nextID++
	return &Node{doc: d, n: n, id: d.nextID}
}

func (d *Document) emit(m Mutation) {
	if len(d.observers) == 0 || !m.Target.IsConnected() {
		return
	}
	for _, o := range d.observers {
		o(m)
	}
}
