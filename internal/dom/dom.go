// Package dom is a small host-page document model. Elements are
// golang.org/x/net/html nodes so the page can be rendered as real HTML.
package dom

import (
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is an HTML page with a single container the sketch mounts into.
type Document struct {
	root *html.Node
	body *Element
}

// Element is a handle on a node in a Document (or a detached node).
type Element struct {
	n *html.Node
}

// NewDocument returns a page whose body holds an empty <main> element with
// the given id, and that element.
func NewDocument(containerID string) (*Document, *Element) {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := newNode(atom.Html)
	head := newNode(atom.Head)
	title := newNode(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: "greensketch"})
	head.AppendChild(title)
	body := newNode(atom.Body)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)

	container := NewElement("main")
	container.SetAttr("id", containerID)
	body.AppendChild(container.n)

	return &Document{root: root, body: &Element{body}}, container
}

// NewElement returns a detached element with the given tag name.
func NewElement(tag string) *Element {
	a := atom.Lookup([]byte(tag))
	if a == 0 {
		return &Element{&html.Node{Type: html.ElementNode, Data: tag}}
	}
	return &Element{newNode(a)}
}

func newNode(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.body
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.n.Data
}

// Node returns the underlying HTML node.
func (e *Element) Node() *html.Node {
	return e.n
}

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element {
	if e.n.Parent == nil {
		return nil
	}
	return &Element{e.n.Parent}
}

// Children returns the element children in document order.
func (e *Element) Children() []*Element {
	var cs []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			cs = append(cs, &Element{c})
		}
	}
	return cs
}

// AppendChild attaches child as the last child of e. A child that is
// already attached elsewhere is moved.
func (e *Element) AppendChild(child *Element) {
	if p := child.n.Parent; p != nil {
		p.RemoveChild(child.n)
	}
	e.n.AppendChild(child.n)
}

// Remove detaches e from its parent, if any.
func (e *Element) Remove() {
	if p := e.n.Parent; p != nil {
		p.RemoveChild(e.n)
	}
}

// AppendText adds a text node as the last child of e.
func (e *Element) AppendText(s string) {
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// Attr returns the value of an attribute and whether it is set.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing value.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.n.Attr {
		if a.Key == key {
			e.n.Attr[i].Val = val
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(key string) {
	for i, a := range e.n.Attr {
		if a.Key == key {
			e.n.Attr = append(e.n.Attr[:i], e.n.Attr[i+1:]...)
			return
		}
	}
}

// Style returns the value of an inline style property.
func (e *Element) Style(prop string) (string, bool) {
	s, _ := e.Attr("style")
	for _, d := range parseStyle(s) {
		if d.prop == prop {
			return d.val, true
		}
	}
	return "", false
}

// SetStyle sets an inline style property. An empty value removes the
// property; the style attribute is dropped once no properties remain.
func (e *Element) SetStyle(prop, val string) {
	s, _ := e.Attr("style")
	decls := parseStyle(s)

	found := false
	out := decls[:0]
	for _, d := range decls {
		if d.prop == prop {
			found = true
			if val == "" {
				continue
			}
			d.val = val
		}
		out = append(out, d)
	}
	if !found && val != "" {
		out = append(out, decl{prop, val})
	}

	if len(out) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", formatStyle(out))
}

type decl struct {
	prop, val string
}

func parseStyle(s string) []decl {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var decls []decl
	p := css.NewParser(parse.NewInputString(s), true)
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			break
		} else if gt != css.DeclarationGrammar {
			continue
		}

		sb := strings.Builder{}
		for _, v := range p.Values() {
			sb.Write(v.Data)
		}
		decls = append(decls, decl{
			prop: strings.ToLower(string(data)),
			val:  strings.TrimSpace(sb.String()),
		})
	}
	return decls
}

func formatStyle(decls []decl) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.val + ";"
	}
	return strings.Join(parts, " ")
}
