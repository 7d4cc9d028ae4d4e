package linkref

import "strings"

// Element is the slice of a UI element the reference parser needs.
type Element interface {
	// Attr returns the attribute value and whether it is present.
	Attr(name string) (string, bool)
	// Text returns the element's visible text.
	Text() string
	// Closest returns the element itself or its nearest ancestor matching a
	// "tag", ".class" or "tag.class" selector.
	Closest(selector string) (Element, bool)
}

// Node is a plain-struct Element, decoded from click payloads.
type Node struct {
	Tag     string            `json:"tag"`
	Classes []string          `json:"classes,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Content string            `json:"text,omitempty"`
	Parent  *Node             `json:"parent,omitempty"`
}

// NewAnchor builds a link element matching selector that points at href.
func NewAnchor(selector, href, text string) *Node {
	tag, classes := splitSelector(selector)
	if tag == "" {
		tag = "a"
	}
	return &Node{Tag: tag, Classes: classes, Attrs: map[string]string{"href": href}, Content: text}
}

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

func (n *Node) Text() string { return n.Content }

func (n *Node) Closest(selector string) (Element, bool) {
	tag, classes := splitSelector(selector)
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.matches(tag, classes) {
			return cur, true
		}
	}
	return nil, false
}

func (n *Node) matches(tag string, classes []string) bool {
	if tag != "" && !strings.EqualFold(n.Tag, tag) {
		return false
	}
	for _, c := range classes {
		if !n.hasClass(c) {
			return false
		}
	}
	return true
}

func (n *Node) hasClass(c string) bool {
	for _, have := range n.Classes {
		if have == c {
			return true
		}
	}
	return false
}

func splitSelector(sel string) (string, []string) {
	parts := strings.Split(strings.TrimSpace(sel), ".")
	var classes []string
	for _, p := range parts[1:] {
		if p != "" {
			classes = append(classes, p)
		}
	}
	return parts[0], classes
}
