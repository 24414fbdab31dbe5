package aksm

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ParseError reports an unusable response payload. It is distinct from
// *TransportError: the call completed, the body just is not XML.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Attr is one element attribute. Nodes keep attributes as an ordered
// slice, document order, names unique.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a decoded response. The device speaks 75+
// actions, each with its own response shape, so no schema is assumed:
// every element at any depth maps to exactly one Node and no attribute,
// child or text run is dropped. Each Node owns its children outright.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// Attr returns the named attribute's value, "" when absent.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, distinguishing an
// absent attribute from a present-but-empty one.
func (n *Node) HasAttr(name string) bool {
	for _, a := range n.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// XML re-serialises the node. Decoding the result reproduces an equal
// tree; attribute and child order are preserved.
func (n *Node) XML() string {
	var b strings.Builder
	n.writeXML(&b)
	return b.String()
}

func (n *Node) writeXML(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escapeXML(a.Value))
		b.WriteString(`"`)
	}
	if n.Text == "" && len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
	if n.Text != "" {
		b.WriteString(escapeXML(n.Text))
	}
	for _, c := range n.Children {
		c.writeXML(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// DecodedResponse is the stable boundary downstream consumers depend
// on: the normalized action/error pair plus the full tree. ErrorCode 0
// is the sole success convention; any other value is the device's own
// failure code, passed through unmapped.
type DecodedResponse struct {
	Action    string
	ErrorCode int
	Tree      *Node
}

// Decode parses an arbitrary device response. Malformed markup yields
// a *ParseError("invalid xml"); a parseable document without a root
// element yields *ParseError("no root element"). Action defaults to ""
// and ErrorCode to 0 when the root carries no such attribute or the
// error value is non-numeric.
func Decode(raw string) (*DecodedResponse, error) {
	root, err := parse(raw)
	if err != nil {
		return nil, err
	}

	errorCode := 0
	if v := root.Attr("error"); v != "" {
		if parsed, perr := strconv.Atoi(v); perr == nil {
			errorCode = parsed
		}
	}

	return &DecodedResponse{
		Action:    root.Attr("action"),
		ErrorCode: errorCode,
		Tree:      root,
	}, nil
}

func parse(raw string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: "invalid xml", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make([]Attr, 0, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Reason: "invalid xml", Err: errors.New("multiple root elements")}
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			// Only direct, non-whitespace text survives; formatting
			// whitespace must not show up as spurious text.
			if text := strings.TrimSpace(string(t)); text != "" {
				stack[len(stack)-1].Text += text
			}
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, &ParseError{Reason: "no root element"}
	}
	return root, nil
}
