package transport

import (
	"encoding/json"
	"encoding/xml"
)

// Node is a schemaless XML element tree, produced for InterpretXML requests.
// Feed packages that know their schema decode from Response.Raw instead.
type Node struct {
	XMLName  xml.Name
	Attr     []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []Node     `xml:",any"`
}

// Attribute returns the named attribute's value, or "" when absent.
func (n *Node) Attribute(name string) string {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Find returns the first direct child element with the given local name.
func (n *Node) Find(name string) *Node {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

func interpret(tag Interpretation, raw []byte) (any, error) {
	switch tag {
	case InterpretJSON:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case InterpretXML:
		var n Node
		if err := xml.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &n, nil
	default:
		return string(raw), nil
	}
}
