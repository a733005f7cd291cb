// Package parser reads MusicXML score metadata and engraved SVG pages.
package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// node is a generic XML element used to walk SVG trees.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []node     `xml:",any"`
}

// attr returns the value of the attribute with the given local name.
func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// hasClass reports whether the class attribute of n contains class.
func (n *node) hasClass(class string) bool {
	v, ok := n.attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// descendants returns every element below n, in document order, whose local
// name is tag and that satisfies match.
func (n *node) descendants(tag string, match func(*node) bool) []*node {
	var out []*node
	for i := range n.Nodes {
		child := &n.Nodes[i]
		if child.XMLName.Local == tag && match(child) {
			out = append(out, child)
		}
		out = append(out, child.descendants(tag, match)...)
	}
	return out
}

// children returns the direct children of n whose local name is tag.
func (n *node) children(tag string) []*node {
	var out []*node
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == tag {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// newDecoder returns an XML decoder that understands the non UTF-8
// encodings found in MusicXML exports.
func newDecoder(r io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Strict = false
	return decoder
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

// isZip reports whether data starts with a zip local file header.
func isZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}
