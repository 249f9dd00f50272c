// Package outline parses a book summary document and flattens its
// nested entries into the ordered page list handed to the renderer.
package outline

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Traversal ceilings guarding against pathological input. The summary
// is a markup tree and cannot cycle, but malformed or hostile input
// could still nest or repeat without bound.
const (
	MaxDepth = 64
	MaxNodes = 100000
)

// Sentinel errors for summary structure problems.
var (
	ErrMissingLink = errors.New("outline entry has no link")
	ErrMissingHref = errors.New("outline link has no href")
	ErrTooDeep     = errors.New("outline nesting exceeds maximum depth")
	ErrTooLarge    = errors.New("outline exceeds maximum entry count")
)

// Node is one entry of the summary tree: a link plus nested entries.
// The tree form decouples flattening from the markup parser.
type Node struct {
	Ref      string
	Title    string
	Children []*Node
}

// Page is one flattened entry. Index is 1-based and strictly
// increasing in pre-order; Level starts at 1 for top-level entries and
// a child's level is exactly its parent's plus one.
type Page struct {
	Ref   string
	Title string
	Level int
	Index int
}

// Parse reads summary markup and returns its top-level outline nodes.
// Entries are <li> items of the first <ul> or <ol> list in the
// document; each must carry an <a href> link. A nested list inside an
// item becomes that item's children.
func Parse(r io.Reader) ([]*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}

	list := findList(doc)
	if list == nil {
		return nil, nil
	}

	count := 0
	return parseList(list, 1, &count)
}

// Flatten produces the pre-order page sequence for the given outline,
// top-level entries at level 1.
func Flatten(nodes []*Node) []Page {
	var pages []Page
	flattenInto(nodes, 1, &pages)
	return pages
}

func flattenInto(nodes []*Node, level int, out *[]Page) {
	for _, n := range nodes {
		*out = append(*out, Page{
			Ref:   n.Ref,
			Title: n.Title,
			Level: level,
			Index: len(*out) + 1,
		})
		flattenInto(n.Children, level+1, out)
	}
}

// findList returns the first <ul> or <ol> element in document order.
func findList(n *html.Node) *html.Node {
	if isList(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if list := findList(c); list != nil {
			return list
		}
	}
	return nil
}

func parseList(list *html.Node, depth int, count *int) ([]*Node, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d", ErrTooDeep, depth)
	}

	var nodes []*Node
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		*count++
		if *count > MaxNodes {
			return nil, fmt.Errorf("%w: %d", ErrTooLarge, MaxNodes)
		}

		anchor := findAnchor(li)
		if anchor == nil {
			return nil, fmt.Errorf("%w: entry %d at depth %d", ErrMissingLink, *count, depth)
		}
		href, ok := attrVal(anchor, "href")
		if !ok || href == "" {
			return nil, fmt.Errorf("%w: %q", ErrMissingHref, normalizeSpace(textContent(anchor)))
		}

		node := &Node{
			Ref:   href,
			Title: normalizeSpace(textContent(anchor)),
		}
		if sub := childList(li); sub != nil {
			children, err := parseList(sub, depth+1, count)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// findAnchor returns the item's own link, skipping nested sub-lists so
// a child's link is never mistaken for the parent's.
func findAnchor(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if c.Data == "a" {
				return c
			}
			if isList(c) {
				continue
			}
		}
		if a := findAnchor(c); a != nil {
			return a
		}
	}
	return nil
}

// childList returns the item's nested sub-list, if any.
func childList(li *html.Node) *html.Node {
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if isList(c) {
			return c
		}
	}
	return nil
}

func isList(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "ul" || n.Data == "ol")
}

func attrVal(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

// normalizeSpace collapses runs of whitespace to single spaces and
// trims the ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
