// Package extractor walks parsed HTML and yields the human-visible text
// nodes as an ordered sequence of blocks, with enough positional context to
// reinsert translated text into an identical structure afterwards.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/msolvik/fintrans/internal/placeholder"
)

// Block is one translatable unit of text extracted from a document.
// PlaceholderOnly marks blocks with no literal content beyond parameters;
// the engine can skip the model call for those.
type Block struct {
	ID              int
	Text            string
	Path            string
	PlaceholderOnly bool
}

// skipElements never contribute visible text.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Extract parses src and returns every visible text node in document order.
// Whitespace-only nodes are skipped, so a zero-length Block is never
// produced. Extraction is a pure function of src and can be repeated.
func Extract(src string) ([]Block, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}

	var blocks []Block
	walkText(root, "", func(n *html.Node, path string) {
		text := strings.TrimSpace(n.Data)
		blocks = append(blocks, Block{
			ID:              len(blocks),
			Text:            text,
			Path:            path,
			PlaceholderOnly: placeholder.OnlyPlaceholders(text),
		})
	})
	return blocks, nil
}

// Reinsert replaces each visible text run of src with the corresponding
// entry of translated, by position, and serializes the document back.
// Surrounding whitespace inside each text node is preserved, so reinserting
// the extracted texts unchanged reproduces the rendered document exactly.
// The output is the html package's normalized serialization: fragments come
// back wrapped in html/head/body, and attribute quoting follows the
// serializer, not the input bytes.
func Reinsert(src string, translated []string) (string, error) {
	root, err := parse(src)
	if err != nil {
		return "", err
	}

	var nodes []*html.Node
	walkText(root, "", func(n *html.Node, path string) {
		nodes = append(nodes, n)
	})

	if len(nodes) != len(translated) {
		return "", fmt.Errorf("document has %d text blocks, got %d translations", len(nodes), len(translated))
	}

	for i, n := range nodes {
		trimmed := strings.TrimSpace(n.Data)
		head := n.Data[:strings.Index(n.Data, trimmed)]
		tail := n.Data[strings.Index(n.Data, trimmed)+len(trimmed):]
		n.Data = head + translated[i] + tail
	}

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return b.String(), nil
}

// parse returns the document root node of src.
func parse(src string) (*html.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if len(doc.Selection.Nodes) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return doc.Selection.Nodes[0], nil
}

// walkText visits every visible, non-empty text node in document order.
// The path passed to visit locates the node's parent element, e.g.
// "html[0]/body[1]/p[0]".
func walkText(n *html.Node, path string, visit func(*html.Node, string)) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			visit(n, path)
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skipElements[n.Data] {
			return
		}
	}

	childIdx := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		childPath := path
		if c.Type == html.ElementNode {
			seg := fmt.Sprintf("%s[%d]", c.Data, childIdx)
			if path == "" {
				childPath = seg
			} else {
				childPath = path + "/" + seg
			}
			childIdx++
		}
		walkText(c, childPath, visit)
	}
}
