package content

import (
	"strings"

	"golang.org/x/net/html"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 200

// ReadMinutes estimates reading time as ceil(words / 200).
func ReadMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// WordCount counts the words of the visible text in an HTML fragment.
// Script and style contents are ignored.
func WordCount(fragment string) int {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return len(strings.Fields(fragment))
	}

	count := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			count += len(strings.Fields(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return count
}
