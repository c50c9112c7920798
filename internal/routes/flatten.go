package routes

// Flatten returns the navigable pages of tree in depth-first pre-order.
// A page with children is emitted before its children; a group header emits
// nothing itself but all of its navigable descendants. Sibling order follows
// declaration order and the result is always freshly allocated.
func Flatten(tree []Node) []Page {
	pages := make([]Page, 0, countNodes(tree))
	return appendPages(pages, tree)
}

func appendPages(pages []Page, nodes []Node) []Page {
	for _, n := range nodes {
		if !n.GroupHeader {
			pages = append(pages, Page{Title: n.Title, Href: n.Href})
		}
		if len(n.Children) > 0 {
			pages = appendPages(pages, n.Children)
		}
	}
	return pages
}

func countNodes(nodes []Node) int {
	total := len(nodes)
	for _, n := range nodes {
		total += countNodes(n.Children)
	}
	return total
}
