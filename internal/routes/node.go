package routes

// Node is a titled entry of a documentation route tree. Group headers only
// organize their children and are never navigable themselves.
type Node struct {
	Title       string `json:"title" yaml:"title"`
	Href        string `json:"href" yaml:"href"`
	GroupHeader bool   `json:"group_header,omitempty" yaml:"group_header,omitempty"`
	Children    []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Page is a navigable entry of a flattened tree.
type Page struct {
	Title string `json:"title" yaml:"title"`
	Href  string `json:"href" yaml:"href"`
}

// VersionTree pairs a version id with its root routes.
type VersionTree struct {
	Version string `json:"version" yaml:"version"`
	Routes  []Node `json:"routes" yaml:"routes"`
}

// cloneNodes deep-copies a node slice so snapshot data never leaks to callers.
func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Node{
			Title:       n.Title,
			Href:        n.Href,
			GroupHeader: n.GroupHeader,
			Children:    cloneNodes(n.Children),
		}
	}
	return out
}
