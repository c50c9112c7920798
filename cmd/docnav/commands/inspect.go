package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/routes"
	"git.home.luguber.info/inful/docnav/internal/versiongate"
)

// InspectCmd groups read-only queries against a registry artifact.
type InspectCmd struct {
	Registry string `short:"r" help:"Registry artifact to inspect (default from config)"`
	JSON     bool   `help:"Print JSON instead of text"`

	Versions InspectVersionsCmd `cmd:"" help:"List supported versions, default first"`
	Tree     InspectTreeCmd     `cmd:"" help:"Print the navigation tree of a version"`
	Pages    InspectPagesCmd    `cmd:"" help:"Print the flattened page order of a version"`
	Adjacent InspectAdjacentCmd `cmd:"" help:"Show previous and next pages for a path"`
	Gate     InspectGateCmd     `cmd:"" help:"Show the version gate decision for a request path"`
}

type inspection struct {
	cfg *config.Config
	reg *routes.Registry
	out io.Writer
	raw bool
}

func (c *InspectCmd) open(g *Global, root *CLI) (*inspection, error) {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return nil, err
	}
	path := c.Registry
	if path == "" {
		path = cfg.Docs.RegistryFile
	}
	_, reg, err := openRegistry(cfg, path)
	if err != nil {
		return nil, err
	}
	return &inspection{cfg: cfg, reg: reg, out: g.Out, raw: c.JSON}, nil
}

func (in *inspection) json(v any) error {
	enc := json.NewEncoder(in.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// InspectVersionsCmd implements 'inspect versions'.
type InspectVersionsCmd struct{}

func (c *InspectVersionsCmd) Run(g *Global, root *CLI) error {
	in, err := root.Inspect.open(g, root)
	if err != nil {
		return err
	}
	versions := in.reg.SupportedVersions()
	if in.raw {
		return in.json(map[string]any{"default": in.reg.DefaultVersion(), "versions": versions})
	}
	for i, v := range versions {
		if i == 0 {
			fmt.Fprintf(in.out, "%s (default)\n", v)
			continue
		}
		fmt.Fprintln(in.out, v)
	}
	return nil
}

// InspectTreeCmd implements 'inspect tree'.
type InspectTreeCmd struct {
	Version string `arg:"" optional:"" help:"Version (default version when omitted or unknown)"`
}

func (c *InspectTreeCmd) Run(g *Global, root *CLI) error {
	in, err := root.Inspect.open(g, root)
	if err != nil {
		return err
	}
	tree := in.reg.TreeForVersion(c.Version)
	if in.raw {
		return in.json(tree)
	}
	printTree(in.out, tree, 0)
	return nil
}

func printTree(w io.Writer, nodes []routes.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		if n.GroupHeader {
			fmt.Fprintf(w, "%s%s/\n", indent, n.Title)
		} else {
			fmt.Fprintf(w, "%s%s  %s\n", indent, n.Title, n.Href)
		}
		printTree(w, n.Children, depth+1)
	}
}

// InspectPagesCmd implements 'inspect pages'.
type InspectPagesCmd struct {
	Version string `arg:"" optional:"" help:"Version (default version when omitted or unknown)"`
}

func (c *InspectPagesCmd) Run(g *Global, root *CLI) error {
	in, err := root.Inspect.open(g, root)
	if err != nil {
		return err
	}
	pages := in.reg.Pages(c.Version)
	if in.raw {
		return in.json(pages)
	}
	for i, p := range pages {
		fmt.Fprintf(in.out, "%3d  %-40s %s\n", i+1, p.Href, p.Title)
	}
	return nil
}

// InspectAdjacentCmd implements 'inspect adjacent'.
type InspectAdjacentCmd struct {
	Path    string `arg:"" help:"Request path or page href"`
	Version string `short:"V" help:"Version (default version when omitted or unknown)"`
}

func (c *InspectAdjacentCmd) Run(g *Global, root *CLI) error {
	in, err := root.Inspect.open(g, root)
	if err != nil {
		return err
	}
	adj := in.reg.Adjacent(c.Path, c.Version)
	if in.raw {
		return in.json(adj)
	}
	fmt.Fprintf(in.out, "prev: %s\n", pageLine(adj.Prev))
	fmt.Fprintf(in.out, "next: %s\n", pageLine(adj.Next))
	return nil
}

func pageLine(p *routes.Page) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", p.Href, p.Title)
}

// InspectGateCmd implements 'inspect gate'.
type InspectGateCmd struct {
	Path string `arg:"" help:"Request path"`
}

func (c *InspectGateCmd) Run(g *Global, root *CLI) error {
	in, err := root.Inspect.open(g, root)
	if err != nil {
		return err
	}
	gate := versiongate.New(in.cfg.Docs.Root, in.reg, versiongate.WithExemptPrefixes(in.cfg.Docs.AssetPrefixes...))
	d := gate.Resolve(c.Path)
	if in.raw {
		return in.json(d)
	}
	switch {
	case d.Redirect:
		fmt.Fprintf(in.out, "redirect %d -> %s\n", in.cfg.Server.RedirectStatus, d.Target)
	case d.Exempt:
		fmt.Fprintln(in.out, "pass (exempt)")
	default:
		fmt.Fprintln(in.out, "pass")
	}
	return nil
}
