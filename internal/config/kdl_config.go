package config

import (
	"fmt"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// listKeys are top-level nodes whose arguments (or children) are patterns
var listKeys = map[string]bool{
	"include":     true,
	"exclude":     true,
	"exclude_dir": true,
}

// parseKDL overlays a KDL document onto a copy of base:
//
//	search {
//	    ignore_case true
//	    context 2
//	}
//	exclude_dir "vendor" ".git"
func parseKDL(content string, base *Config) (*Config, error) {
	cfg := base.clone()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		name := nodeName(n)
		if listKeys[name] {
			if err := cfg.set(name, collectStringArgs(n)); err != nil {
				return nil, err
			}
			continue
		}

		if len(n.Children) == 0 {
			// A bare top-level value is never valid; record it for the Validator
			cfg.unknown = append(cfg.unknown, name)
			continue
		}

		for _, cn := range n.Children {
			key := name + "." + nodeName(cn)
			v, ok := firstArg(cn)
			if !ok {
				return nil, fmt.Errorf("%s: missing value", key)
			}
			if err := cfg.set(key, v); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// Helper functions leveraging the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

// firstArg returns the first argument as a plain Go value
func firstArg(n *document.Node) (interface{}, bool) {
	if len(n.Arguments) == 0 {
		return nil, false
	}
	return n.Arguments[0].Value, true
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	// First try to collect from arguments (for inline format)
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format: exclude { "pattern" } makes each string a child node
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				// If no arguments, the node name itself is the string value
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
