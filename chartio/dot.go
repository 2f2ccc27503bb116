package chartio

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/comalice/chartbuild"
)

// Edge is one rendered transition between absolute state paths.
type Edge struct {
	From  string
	To    string
	Label string
}

// DOT generates Graphviz DOT source for the statechart. Compound and
// parallel states become clusters; active lists the dot paths of the
// current configuration, which are highlighted along with their ancestors.
func DOT(cfg *chartbuild.MachineConfig, active ...string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(cfg.ID))
	buf.WriteString(`  rankdir=LR;
  compound=true;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	on := activeSet(active)
	renderInitial(&buf, "", cfg.Initial, "  ")
	for _, name := range cfg.ChildNames() {
		renderState(&buf, name, cfg.States[name], on, "  ")
	}

	for _, e := range Edges(cfg) {
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", quote(e.From), quote(e.To), quote(e.Label))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// activeSet returns every active path and all of its ancestors.
func activeSet(current []string) map[string]bool {
	active := make(map[string]bool)
	for _, path := range current {
		segments := strings.Split(path, ".")
		for i := range segments {
			if p := strings.Join(segments[:i+1], "."); p != "" {
				active[p] = true
			}
		}
	}
	return active
}

// Edges collects every targeted transition in the machine, resolved to
// absolute paths and sorted by source, then label.
func Edges(cfg *chartbuild.MachineConfig) []Edge {
	var edges []Edge
	add := func(from, target, label string) {
		if target == "" {
			return
		}
		if to, ok := cfg.ResolveTarget(from, target); ok {
			edges = append(edges, Edge{From: node(from, cfg.ID), To: node(to, cfg.ID), Label: label})
		}
	}

	states := cfg.Flatten()
	states[""] = &cfg.StateConfig
	for path, s := range states {
		for _, event := range s.On.Events() {
			for _, t := range s.On[event] {
				add(path, t.Target, withGuard(event, t.Guard))
			}
		}
		for delay, t := range s.After {
			add(path, t.Target, withGuard("after "+string(delay), t.Guard))
		}
		for _, t := range s.Always {
			add(path, t.Target, withGuard("always", t.Guard))
		}
		if inv := s.Invoke; inv != nil {
			if inv.OnDone != nil {
				add(path, inv.OnDone.Target, withGuard("done: "+inv.Src, inv.OnDone.Guard))
			}
			if inv.OnError != nil {
				add(path, inv.OnError.Target, withGuard("error: "+inv.Src, inv.OnError.Guard))
			}
		}
		if s.Kind() == chartbuild.History {
			add(path, s.Target, "default")
		}
	}

	slices.SortFunc(edges, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		if c := strings.Compare(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return edges
}

func withGuard(label, guard string) string {
	if guard == "" {
		return label
	}
	return label + " [" + guard + "]"
}

// node names the root after the machine ID.
func node(path, id string) string {
	if path == "" {
		return id
	}
	return path
}

func renderInitial(buf *bytes.Buffer, path, initial, indent string) {
	if initial == "" {
		return
	}
	marker := path + "._initial"
	fmt.Fprintf(buf, "%s%s [shape=point, label=\"\"];\n", indent, quote(marker))
	fmt.Fprintf(buf, "%s%s -> %s;\n", indent, quote(marker), quote(joinPath(path, initial)))
}

// renderState recursively renders states and subgraphs.
func renderState(buf *bytes.Buffer, path string, s *chartbuild.StateConfig, active map[string]bool, indent string) {
	if s == nil {
		return
	}
	name := path[strings.LastIndex(path, ".")+1:]

	if len(s.States) > 0 {
		// Compound or parallel: cluster
		fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, quote("cluster_"+path))
		inner := indent + "  "
		fmt.Fprintf(buf, "%slabel=%s;\n", inner, quote(fmt.Sprintf("%s (%s)", name, s.Kind())))
		if s.Kind() == chartbuild.Parallel {
			fmt.Fprintf(buf, "%sstyle=dashed;\n", inner)
		}
		if active[path] {
			fmt.Fprintf(buf, "%scolor=orange;\n", inner)
		}

		style := ""
		if active[path] {
			style = ", style=filled, fillcolor=orange"
		}
		fmt.Fprintf(buf, "%s%s [label=%s, shape=ellipse%s];\n", inner, quote(path), quote(name), style)

		renderInitial(buf, path, s.Initial, inner)
		for _, child := range s.ChildNames() {
			renderState(buf, joinPath(path, child), s.States[child], active, inner)
		}
		fmt.Fprintf(buf, "%s}\n", indent)
		return
	}

	attrs := []string{"label=" + quote(name)}
	switch s.Kind() {
	case chartbuild.Final:
		attrs = append(attrs, "shape=doublecircle")
	case chartbuild.History:
		label := "H"
		if s.History == chartbuild.DeepHistory {
			label = "H*"
		}
		attrs = append(attrs[:0], "label="+quote(label), "shape=circle")
	}
	if active[path] {
		attrs = append(attrs, "style=filled", "fillcolor=lightgreen")
	}
	fmt.Fprintf(buf, "%s%s [%s];\n", indent, quote(path), strings.Join(attrs, ", "))
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
