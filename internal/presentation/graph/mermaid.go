package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cvrguide/pkg/ports"
)

// Overlay marks a session's progress on the graph.
type Overlay struct {
	Completed []string
	Active    string
}

// selectionNode is the synthetic menu node between bootstrap and services.
const selectionNode = "service_selection"

// GenerateMermaid renders the catalog as a Mermaid flowchart:
// the bootstrap as a ((circle)), the menu as a {diamond} and each service
// as a [rectangle] labelled with its step count. Prerequisites are dotted edges.
func GenerateMermaid(c ports.GuideCatalog, overlay *Overlay) (string, error) {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	boot, err := c.Get(c.Bootstrap())
	if err != nil {
		return "", err
	}
	bootID := sanitizeMermaidID(boot.ID)
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", bootID, label(boot.DisplayName(), len(boot.Steps)))
	fmt.Fprintf(&sb, "    %s{\"Choose a service\"}\n", selectionNode)
	fmt.Fprintf(&sb, "    %s --> %s\n", bootID, selectionNode)

	for _, id := range c.Services() {
		w, err := c.Get(id)
		if err != nil {
			return "", err
		}
		safeID := sanitizeMermaidID(w.ID)
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", safeID, label(w.DisplayName(), len(w.Steps)))
		fmt.Fprintf(&sb, "    %s --> %s\n", selectionNode, safeID)
		for _, pre := range w.Prerequisites {
			if pre == boot.ID {
				continue
			}
			fmt.Fprintf(&sb, "    %s -. \"requires\" .-> %s\n", sanitizeMermaidID(pre), safeID)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef completed fill:#dcfce7,stroke:#15803d,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Completed {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s completed;\n", safeID)
			}
		}
		if overlay.Active != "" {
			fmt.Fprintf(&sb, "    class %s active;\n", sanitizeMermaidID(overlay.Active))
		}
	}

	return sb.String(), nil
}

func label(name string, steps int) string {
	name = strings.ReplaceAll(name, "\"", "'")
	if steps == 1 {
		return name + " <br/> 1 step"
	}
	return fmt.Sprintf("%s <br/> %d steps", name, steps)
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
