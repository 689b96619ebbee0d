package helm

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// NamespaceManifest generates a Namespace YAML manifest string.
// Labels are written in sorted key order.
func NamespaceManifest(name string, labels map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "apiVersion: v1\nkind: Namespace\nmetadata:\n  name: %s\n", name)
	if len(labels) > 0 {
		sb.WriteString("  labels:\n")
		for _, k := range slices.Sorted(maps.Keys(labels)) {
			fmt.Fprintf(&sb, "    %s: %q\n", k, labels[k])
		}
	}
	return sb.String()
}
