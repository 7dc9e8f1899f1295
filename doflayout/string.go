package doflayout

import (
	"fmt"
	"strings"
)

// String returns a multi-line summary of the layout and its sub-layouts
func (l *Layout) String() string {
	var sb strings.Builder
	sb.WriteString("=== Dof Layout Summary ===\n")
	l.summary(&sb, "")
	sb.WriteString("==========================\n")
	return sb.String()
}

func (l *Layout) summary(sb *strings.Builder, indent string) {
	sb.WriteString(fmt.Sprintf("%sCell: %v\n", indent, l.CellType()))
	sb.WriteString(fmt.Sprintf("%sDofs: %d (block size %d)\n", indent, l.numDofs, l.blockSize))
	for d := range l.numEntityDofs {
		sb.WriteString(fmt.Sprintf("%s  dim %d: %d entities, %d dofs each, %d closure dofs each\n",
			indent, d, l.topology.NumEntities(d), l.numEntityDofs[d], l.numEntityClosureDofs[d]))
	}
	sb.WriteString(fmt.Sprintf("%sBase permutations: %d\n", indent, len(l.permutations)))
	if l.IsView() {
		sb.WriteString(fmt.Sprintf("%sParent map: %v\n", indent, l.parentMap))
	}
	for i, c := range l.children {
		sb.WriteString(fmt.Sprintf("%s--- Sub-layout %d ---\n", indent, i))
		c.summary(sb, indent+"  ")
	}
}
