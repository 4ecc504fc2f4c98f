package draw

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// ControlFlowTree renders cf as a tree: one branch per block holding its
// instructions and successors. visits may be nil.
func ControlFlowTree(cf *ControlFlow, visits map[uint32]int) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("program: %d blocks", len(cf.Blocks)))

	for _, b := range cf.Blocks {
		meta := b.Label()
		if n, ok := visits[b.Start]; ok {
			meta = fmt.Sprintf("%s x%d", meta, n)
		}
		branch := tree.AddMetaBranch(meta, fmt.Sprintf("%d instructions", len(b.Entries)))
		for _, e := range b.Entries {
			branch.AddMetaNode(e.Address, e.Text)
		}
		if len(b.Succ) == 0 && len(b.Unresolved) == 0 {
			continue
		}
		next := branch.AddBranch("next")
		for _, s := range b.Succ {
			if sb, ok := cf.Block(s); ok {
				next.AddNode(sb.Label())
			}
		}
		for _, t := range b.Unresolved {
			next.AddMetaNode("invalid", fmt.Sprintf("#%d", t))
		}
	}
	return tree
}
