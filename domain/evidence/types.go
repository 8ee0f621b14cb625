package evidence

import (
	"fmt"
	"sort"
	"strings"
)

// Block is the normalized text a single source returned for one subject.
type Block struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Bundle is an ordered, additive collection of evidence blocks. An empty
// bundle is valid: the investigation still proceeds and produces a
// conservative report.
type Bundle struct {
	blocks []Block
}

// NewBundle builds a bundle from gathered blocks, sorted by source name so
// downstream prompts are reproducible regardless of call-completion order.
func NewBundle(blocks []Block) Bundle {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Source < sorted[j].Source
	})
	return Bundle{blocks: sorted}
}

// Blocks returns the ordered blocks.
func (b Bundle) Blocks() []Block {
	out := make([]Block, len(b.blocks))
	copy(out, b.blocks)
	return out
}

// IsEmpty reports whether no source contributed evidence.
func (b Bundle) IsEmpty() bool {
	return len(b.blocks) == 0
}

// SourcesChecked returns the names of sources that contributed blocks.
func (b Bundle) SourcesChecked() []string {
	out := make([]string, 0, len(b.blocks))
	for _, blk := range b.blocks {
		out = append(out, blk.Source)
	}
	return out
}

// Render concatenates the blocks into one prompt-ready section. Sources
// never overwrite each other; each block keeps its own header.
func (b Bundle) Render() string {
	if len(b.blocks) == 0 {
		return "No external evidence could be gathered for this subject."
	}
	var sb strings.Builder
	for i, blk := range b.blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "=== SOURCE: %s ===\n", blk.Source)
		sb.WriteString(strings.TrimSpace(blk.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}
