package bvh

import (
	"github.com/Cem-Kaya/bvh-article-fork/log"
)

var tlasLogger = log.New("bvh.tlas")

// TLAS is a top-level acceleration structure: a BVH built over transformed
// mesh instances. It owns its node pool and working index array; it only
// references (does not own) the instance list.
type TLAS struct {
	Instances []*Instance

	Nodes     []TLASNode
	NodesUsed uint32

	// nodeIdx is the working set of active cluster node indices used during
	// a reference build; it is retained as scratch storage across builds
	// instead of being a package-level static, per SPEC_FULL.md §9.
	nodeIdx []uint32

	stats Stats
}

// NewTLAS validates the instance count and returns an empty TLAS ready for
// Build or BuildFast. Oversized inputs are rejected here rather than
// allowed to silently overflow the 16-bit child-index packing later.
func NewTLAS(instances []*Instance) (*TLAS, error) {
	if len(instances) > maxTLASNodes {
		return nil, ErrTooManyInstances
	}
	return &TLAS{Instances: instances}, nil
}

// Stats returns the statistics captured by the most recent Build/BuildFast.
func (t *TLAS) Stats() Stats {
	return t.stats
}

// allocatePool sizes the node pool for the worst case (2N interior+leaf
// nodes, plus one for the reserved root slot) and resets the watermark.
func (t *TLAS) allocatePool() {
	n := len(t.Instances)
	t.Nodes = make([]TLASNode, maxInt(2*n+1, 1))
	t.NodesUsed = 1
}
