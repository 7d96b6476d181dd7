package planning

import "github.com/fschopp/project-planning-js/planning/heap"

// jobNode is one node of the immutable job DAG. remainingDeps is the only
// mutable field: it counts down as dependencies finish, and the node is
// pushed onto the ready heap the moment it reaches zero.
type jobNode struct {
	idx           int
	remainingDeps int
	dependents    []int
}

// buildJobGraph returns one node per job (adjacency + in-degree) and a
// ready heap, ordered by ascending input index, already seeded with every
// job that has no dependencies.
func buildJobGraph(jobs []Job) ([]*jobNode, *heap.Heap[*jobNode]) {
	nodes := make([]*jobNode, len(jobs))
	for i, j := range jobs {
		nodes[i] = &jobNode{idx: i, remainingDeps: len(j.Dependencies)}
	}
	for i, j := range jobs {
		for _, d := range j.Dependencies {
			nodes[d].dependents = append(nodes[d].dependents, i)
		}
	}

	var initial []*jobNode
	for _, n := range nodes {
		if n.remainingDeps == 0 {
			initial = append(initial, n)
		}
	}

	ready := heap.New(initial, func(a, b *jobNode) bool { return a.idx < b.idx })
	return nodes, ready
}

// complete decrements every dependent's remaining-dependency count and
// pushes any that just reached zero onto the ready heap.
func (n *jobNode) complete(nodes []*jobNode, ready *heap.Heap[*jobNode]) {
	for _, d := range n.dependents {
		dep := nodes[d]
		dep.remainingDeps--
		if dep.remainingDeps == 0 {
			assertReadyAfterDeps(dep)
			ready.Add(dep)
		}
	}
}
