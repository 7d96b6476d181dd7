//go:build planning_debug

package planning

import "fmt"

// This file holds the "Internal invariant violation" checks spec.md §7
// calls for: assertions cheap enough to run in development, expensive
// enough (or paranoid enough) to strip from release builds. Build with
// -tags planning_debug to enable them; without the tag, assertGapsSane and
// assertReadyAfterDeps are no-ops compiled out entirely (see assert_off.go).

func assertGapsSane(from *gapNode) {
	prev := from
	for n := from.next; n != nil; n = n.next {
		if n.start > n.end {
			panic(fmt.Sprintf("gap list invariant violated: start %d > end %d", n.start, n.end))
		}
		if prev.end > n.start {
			panic(fmt.Sprintf("gap list invariant violated: overlapping gaps [%d,%d) and [%d,%d)", prev.start, prev.end, n.start, n.end))
		}
		prev = n
	}
}

func assertReadyAfterDeps(node *jobNode) {
	if node.remainingDeps != 0 {
		panic(fmt.Sprintf("job %d pushed onto ready heap with %d unscheduled dependencies", node.idx, node.remainingDeps))
	}
}
