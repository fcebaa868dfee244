package graphsel

// expand returns anchor plus every node reachable from it within depth hops
// of next. The walk is breadth-first and visits each node once, so it
// terminates on cyclic graphs even when depth is unbounded.
func expand(anchor NodeSet, depth Depth, next func(NodeID) []NodeID) NodeSet {
	visited := anchor.Clone()

	frontier := anchor.Sorted()

	for hop := 0; len(frontier) > 0 && (depth.IsUnbounded() || hop < int(depth)); hop++ {
		var nextFrontier []NodeID

		for _, id := range frontier {
			for _, neighbor := range next(id) {
				if visited.Contains(neighbor) {
					continue
				}

				visited.Add(neighbor)
				nextFrontier = append(nextFrontier, neighbor)
			}
		}

		frontier = nextFrontier
	}

	return visited
}
