package config

import "golang.org/x/exp/slices"

type graph struct {
	nodes map[ServiceID][]ServiceID
}

func newGraph() *graph {
	return &graph{nodes: make(map[ServiceID][]ServiceID)}
}

func (g *graph) addNode(id ServiceID, deps ...ServiceID) {
	g.nodes[id] = deps
}

// Returns every node after its dependencies. Ties are broken by service type
// so the boot order doesn't depend on map iteration.
func (g *graph) topologicalSort() []ServiceID {
	visited := make(map[ServiceID]bool)
	stack := []ServiceID{}

	var visit func(ServiceID)

	visit = func(service ServiceID) {
		if _, ok := visited[service]; !ok {
			visited[service] = true

			for _, dep := range g.nodes[service] {
				visit(dep)
			}

			stack = append(stack, service)
		}
	}

	roots := make([]ServiceID, 0, len(g.nodes))
	for service := range g.nodes {
		roots = append(roots, service)
	}

	slices.SortFunc(roots, func(a, b ServiceID) bool {
		return a.Type < b.Type
	})

	for _, service := range roots {
		visit(service)
	}

	return stack
}
