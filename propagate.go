package gridcalc

import "fmt"

// propagate re-evaluates every cell downstream of c exactly once, in
// calculation order. Independent dependents keep their registration order.
// It stops at the first failure, leaving the failing dependent holding the
// error token and every cell after it in the order untouched.
func (e *evaluator) propagate(c *Cell) error {
	order, err := e.calculationOrder(c)
	if err != nil {
		return err
	}
	for _, dep := range order {
		value, err := e.evaluateTarget(dep.formula, dep.name)
		if err != nil {
			dep.value = Token(err)
			e.log.Warn("dependent failed", "cell", dep.name, "formula", dep.formula, "error", err)
			return err
		}
		dep.value = value
		e.log.Trace("propagated", "cell", dep.name, "value", value)
	}
	return nil
}

// calculationOrder returns the transitive dependents of c, excluding c, so
// that every cell comes after all the cells it depends on.
func (e *evaluator) calculationOrder(c *Cell) ([]*Cell, error) {
	visited := map[string]struct{}{c.name: {}}
	var post []*Cell

	var visit func(*Cell, int) error
	visit = func(cell *Cell, depth int) error {
		if depth > e.maxDepth {
			return newError(KindDepthLimit, cell.name, "dependents chain deeper than %d cells", e.maxDepth)
		}
		// reverse iteration so the reversed post-order lists siblings in
		// registration order
		for i := len(cell.dependents) - 1; i >= 0; i-- {
			name := cell.dependents[i]
			if _, ok := visited[name]; ok {
				continue
			}
			visited[name] = struct{}{}
			dep, err := e.grid.CellAt(name)
			if err != nil {
				return fmt.Errorf("stale dependent of %s: %w", cell.name, err)
			}
			if err := visit(dep, depth+1); err != nil {
				return err
			}
		}
		post = append(post, cell)
		return nil
	}
	if err := visit(c, 0); err != nil {
		return nil, err
	}

	// post ends with c itself
	order := make([]*Cell, 0, len(post)-1)
	for i := len(post) - 2; i >= 0; i-- {
		order = append(order, post[i])
	}
	return order, nil
}
