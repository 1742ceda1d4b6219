package gridcalc

import (
	"fmt"
	"slices"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Cell holds an error or the graph is inconsistent
	SeverityWarning                 // Stored value may be out of date
)

// ValidationIssue represents a single problem found in the sheet.
type ValidationIssue struct {
	Severity Severity
	Cell     string
	Message  string
}

// String formats the issue as "[ERROR] A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Cell, v.Message)
}

// Validate inspects the sheet without changing it. It reports cells holding
// error tokens, breaks between the precedents and dependents indexes, and
// formula cells whose stored value differs from a fresh evaluation.
func (s *Sheet) Validate() []ValidationIssue {
	var issues []ValidationIssue
	issues = append(issues, s.validateValues()...)
	issues = append(issues, s.validateGraph()...)
	issues = append(issues, s.validateFreshness()...)
	return issues
}

// validateValues reports every cell whose value is an error token.
func (s *Sheet) validateValues() []ValidationIssue {
	var issues []ValidationIssue
	s.grid.each(func(c *Cell) {
		if IsErrorToken(c.value) {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Cell:     c.name,
				Message:  fmt.Sprintf("value is error token %s", c.value),
			})
		}
	})
	return issues
}

// validateGraph checks that the dependents index is the exact reverse of the
// precedents sets.
func (s *Sheet) validateGraph() []ValidationIssue {
	var issues []ValidationIssue
	report := func(cell, format string, args ...any) {
		issues = append(issues, ValidationIssue{
			Severity: SeverityError,
			Cell:     cell,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	s.grid.each(func(c *Cell) {
		if slices.Contains(c.dependents, c.name) {
			report(c.name, "cell lists itself as a dependent")
		}
		for _, name := range c.precedents {
			p, err := s.grid.CellAt(name)
			if err != nil {
				report(c.name, "precedent %s is not in the grid", name)
				continue
			}
			if !slices.Contains(p.dependents, c.name) {
				report(c.name, "precedent %s does not list %s as a dependent", name, c.name)
			}
		}
		for _, name := range c.dependents {
			d, err := s.grid.CellAt(name)
			if err != nil {
				report(c.name, "dependent %s is not in the grid", name)
				continue
			}
			if !slices.Contains(d.precedents, c.name) {
				report(c.name, "dependent %s does not reference %s", name, c.name)
			}
		}
	})
	return issues
}

// validateFreshness re-evaluates every formula cell without committing and
// warns where the result differs from the stored value.
func (s *Sheet) validateFreshness() []ValidationIssue {
	var issues []ValidationIssue
	ev := s.evaluator()
	s.grid.each(func(c *Cell) {
		if !IsFormula(c.formula) {
			return
		}
		value, err := ev.evaluateTarget(c.formula, c.name)
		if err != nil {
			value = Token(err)
		}
		if value != c.value {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Cell:     c.name,
				Message:  fmt.Sprintf("stored value %q differs from computed %q", c.value, value),
			})
		}
	})
	return issues
}
