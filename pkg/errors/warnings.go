package errors

import "fmt"

// Warning is a non-fatal condition noticed during resolution, such as a
// group source naming a leaf that does not exist in the tree. Warnings
// never abort a run; they are collected and reported after processing.
type Warning struct {
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// Warnf creates a formatted warning.
func Warnf(format string, args ...any) Warning {
	return Warning{Message: fmt.Sprintf(format, args...)}
}

// Warnings accumulates warnings during a pipeline run.
// The zero value is ready to use. Not safe for concurrent use; each
// resolution stage owns its own collector.
type Warnings struct {
	list []Warning
}

// Add appends a formatted warning.
func (ws *Warnings) Add(format string, args ...any) {
	ws.list = append(ws.list, Warnf(format, args...))
}

// Merge appends all warnings from another collector.
func (ws *Warnings) Merge(other *Warnings) {
	if other == nil {
		return
	}
	ws.list = append(ws.list, other.list...)
}

// All returns the collected warnings in insertion order.
func (ws *Warnings) All() []Warning {
	return ws.list
}

// Len returns the number of collected warnings.
func (ws *Warnings) Len() int {
	return len(ws.list)
}
