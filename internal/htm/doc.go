// Package htm colors a spatial pooler's state onto an SP-over-input
// visualization, and carries a small deterministic pooler that produces
// that state for demos and scripted runs.
package htm
