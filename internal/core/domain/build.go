package domain

import "time"

// PageSource is a page file waiting to be linked.
type PageSource struct {
	// EntityID is the entity the page renders.
	EntityID string

	// Path is where the page content lives.
	Path string
}

// BuildOptions controls a batch build.
type BuildOptions struct {
	// Workers is the number of pages linked concurrently. Zero means one.
	Workers int

	// DryRun links pages without writing output.
	DryRun bool

	// Only restricts the build to these entity IDs when non-empty.
	Only []string
}

// PageReport summarises one page of a build.
type PageReport struct {
	EntityID      string
	LinksInserted int
	TargetURLs    []string
	Error         string
}

// Failed reports whether the page could not be linked.
func (r PageReport) Failed() bool {
	return r.Error != ""
}

// BuildReport summarises a batch build.
type BuildReport struct {
	// RunID uniquely identifies the build run.
	RunID string

	// StartedAt is when the build began.
	StartedAt time.Time

	// Duration is how long the build took.
	Duration time.Duration

	// Pages holds one report per page, sorted by entity ID.
	Pages []PageReport

	// LinksInserted is the total across all pages.
	LinksInserted int

	// Failed is the number of pages that could not be linked.
	Failed int
}
