package sheets

import (
	"context"

	"awardstats/internal/aggregate"
)

// Ports for outbound summary publication.
type (
	// GrandTotalAppender records the final multi-year totals in an
	// external spreadsheet for the people who track them by hand.
	GrandTotalAppender interface {
		AppendGrandTotal(ctx context.Context, span string, t aggregate.Totals) error
	}
)
