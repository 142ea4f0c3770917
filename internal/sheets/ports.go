// Package sheets defines the ports for the spreadsheet mirror the background
// worker writes to.
package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter mirrors one transaction into the export target and
	// returns a reference to where it landed.
	TransactionWriter interface {
		Append(ctx context.Context, userID string, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionDeleter removes a previously mirrored transaction by id.
	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}
)
