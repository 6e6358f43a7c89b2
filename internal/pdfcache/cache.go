package pdfcache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the fixed expiry window for handoff entries. A generated PDF
// only needs to survive until the follow-up download request.
const DefaultTTL = 10 * time.Minute

// ErrNotFound is returned for unknown or expired identifiers.
var ErrNotFound = errors.New("pdf not found")

// Store bridges the PDF generation and download handlers across two
// independent request/response cycles. Payloads are raw base64; identifiers
// are opaque capabilities (any caller holding one can retrieve the payload).
type Store interface {
	// Store saves the payload under a fresh identifier and returns it.
	// Implementations sweep expired entries opportunistically here rather
	// than on a background timer.
	Store(ctx context.Context, payloadBase64 string) (string, error)

	// Retrieve returns the payload for an identifier, or ErrNotFound when the
	// identifier is unknown or the entry has expired. Idempotent.
	Retrieve(ctx context.Context, id string) (string, error)

	// Sweep removes expired entries and reports how many were dropped.
	Sweep(ctx context.Context) int
}
