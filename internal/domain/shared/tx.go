package shared

import "context"

// Transactor runs fn inside one database transaction. Repositories invoked
// with the context handed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NumberSeries names a document numbering sequence
type NumberSeries string

const (
	SeriesPettyCash      NumberSeries = "PC"
	SeriesPaymentVoucher NumberSeries = "PV"
	SeriesLeaseInvoice   NumberSeries = "LI"
	SeriesLeaseReceipt   NumberSeries = "LR"
)

// NumberGenerator hands out the next document number of a series
type NumberGenerator interface {
	Next(ctx context.Context, series NumberSeries) (string, error)
}
