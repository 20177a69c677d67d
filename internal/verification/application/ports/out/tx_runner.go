package out

import "context"

// TxRunner runs fn as one atomic unit. The vote engine uses it to span
// "check → insert vote → recompute quorum → transition → ledger update"
// under the report's row lock.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
