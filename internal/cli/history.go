package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/clockstate/internal/ledger"
)

// TransactionView is one entry of the history output.
type TransactionView struct {
	Signature string   `json:"signature"`
	Slot      uint64   `json:"slot"`
	FeePayer  string   `json:"fee_payer"`
	Status    string   `json:"status"`
	Error     string   `json:"error,omitempty"`
	Logs      []string `json:"logs"`
}

// HistoryResult lists recent transactions, newest first.
type HistoryResult struct {
	Transactions []TransactionView `json:"transactions"`
}

func (r HistoryResult) String() string {
	if len(r.Transactions) == 0 {
		return "No transactions."
	}
	var b strings.Builder
	for i, tx := range r.Transactions {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%6d  %-6s  %s", tx.Slot, tx.Status, tx.Signature)
		if tx.Error != "" {
			fmt.Fprintf(&b, "\n        %s", tx.Error)
		}
	}
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent transactions",
		Long: `List the most recent transactions recorded in the local ledger,
including rejected ones, newest first.

Example:
  clockctl history --limit 5`,
		Args: argsWithExitCode(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := newFormatter(rootOpts, cmd)
			if limit <= 0 {
				return f.Fail(ExitCommandError, ErrCodeArgument, fmt.Sprintf("limit must be positive, got %d", limit), nil, nil)
			}

			s, err := openSession(ctx, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.store.ListTransactions(ctx, limit)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to list transactions", err, nil)
			}
			return f.Success(HistoryResult{Transactions: toViews(records)})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of transactions")
	return cmd
}

func toViews(records []ledger.TransactionRecord) []TransactionView {
	views := make([]TransactionView, len(records))
	for i, rec := range records {
		views[i] = TransactionView{
			Signature: rec.Signature,
			Slot:      rec.Slot,
			FeePayer:  rec.FeePayer.String(),
			Status:    rec.Status,
			Error:     rec.Error,
			Logs:      rec.Logs,
		}
	}
	return views
}
