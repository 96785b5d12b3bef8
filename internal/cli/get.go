package cli

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/clockstate/internal/clockcodec"
	"github.com/roach88/clockstate/internal/program"
)

// GetResult is the decoded storage account.
type GetResult struct {
	Address   string            `json:"address"`
	Variant   string            `json:"variant"`
	Data      string            `json:"data"` // hex
	Timestamp *uint64           `json:"timestamp,omitempty"`
	Clock     *clockcodec.Clock `json:"clock,omitempty"`
}

func (r GetResult) String() string {
	if r.Timestamp != nil {
		return fmt.Sprintf("%d", *r.Timestamp)
	}
	if c := r.Clock; c != nil {
		return fmt.Sprintf("slot: %d, epoch_start_timestamp: %d, epoch: %d, leader_schedule_epoch: %d, unix_timestamp: %d",
			c.Slot, c.EpochStartTimestamp, c.Epoch, c.LeaderScheduleEpoch, c.UnixTimestamp)
	}
	return r.Data
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Read the stored value",
		Long: `Read the storage account from the local ledger and decode it with the
configured variant.

Exit codes:
  0 - Value printed
  1 - Storage account not created yet
  2 - Command error

Example:
  clockctl get
  clockctl get --format json`,
		Args: argsWithExitCode(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(ctx, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := program.ReadStorage(ctx, s.bank, s.cfg.ProgramID)
			if errors.Is(err, program.ErrStorageNotFound) {
				return f.Fail(ExitFailure, ErrCodeNotFound, "storage account not created", err, nil)
			}
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to read storage", err, nil)
			}

			result := GetResult{
				Address: program.DeriveStorageAddress(s.cfg.ProgramID).Address.String(),
				Variant: string(s.variant),
				Data:    hex.EncodeToString(data),
			}
			switch s.variant {
			case program.VariantTimestamp:
				v, err := clockcodec.DecodeTimestamp(data)
				if err != nil {
					return f.Fail(ExitFailure, string(program.ErrCodeInvalidPayload), "stored value does not match variant", err, result)
				}
				result.Timestamp = &v
			case program.VariantClock:
				c, err := clockcodec.DecodeClock(data)
				if err != nil {
					return f.Fail(ExitFailure, string(program.ErrCodeInvalidPayload), "stored value does not match variant", err, result)
				}
				result.Clock = &c
			}
			return f.Success(result)
		},
	}
}
