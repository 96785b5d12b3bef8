package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/clockstate/internal/clockcodec"
	"github.com/roach88/clockstate/internal/harness"
	"github.com/roach88/clockstate/internal/program"
)

// SetResult is the outcome of a committed write.
type SetResult struct {
	Signature string   `json:"signature"`
	Slot      uint64   `json:"slot"`
	Address   string   `json:"address"`
	Variant   string   `json:"variant"`
	Logs      []string `json:"logs"`
}

func (r SetResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Signature: %s\n", r.Signature)
	fmt.Fprintf(&b, "Slot:      %d\n", r.Slot)
	fmt.Fprintf(&b, "Storage:   %s", r.Address)
	for _, line := range r.Logs {
		fmt.Fprintf(&b, "\n  %s", line)
	}
	return b.String()
}

// NewSetCommand creates the set command for timestamp deployments.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <u64>",
		Short: "Store a raw u64 timestamp",
		Long: `Submit a transaction that stores one little-endian u64.

Requires a deployment with variant "timestamp". The storage account is
created on the first write and overwritten afterwards.

Example:
  clockctl set 28234982
  CLOCKSTATE_VARIANT=timestamp clockctl set 100 --format json`,
		Args: argsWithExitCode(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			value, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeArgument, "invalid u64", err, nil)
			}
			return runSet(cmd, rootOpts, f, program.VariantTimestamp, clockcodec.EncodeTimestamp(value))
		},
	}
}

// NewSetClockCommand creates the set-clock command for clock deployments.
func NewSetClockCommand(rootOpts *RootOptions) *cobra.Command {
	var c clockcodec.Clock

	cmd := &cobra.Command{
		Use:   "set-clock",
		Short: "Store a full clock record",
		Long: `Submit a transaction that stores one 40-byte clock record.

Requires a deployment with variant "clock". Unset fields are zero.

Example:
  clockctl set-clock --slot 250 --unix-timestamp 1700000123`,
		Args: argsWithExitCode(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			return runSet(cmd, rootOpts, f, program.VariantClock, c.Encode())
		},
	}

	cmd.Flags().Uint64Var(&c.Slot, "slot", 0, "slot")
	cmd.Flags().Int64Var(&c.EpochStartTimestamp, "epoch-start-timestamp", 0, "unix time the epoch started")
	cmd.Flags().Uint64Var(&c.Epoch, "epoch", 0, "epoch")
	cmd.Flags().Uint64Var(&c.LeaderScheduleEpoch, "leader-schedule-epoch", 0, "leader schedule epoch")
	cmd.Flags().Int64Var(&c.UnixTimestamp, "unix-timestamp", 0, "estimated unix time")

	return cmd
}

func runSet(cmd *cobra.Command, opts *RootOptions, f *OutputFormatter, want program.Variant, payload []byte) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, opts, f)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.variant != want {
		return f.Fail(ExitCommandError, ErrCodeArgument,
			fmt.Sprintf("%s writes need variant %q, deployment is %q", cmd.Name(), want, s.variant), nil, nil)
	}

	res, err := s.submit(ctx, payload)
	if err != nil {
		var logs []string
		if res != nil {
			logs = res.Logs
		}
		return f.Fail(ExitFailure, harness.Outcome(err), "transaction failed", err, logs)
	}

	f.VerboseLog("committed %s at slot %d", res.Signature, res.Slot)
	return f.SuccessWithTrace(SetResult{
		Signature: res.Signature,
		Slot:      res.Slot,
		Address:   program.DeriveStorageAddress(s.cfg.ProgramID).Address.String(),
		Variant:   string(s.variant),
		Logs:      res.Logs,
	}, res.Signature)
}
