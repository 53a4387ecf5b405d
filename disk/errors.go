package disk

import (
	"fmt"

	"github.com/zero-os/0-Flash/errors"
)

var (
	// ErrNotInitialized is returned when a disk is used before it was initialized.
	ErrNotInitialized = errors.New("disk: not initialized")
	// ErrOutOfRange is returned when a sector range lies outside the disk.
	ErrOutOfRange = errors.New("disk: sector range out of range")
	// ErrBufferSize is returned when a buffer is too small for a transfer.
	ErrBufferSize = errors.New("disk: buffer too small")
	// ErrSweepDisabled is returned when the background sweep
	// is used on a disk which doesn't have one.
	ErrSweepDisabled = errors.New("disk: background sweep disabled")
	// ErrNotConverged is returned when scheduled sectors remain
	// after the maximum amount of sweep ticks.
	ErrNotConverged = errors.New("disk: background sweep did not converge")
)

// TransferError is returned when a physical flash operation fails
// in the middle of a transfer. The transfer is aborted at that point.
type TransferError struct {
	// amount of sectors not processed, the failed one included
	Remaining uint32
	// sector which failed
	Sector uint32
	// physical failure
	Err error
}

// Error implements error.Error
func (err *TransferError) Error() string {
	return fmt.Sprintf(
		"flash transfer failed at sector %d (%d sectors remaining): %v",
		err.Sector, err.Remaining, err.Err)
}

// Cause returns the physical failure,
// such that errors.Cause finds the hardware error.
func (err *TransferError) Cause() error {
	return err.Err
}

// Unwrap returns the physical failure.
func (err *TransferError) Unwrap() error {
	return err.Err
}

// RemainingSectors returns the amount of sectors
// not processed by a failed transfer,
// 0 if the error isn't (caused by) a TransferError.
func RemainingSectors(err error) uint32 {
	var transferErr *TransferError
	if errors.As(err, &transferErr) {
		return transferErr.Remaining
	}
	return 0
}
