package errors_test

import (
	"fmt"

	"github.com/zero-os/0-Flash/errors"
)

func ExampleNew() {
	err := errors.New("an error message")

	fmt.Print(err.Error())
	// Output: an error message
}

func ExampleNewf() {
	err := errors.Newf("sector %d of %d failed to %s", 3, 16, "erase")

	fmt.Print(err.Error())
	// Output: sector 3 of 16 failed to erase
}

func ExampleWrap() {
	err := errors.New("hardware I/O error")

	err = errors.Wrap(err, "erase sector 12")

	fmt.Print(err.Error())
	// Output:
	// erase sector 12: hardware I/O error
}

func ExampleWrapf() {
	err := errors.New("hardware I/O error")

	err = errors.Wrapf(err, "read %d bytes at 0x%X", 4096, 0x10000)

	fmt.Print(err.Error())
	// Output:
	// read 4096 bytes at 0x10000: hardware I/O error
}

func ExampleCause() {
	cause := errors.New("hardware I/O error")
	err := errors.Wrap(cause, "erase sector 12")
	err = errors.Wrap(err, "sweep")

	fmt.Println(err.Error())
	fmt.Println(errors.Cause(err) == cause)
	fmt.Println(errors.Is(err, cause))
	// Output:
	// sweep: erase sector 12: hardware I/O error
	// true
	// true
}

func ExampleErrorSlice() {
	var errs errors.ErrorSlice

	fmt.Println(errs.Len())
	fmt.Println(errs.AsError() == nil)

	errs.Add(errors.New("an error"))
	errs.Add(nil)

	fmt.Println(errs.Len())
	fmt.Println(errs.Error())

	errs.Add(errors.New("another error"))

	fmt.Println(errs.Len())
	fmt.Println(errs.AsError())

	// Output:
	// 0
	// true
	// 1
	// an error;
	// 2
	// an error;another error;
}
