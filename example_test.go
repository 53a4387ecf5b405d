package zeroflash

import (
	"fmt"
	"time"
)

func ExampleHashBytes() {
	// given we have two sets of data ...
	data := []byte("data to hash")
	dataDiff := []byte("other data to hash")

	// we can obtain obtain hashes
	h := HashBytes(data)
	hDiff := HashBytes(dataDiff)

	fmt.Println(h)
	fmt.Println(hDiff)

	// we can compare hashes
	sameHash := h.Equals(h)
	fmt.Printf("it is %v that hashes are equal\n", sameHash)

	sameHash = h.Equals(hDiff)
	fmt.Printf("it is %v that hashes are equal\n", sameHash)
	// Output:
	// ae1c89d781f63c4dd6c8ec4703b711bed45966af278446749dbe0eed34eaedf3
	// 4154c68e4df38451a009232697d3da08cbc02aa411bb1e03f1006aa046a84bd4
	// it is true that hashes are equal
	// it is false that hashes are equal
}

func ExampleFatTimeFromTime() {
	moment := time.Date(2017, time.August, 23, 14, 37, 53, 0, time.UTC)
	ft := FatTimeFromTime(moment)

	fmt.Printf("date=0x%04X time=0x%04X\n", ft.Date(), ft.Clock())
	fmt.Println(ft.Time())
	// Output:
	// date=0x4B17 time=0x74BA
	// 2017-08-23 14:37:52 +0000 UTC
}
