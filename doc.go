// Package zeroflash contains the helpers shared by the 0-Flash packages and tools:
// FAT time conversion, sector content fingerprints and version information.
//
// The flash block I/O layer itself lives in the disk package,
// its trim/erase state cache in the trim package.
package zeroflash
