/*Package flash defines the physical flash collaborator of a flash disk.

A Device exposes the three raw primitives of NOR flash:
reading bytes at an address, erasing the sector containing an address,
and programming (writing) bytes at an address.
Programming can only clear bits, an erase resets every bit of
a sector back to 1, which is why the erased pattern is all 0xFF.

Besides the Device interface this package provides a Geometry type,
describing how the device is divided into sectors,
and a couple of Device implementations:

	- MemoryDevice: in-memory flash, for tests and development;
	- FileDevice: flash backed by an image file on the host OS;
	- CountingDevice: wraps another Device, counting its physical operations.
*/
package flash
