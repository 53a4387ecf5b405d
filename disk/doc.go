/*Package disk implements the block I/O layer of a flash disk.

A Disk translates sector-granular read, write and discard requests,
as issued by a FAT filesystem engine, into physical flash operations,
consulting and updating its trim cache to avoid reads of discarded
sectors and erases of sectors known to be erased.

All public methods of a Disk, as well as every tick of its background sweep,
run in a single critical section. The sweep can either be driven
by the Run goroutine, or be polled cooperatively using Poll.

When the trim cache can't be allocated, a Disk falls back to uncached
operation (unless required otherwise by its configuration),
in which case every read is physical, every written sector is erased first,
and discarded sectors are erased immediately.
*/
package disk
