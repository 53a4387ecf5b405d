/*Package trim implements the trim/erase state cache of a flash disk.

For each sector of the flash device the cache remembers,
using two bits, what is known about its physical state:

	trimmed | seen | state
	--------+------+----------
	   1    |  1   | Clean      confirmed physically erased
	   1    |  0   | Scheduled  discarded, not yet physically erased
	   0    |  1   | Dirty      confirmed to hold real data
	   0    |  0   | Unknown    nothing known, probe to find out

Every combination is a valid state.

The cache is consulted (Lookup) for each sector read or written,
to decide whether physical I/O is required,
and updated as a side effect of that decision.
Discards (ClearPrep) either schedule sectors for a later erase,
which is performed incrementally by the background sweep (Tick),
or erase them immediately when no background sweep is configured.

A Cache is not safe for concurrent use.
Its owner has to serialize all calls to it,
including the ones made by the background sweep.
*/
package trim
