/*Package statistics keeps track of the operations of a flash disk.

Counters are updated by a flash disk (and the devices it wraps)
using atomic operations, and can be read at any time as a Snapshot.

A Logger can be started to periodically broadcast the difference
between two snapshots, which gives an idea of the erase wear
and the effectiveness of the trim cache over time:

	counters := new(statistics.Counters)
	logger := statistics.StartLogger("flash0", counters)
	defer logger.Stop()
*/
package statistics
