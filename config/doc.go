/*Package config defines the configuration of a flash disk.

A DiskConfig is fixed at construction time of a disk,
it can't be modified while the disk is in use.
It can be created in code, or read from a YAML file:

	sectorSize: 4096
	deviceSize: 4194304
	baseAddress: 0x300000
	conserveLevel: 1
	sweep:
	  enabled: true
	  interval: 100ms
	probeChunkSize: 256
	image: /var/lib/flash/flash0.img

Either sectorCount or deviceSize has to be given.
All other properties are optional and have sane defaults.
*/
package config
