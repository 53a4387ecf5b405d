/*Package log defines the logging API of the flash disk, its trim cache and flashctl.

It is a thin layer on top of log15. A global (std) logger is available
through the package-level functions (Debugf, Infof, Errorf, ...),
while components that want their own module tag and level,
such as a flash disk or its trim cache, can create one using New.

Each logged record is annotated with the file and line of its caller.
Per sector decisions (lookups, probes, erases) are logged at debug level,
failed flash operations at error level.

usage example:

	logger := log.New("disk", log.DebugLevel)
	logger.Debugf("erased sector %d", 42)

	// log to a file as well as stderr
	handler, err := log.FileHandler("/var/log/flash.log")
	if err != nil {
		log.Fatal(err)
	}
	log.SetHandlers(log.StderrHandler(), handler)
*/
package log
