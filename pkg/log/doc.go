// Package log is the logging abstraction shared by dumpship components.
//
// Components accept a Logger and default to NoopLogger, so a library user
// sees no output unless they ask for it. The zerolog adapter wraps an
// existing zerolog.Logger, which is how the dumpship command plugs in its
// console logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Messages carry typed fields built with String, Int, Duration, Err and
// friends. With binds fields to every message of the returned logger:
//
//	dirLog := logger.With(log.String("dir", "/var/crash"))
//
// Any other logging library can be plugged in by implementing Logger.
package log
