// Package log provides the logging abstraction shared by robocore packages.
//
// Controllers, runners and op modes log through the Logger interface so the
// host decides where output goes. A zerolog adapter and a no-op logger are
// provided.
//
// # Usage
//
//	logger, err := log.NewZerologAdapter(os.Stderr, "debug")
//	if err != nil {
//	    return err
//	}
//	logger.Info("session started", log.String("opmode", name))
//
// Tests and embedders that want silence use log.NewNoopLogger().
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
//
// See version.go for version constants that can be used programmatically.
package log
