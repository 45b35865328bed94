// Package logging provides structured logging for the mipow tool.
//
// This package wraps a global zap logger. The logger is silent unless a
// level is passed to Initialize (from --log or --verbose) or set in the
// MIPOW_LOG_LEVEL environment variable. Output goes to stderr so that
// reports and JSON on stdout stay clean.
//
// # Log Levels
//
//   - Debug: GATT payload hex dumps, scan callbacks
//   - Info: connections, commands applied per bulb
//   - Warn: refused reads (reported as unavailable), retries
//   - Error: a bulb whose queue was aborted
//
// # GATT Logging
//
//	logging.LogGATT(addr, "read", protocol.CharColor.Name(), data)
//
// renders as
//
//	DEBUG  GATT read  {"address": "4C:24:98:6D:AC:E6", "characteristic": "color", "length": 4, "hex": "00 ff 00 00"}
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
package logging
