// Package logging provides zerolog-based structured logging for catalogview.
//
// Loggers are built from a Config (level, format, output, file). When file output
// is requested but the file cannot be opened, logging falls back to stderr and the
// caller is told why, so the interactive browser never dies because of a bad log path.
//
// Trace IDs (ULIDs) are carried on the context and attached to every entry written
// through FromContext, which ties together the API calls made on behalf of one command.
package logging
