// Package launcher parses the stack's dual-platform launcher script
// (conventionally run.cmd) into a structural summary.
//
// The launcher is a single file that is simultaneously a Windows batch
// script and a POSIX shell script. The parser does not execute anything;
// it scans the text for platform markers, docker compose invocations,
// recognized option keywords, argument-parsing constructs, user feedback
// messages, and a banner, so the checker package can assert on them.
package launcher
