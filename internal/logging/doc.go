// Package logging builds the structured logger shared by every logvet
// component.
//
// The logger is constructed once from the logging section of the
// configuration and passed explicitly to each component; nothing here
// installs a process-wide default. Output always goes to stderr and, when a
// log file is configured, to a size-rotated file as well.
package logging
