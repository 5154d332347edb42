// Package prompt wraps terminal prompts used by the command line.
package prompt
