package config

import "fmt"

// Error reports a configuration document that could not be used: it exists
// but does not parse, or it was required and is missing.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load configuration: %v", e.Err)
	}
	return fmt.Sprintf("load configuration %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
