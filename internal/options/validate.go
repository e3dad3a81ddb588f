// Package options holds checks shared by the functional options of the
// loader, validator, generator and MCP input handling.
package options

import "errors"

// ValidateSingleInputSource reports an error unless exactly one of sources is
// set. noSourceMsg and multiSourceMsg are the messages for zero and several.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	n := 0
	for _, set := range sources {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New(noSourceMsg)
	case n > 1:
		return errors.New(multiSourceMsg)
	}
	return nil
}
