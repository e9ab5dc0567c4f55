package adapter

import (
	"errors"
	"fmt"
)

// ErrDestroyed is returned by every accessor once the adapter is torn down.
var ErrDestroyed = errors.New("adapter destroyed")

// Diagnostic reports an option the engine does not recognize. Diagnostics are
// logged, never returned as errors; the editor keeps running with defaults.
type Diagnostic struct {
	Option  string
	Message string
}

func (d Diagnostic) String() string {
	return d.Message
}

func unknownOption(name string) Diagnostic {
	return Diagnostic{
		Option: name,
		Message: fmt.Sprintf("editor option %s was activated but not found. "+
			"Did you need to import a related tool or did you possibly misspell the option?", name),
	}
}
