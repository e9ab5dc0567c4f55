package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrUnknownOption indicates the engine does not recognize an option.
	ErrUnknownOption = errors.New("unknown editor option")

	// ErrDuplicateExtension indicates an extension name is already registered.
	ErrDuplicateExtension = errors.New("extension already registered")

	// ErrEditorDestroyed indicates the editor was destroyed.
	ErrEditorDestroyed = errors.New("editor destroyed")
)
