// Package engine defines the boundary between the declarative adapter and an
// imperative text-editing engine.
//
// The adapter never edits text itself. It drives an engine through the narrow
// API declared here:
//
//   - Library: the engine library handle, passed to before-load hooks so
//     callers can register extensions, and used to create editors
//   - Editor: one live engine instance (buffer get/set, options, theme,
//     focus, properties, event subscription)
//   - Session: the buffer's session (mode, wrap, marker registry keyed by
//     engine-assigned ids, annotations, selection, undo history)
//   - CommandManager: the command table and key bindings, where a key may be
//     bound to several candidates tried in registration order
//   - Renderer: gutter, scroll margin and placeholder state
//
// Engines notify the adapter through Subscribe. Every subscription is
// cancelled explicitly on teardown; nothing relies on garbage collection.
//
// Package memory provides an in-process implementation of this API.
package engine
