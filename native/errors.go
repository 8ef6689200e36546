package native

import "errors"

var (
	ErrNoCamera        = errors.New("native: scene has no active camera")
	ErrNoEngine        = errors.New("native: no render engine registered")
	ErrNoEncoder       = errors.New("native: no movie encoder registered")
	ErrNoDevice        = errors.New("native: compute device not available")
	ErrRotationMode    = errors.New("native: rotation_quaternion requires QUATERNION rotation mode")
	ErrUnknownPath     = errors.New("native: unknown animation data path")
	ErrAlreadyLinked   = errors.New("native: object already in collection")
	ErrNotLinked       = errors.New("native: object not in collection")
	ErrUnknownNodeType = errors.New("native: unknown node type")
	ErrForeignSocket   = errors.New("native: socket does not belong to this tree")
	ErrLinkDirection   = errors.New("native: links run from an output to an input")
	ErrBadIndex        = errors.New("native: mesh index out of range")
	ErrBadAxis         = errors.New("native: invalid axis conversion")
	ErrFileFormat      = errors.New("native: unsupported file format")
	ErrMainfile        = errors.New("native: malformed project file")
)
