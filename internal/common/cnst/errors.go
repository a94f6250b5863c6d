package cnst

import "errors"

var (
	// ErrDuplicateToolName is returned when a tool name is duplicated
	ErrDuplicateToolName = errors.New("duplicate tool name")
	// ErrInvalidToolName is returned for blank names or names with surrounding whitespace
	ErrInvalidToolName = errors.New("invalid tool name")
	// ErrInvalidInputSchema is returned when a tool's input schema is not a valid schema object
	ErrInvalidInputSchema = errors.New("invalid input schema")
	// ErrNoCallable is returned when a tool declares no way to be called
	ErrNoCallable = errors.New("tool declares no callable")
	// ErrRegistrySealed is returned when registering after the registry was built
	ErrRegistrySealed = errors.New("registry already built")
)

var (
	// ErrInvalidParams is returned when a call carries no tool name
	ErrInvalidParams = errors.New("invalid params")
	// ErrToolNotFound is returned when no registered tool matches the requested name
	ErrToolNotFound = errors.New("tool not found")
	// ErrAdapterMismatch is returned when the arguments fit none of the tool's callables
	ErrAdapterMismatch = errors.New("no matching method signature")
)
