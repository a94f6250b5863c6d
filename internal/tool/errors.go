package tool

// ExecutionError reports a tool that was found but could not produce a result.
// Its message is the cause's message.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
