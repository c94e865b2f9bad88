package analysis

import (
	"errors"
	"fmt"
)

// ErrNotExpenseRelated is returned when the model judged the question to be
// outside the expense domain. It is user-facing and not a bug.
var ErrNotExpenseRelated = errors.New("I can only answer questions about your expenses.")

// ErrEmptyQuestion rejects blank input before any network call is made.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// RemoteServiceError reports a transport or HTTP failure from the completion
// service. StatusCode is zero when the request never reached the server.
type RemoteServiceError struct {
	StatusCode int
	Err        error
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion service failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion service unreachable: %v", e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// InvalidSQLError reports a completion that could not be sanitized into a
// SELECT statement. Both the raw model response and the sanitized text are
// kept so the failure is diagnosable, never a generic "something went wrong".
type InvalidSQLError struct {
	Raw       string
	Sanitized string
}

func (e *InvalidSQLError) Error() string {
	return fmt.Sprintf("model did not return a valid SQL SELECT statement\nraw response:\n%s\nextracted SQL:\n%s", e.Raw, e.Sanitized)
}

// QueryExecutionError reports a SELECT-shaped statement the engine rejected.
// The offending SQL always travels with the engine message.
type QueryExecutionError struct {
	SQL string
	Err error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v\nSQL: %s", e.Err, e.SQL)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }
