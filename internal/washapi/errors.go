package washapi

import "errors"

// ErrUnavailable covers transport-level failures: no response, timeout,
// connection refused. The UI shows a generic connectivity message for it.
var ErrUnavailable = errors.New("wash backend unreachable")

// ServerError carries a failure the backend reported itself
// (success:false or a non-2xx status). Its message is shown verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// AsServerError unwraps err to a ServerError if there is one.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
