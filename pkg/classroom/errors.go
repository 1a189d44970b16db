package classroom

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// APIError is an error reported by the Classroom API itself.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("classroom api error %d: %s", e.StatusCode, e.Message)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnauthenticated) {
		return err
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		message := gErr.Message
		if message == "" {
			message = gErr.Body
		}
		return &APIError{StatusCode: gErr.Code, Message: message}
	}
	return err
}
