package handler

import (
	"errors"
	"fmt"
	"net/http"

	"reportdesk/internal/domain"
)

// errBadBody marks requests whose body could not be decoded.
var errBadBody = fmt.Errorf("%w: invalid request body", domain.ErrValidation)

// bodyError keeps the body limit distinguishable from a malformed body.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: %v", errBadBody, err)
}
