package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is a 401 from the token endpoint.
	ErrInvalidCredentials = errors.New("credenciais inválidas")

	// ErrUnauthorized is a 401 from any authenticated endpoint; the client's
	// unauthorized hook has already fired when this is returned.
	ErrUnauthorized = errors.New("sessão expirada ou não autorizada")

	// ErrUnreachable wraps transport-level failures (DNS, refused, timeout).
	ErrUnreachable = errors.New("não foi possível se conectar ao servidor")
)

// StatusError is any other non-2xx response.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.Code)
}
