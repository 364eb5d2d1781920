package analytics

import "fmt"

// TransportError es un fallo de red (DNS, conexión, timeout) antes de
// obtener una respuesta HTTP. Se distingue de StatusError para que el
// caller pueda loguearlos distinto, pero ambos terminan la unidad de
// trabajo igual: sin retry.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError es una respuesta HTTP non-2xx del servidor.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}
