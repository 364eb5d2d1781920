package ports

// SnapshotWriter serializa un snapshot a disco en formato JSON.
type SnapshotWriter interface {
	// WriteJSON escribe v pretty-printed (indent de 2 espacios) en el
	// archivo con el nombre dado dentro del directorio de salida.
	// La salida es determinística: el mismo input produce bytes idénticos.
	WriteJSON(name string, v any) (path string, err error)
}
