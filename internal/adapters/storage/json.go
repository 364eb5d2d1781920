package storage

// json.go — snapshots JSON pretty-printed en disco.
//
// encoding/json serializa los maps con las keys ordenadas, así que el mismo
// input produce bytes idénticos run tras run. Se escribe a un archivo
// temporal y se renombra para no dejar snapshots a medias.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotWriter implementa ports.SnapshotWriter escribiendo en dir.
type SnapshotWriter struct {
	dir string
}

// NewSnapshotWriter crea un writer sobre el directorio dado, creándolo
// si no existe.
func NewSnapshotWriter(dir string) (*SnapshotWriter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage.NewSnapshotWriter: mkdir %q: %w", dir, err)
	}
	return &SnapshotWriter{dir: dir}, nil
}

// WriteJSON serializa v con indent de 2 espacios y lo escribe en dir/name.
// Devuelve la ruta final del archivo.
func (w *SnapshotWriter) WriteJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("storage.WriteJSON: marshal %q: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("storage.WriteJSON: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("storage.WriteJSON: rename %q: %w", path, err)
	}
	return path, nil
}
