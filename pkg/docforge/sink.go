package docforge

import (
	"os"
	"path/filepath"
)

// WriteFile stores data at path. With AtomicWrites the bytes go to a
// temporary file in the same directory which is synced and renamed into
// place; otherwise path is truncated and removed again if the write fails.
// Either way no partial file remains after an error. A nil cfg uses the
// global configuration.
func WriteFile(path string, data []byte, cfg *Config) error {
	cfg = resolveConfig(cfg)
	if path == "" {
		return NewIOError("open", path, os.ErrInvalid)
	}
	mode := cfg.FileMode
	if mode == 0 {
		mode = 0o644
	}

	var err error
	if cfg.AtomicWrites {
		err = writeAtomic(path, data, mode)
	} else {
		err = writeTruncate(path, data, mode)
	}
	if err != nil {
		return err
	}

	WithFields(Fields{"path": path, "bytes": len(data)}).Info("document written")
	return nil
}

func writeTruncate(path string, data []byte, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return NewIOError("open", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return NewIOError("write", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return NewIOError("sync", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return NewIOError("close", path, err)
	}
	return nil
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".docforge-*.tmp")
	if err != nil {
		return NewIOError("create temp", path, err)
	}
	tmpPath := tmp.Name()

	fail := func(op string, cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return NewIOError(op, path, cause)
	}

	if err := tmp.Chmod(mode); err != nil {
		return fail("chmod", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return NewIOError("close", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return NewIOError("rename", path, err)
	}

	// Best effort: persist the rename itself
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// BuildFile encodes doc and writes it to path. A document that fails
// validation or encoding leaves nothing on disk.
func BuildFile(path string, doc *Document, cfg *Config, opts ...EncodeOption) error {
	cfg = resolveConfig(cfg)
	data, err := encode(doc, cfg, opts...)
	if err != nil {
		return err
	}
	return WriteFile(path, data, cfg)
}
