package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// output is one rendered file waiting to be written.
type output struct {
	kind string
	path string
	data []byte
}

// writeAll writes every output or none. Each file goes to a temporary name in
// its target directory first; only when all of them are on disk are they
// renamed into place. Files from an earlier run are moved aside until every
// rename has succeeded, and a failed rename puts them back.
func writeAll(outs []output) error {
	temps := make([]string, 0, len(outs))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}

	for _, o := range outs {
		dir := filepath.Dir(o.path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			cleanup()
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
		tmp, err := writeTemp(dir, filepath.Base(o.path), o.data)
		if err != nil {
			cleanup()
			return fmt.Errorf("write %s: %w", o.path, err)
		}
		temps = append(temps, tmp)
	}

	var c commit
	for i, o := range outs {
		if err := c.replace(temps[i], o.path); err != nil {
			errs := append([]error{fmt.Errorf("rename %s: %w", o.path, err)}, c.rollback()...)
			temps = temps[i:]
			cleanup()
			return errors.Join(errs...)
		}
	}
	c.discard()
	return nil
}

// placed is a file renamed into place and the backup of the file it
// replaced, empty when the path was new.
type placed struct {
	path   string
	backup string
}

type commit []placed

// replace renames tmp to path, keeping any existing file at path as a backup.
// On failure path is left as it was.
func (c *commit) replace(tmp, path string) error {
	var backup string
	if info, err := os.Lstat(path); err == nil && !info.IsDir() {
		backup = tmp + ".prev"
		if err := os.Rename(path, backup); err != nil {
			return err
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		if backup != "" {
			if rerr := os.Rename(backup, path); rerr != nil {
				return errors.Join(err, fmt.Errorf("restore %s: %w", path, rerr))
			}
		}
		return err
	}
	*c = append(*c, placed{path: path, backup: backup})
	return nil
}

// rollback undoes every replace in reverse order.
func (c commit) rollback() []error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		p := c[i]
		var err error
		if p.backup != "" {
			err = os.Rename(p.backup, p.path)
		} else {
			err = os.Remove(p.path)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("roll back %s: %w", p.path, err))
		}
	}
	return errs
}

// discard drops the backups once the commit has succeeded.
func (c commit) discard() {
	for _, p := range c {
		if p.backup != "" {
			_ = os.Remove(p.backup)
		}
	}
}

func writeTemp(dir, name string, data []byte) (path string, err error) {
	f, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err := f.Write(data); err != nil {
		return "", err
	}
	if err := f.Sync(); err != nil {
		return "", err
	}
	if err := f.Chmod(0o644); err != nil {
		return "", err
	}
	return f.Name(), nil
}
