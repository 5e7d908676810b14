package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bwesterb/byteswriter"
	"github.com/nightlyone/lockfile"
)

// writeFile atomically writes data to path, refusing to overwrite an
// existing file unless force is set. The output is first assembled through
// a byteswriter.Writer the same way the core's teacher assembles its
// private-key file header, so a short write trips an explicit bounds error
// instead of silently truncating.
func writeFile(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	staged := make([]byte, len(data))
	bw := byteswriter.NewWriter(staged)
	if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, staged, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}

// lockTarget takes an advisory lock on path+".lock" for the duration of a
// generate-subscription invocation, so two concurrent CLI runs targeting
// the same device's subscription file cannot race past each other's
// existence check (spec §6, the --force flag's overwrite semantics).
// lockfile.New requires an absolute path, same as the teacher's container
// lock; path is normally a relative CLI argument, so it is resolved first.
func lockTarget(path string) (unlock func(), err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	lock, err := lockfile.New(absPath + ".lock")
	if err != nil {
		return nil, fmt.Errorf("creating lock for %s: %w", path, err)
	}
	if err := lock.TryLock(); err != nil {
		return nil, fmt.Errorf("%s is locked by another ppp invocation: %w", path, err)
	}
	return func() { lock.Unlock() }, nil
}
