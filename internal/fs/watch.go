package fs

// A snapshot of the files a build read. Each function returns the path if
// that file changed since the snapshot was taken, or "" otherwise.
type WatchData struct {
	Paths map[string]func() string
}

// Takes a snapshot of "paths". A file that can't be read is recorded as
// missing and is dirty once it appears.
func Watch(fs FS, paths []string) WatchData {
	data := WatchData{Paths: make(map[string]func() string, len(paths))}
	for _, path := range paths {
		data.Paths[path] = watchFile(fs, path)
	}
	return data
}

func watchFile(fs FS, path string) func() string {
	key, keyErr := fs.ModKey(path)
	contents, readErr := fs.ReadFile(path)
	if readErr != nil {
		return func() string {
			if _, err := fs.ReadFile(path); err == nil {
				return path
			}
			return ""
		}
	}

	return func() string {
		// An unchanged key means an unchanged file. Otherwise the contents decide,
		// since a key can change without the contents changing (e.g. "touch").
		newKey, newKeyErr := fs.ModKey(path)
		if keyErr == nil && newKeyErr == nil && newKey == key {
			return ""
		}
		if newContents, err := fs.ReadFile(path); err != nil || newContents != contents {
			return path
		}

		// Same contents under a new key, so the new key is remembered and the
		// file isn't read again on the next check
		key, keyErr = newKey, newKeyErr
		return ""
	}
}
