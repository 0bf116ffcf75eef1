//go:build !unix

package region

// Without flock, file-backed segments are only guarded within this process.

func flock(int) error { return nil }

func tryFlock(int) (bool, error) { return true, nil }

func funlock(int) error { return nil }
