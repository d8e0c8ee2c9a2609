package storage

import (
	"fmt"
	"io"
)

// Options selects and configures a backend for Open.
type Options struct {
	Driver      string
	Path        string
	RedisURL    string
	RedisPrefix string
}

// Open builds the Store named by opts.Driver. The returned closer releases
// backend resources and is never nil.
func Open(opts Options) (Store, io.Closer, error) {
	switch opts.Driver {
	case DriverFS, "":
		s, err := NewFS(opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case DriverSQLite:
		s, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case DriverRedis:
		s, err := OpenRedis(opts.RedisURL, opts.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case DriverMemory:
		return NewMemory(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
