package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

const DefaultPollInterval = 100 * time.Millisecond

// FollowReader reads a file that another process is still writing. At EOF
// it polls for more data until its context is cancelled, then reports EOF.
type FollowReader struct {
	file     *os.File
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewFollowReader(ctx context.Context, f *os.File, interval time.Duration) *FollowReader {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	return &FollowReader{
		file:     f,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *FollowReader) Read(p []byte) (int, error) {
	for {
		n, err := r.file.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != io.EOF {
			return 0, err
		}
		select {
		case <-r.ctx.Done():
			return 0, io.EOF
		case <-time.After(r.interval):
		}
	}
}

func (r *FollowReader) Close() error {
	r.cancel()
	return r.file.Close()
}

// OpenSource opens the log at path for reading. "-" reads standard input.
// With follow set, a regular file is tailed until ctx is cancelled.
func OpenSource(ctx context.Context, path string, follow bool, interval time.Duration) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat log: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("opening log: %s is a directory", path)
	}

	if follow && info.Mode().IsRegular() {
		return NewFollowReader(ctx, f, interval), nil
	}
	return f, nil
}
