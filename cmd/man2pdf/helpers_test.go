package main

// Notes:
// - This file contains the mock converter, mock pool and test environment
//   shared by the cmd tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	man2pdf "github.com/alnah/go-man2pdf"
)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// mockConverter succeeds for every command except those listed in errs.
// Safe for concurrent use.
type mockConverter struct {
	mu    sync.Mutex
	errs  map[string]error
	delay time.Duration
	calls []string
}

func (m *mockConverter) Convert(ctx context.Context, command string) (*man2pdf.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, command)
	err := m.errs[command]
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &man2pdf.Result{
		Command:    command,
		OutputPath: man2pdf.OutputFileName(command),
		Size:       42,
		Duration:   1500 * time.Millisecond,
	}, nil
}

func (m *mockConverter) called() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockPool hands out one shared mockConverter.
type mockPool struct {
	size       int
	conv       *mockConverter
	acquireErr error
	closed     int
	gotOpts    int
}

func (p *mockPool) Acquire() (CommandConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *mockPool) Release(CommandConverter) {}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.closed++
	return nil
}

// testEnv captures output and records the pool built by runConvert.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	pool     *mockPool
	poolSize int
}

// newTestEnv creates an environment whose clock advances by step on each call.
func newTestEnv(conv *mockConverter, step time.Duration) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	if conv == nil {
		conv = &mockConverter{}
	}

	var mu sync.Mutex
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	te.Environment = &Environment{
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(step)
			return now
		},
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewPool: func(size int, opts ...man2pdf.Option) Pool {
			te.poolSize = size
			te.pool = &mockPool{size: size, conv: conv, gotOpts: len(opts)}
			return te.pool
		},
		Probe: fakeProbe(map[string]string{
			"man": "/usr/bin/man",
			"col": "/usr/bin/col",
		}, ""),
	}
	return te
}

// fakeProbe finds only the programs in paths. An empty chrome means not found.
func fakeProbe(paths map[string]string, chrome string) doctorProbe {
	return doctorProbe{
		lookPath: func(file string) (string, error) {
			if p, ok := paths[file]; ok {
				return p, nil
			}
			return "", exec.ErrNotFound
		},
		chromePath: func() (string, bool) { return chrome, chrome != "" },
		container:  func() bool { return false },
		getenv:     func(string) string { return "" },
	}
}

// lookupErr builds the error a missing manual page produces.
func lookupErr(command string) error {
	return &man2pdf.LookupError{
		Command: command,
		Stderr:  "No manual entry for " + command,
		Err:     errors.New("exit status 16"),
	}
}
