package man2pdf

// Notes:
// - Tests Converter with a mocked fetcher and renderer to isolate unit logic
// - Internal test options (withFetcher, withRenderer) enable dependency injection
// - A subset runs the real native renderer against a mocked fetcher, which
//   exercises the full write path without man installed

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockFetcher struct {
	calls []string
	texts map[string]string
	err   error
}

func (m *mockFetcher) Fetch(ctx context.Context, command string) (string, error) {
	m.calls = append(m.calls, command)
	if m.err != nil {
		return "", m.err
	}
	if text, ok := m.texts[command]; ok {
		return text, nil
	}
	return "", &LookupError{Command: command, Err: errors.New("exit status 16")}
}

type mockRenderer struct {
	docs   []Document
	output []byte
	err    error
	panic  bool
	closed int
}

func (m *mockRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if m.panic {
		panic("renderer exploded")
	}
	m.docs = append(m.docs, doc)
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock " + doc.Command), nil
}

func (m *mockRenderer) Close() error {
	m.closed++
	return nil
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()

	c, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// ---------------------------------------------------------------------------
// TestNewConverter - option validation
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []Option
		wantErr    error
		wantEngine Engine
	}{
		{
			name:       "defaults",
			wantEngine: EngineNative,
		},
		{
			name:       "chrome engine",
			opts:       []Option{WithEngine(EngineChrome)},
			wantEngine: EngineChrome,
		},
		{
			name:       "engine name is case-insensitive",
			opts:       []Option{WithEngine("NATIVE")},
			wantEngine: EngineNative,
		},
		{
			name:    "unknown engine",
			opts:    []Option{WithEngine("latex")},
			wantErr: ErrInvalidEngine,
		},
		{
			name:    "invalid page size",
			opts:    []Option{WithPage(PageSettings{Size: "tabloid", Orientation: OrientationPortrait, Margin: 0.5})},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "invalid orientation",
			opts:    []Option{WithPage(PageSettings{Size: PageSizeA4, Orientation: "diagonal", Margin: 0.5})},
			wantErr: ErrInvalidOrientation,
		},
		{
			name:    "margin too small",
			opts:    []Option{WithPage(PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 0.1})},
			wantErr: ErrInvalidMargin,
		},
		{
			name:    "font too small",
			opts:    []Option{WithFontSize(5)},
			wantErr: ErrInvalidFontSize,
		},
		{
			name:    "font too large",
			opts:    []Option{WithFontSize(17)},
			wantErr: ErrInvalidFontSize,
		},
		{
			name:       "font at bounds",
			opts:       []Option{WithFontSize(MinFontSize), WithFontSize(MaxFontSize)},
			wantEngine: EngineNative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewConverter(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer c.Close()

			if c.Engine() != tt.wantEngine {
				t.Errorf("Engine() = %q, want %q", c.Engine(), tt.wantEngine)
			}
		})
	}
}

func TestNewConverter_FetcherOptions(t *testing.T) {
	t.Parallel()

	runner := &MockRunner{}
	c := newTestConverter(t,
		WithManPath("/opt/man"),
		WithSection("8"),
		WithFilter(),
		WithRunner(runner),
	)

	f, ok := c.fetcher.(*Fetcher)
	if !ok {
		t.Fatalf("fetcher = %T, want *Fetcher", c.fetcher)
	}
	if f.ManPath != "/opt/man" {
		t.Errorf("ManPath = %q, want %q", f.ManPath, "/opt/man")
	}
	if f.Section != "8" {
		t.Errorf("Section = %q, want %q", f.Section, "8")
	}
	if len(f.Filter) != 0 {
		t.Errorf("Filter = %v, want none", f.Filter)
	}
	if f.Runner != runner {
		t.Error("expected injected runner")
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Second} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("WithTimeout(%v) did not panic", d)
				}
			}()
			WithTimeout(d)
		}()
	}
}

// ---------------------------------------------------------------------------
// TestConverter_Convert - fetch then render
// ---------------------------------------------------------------------------

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fetcher := &mockFetcher{texts: map[string]string{"ls": "LS(1)\n"}}
	rend := &mockRenderer{}
	c := newTestConverter(t, WithOutputDir(dir), withFetcher(fetcher), withRenderer(rend))

	res, err := c.Convert(context.Background(), "ls")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPath := filepath.Join(dir, "ls-manual.pdf")
	if res.OutputPath != wantPath {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, wantPath)
	}
	if res.Command != "ls" {
		t.Errorf("Command = %q, want %q", res.Command, "ls")
	}
	if res.Duration <= 0 {
		t.Errorf("Duration = %v, want > 0", res.Duration)
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "%PDF-1.4 mock ls" {
		t.Errorf("unexpected file content %q", data)
	}
	if res.Size != len(data) {
		t.Errorf("Size = %d, want %d", res.Size, len(data))
	}
	if len(rend.docs) != 1 || rend.docs[0].Text != "LS(1)\n" {
		t.Errorf("renderer received %+v", rend.docs)
	}
}

func TestConverter_Convert_LookupFailureWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rend := &mockRenderer{}
	c := newTestConverter(t, WithOutputDir(dir), withFetcher(&mockFetcher{}), withRenderer(rend))

	_, err := c.Convert(context.Background(), "nosuchcmd")
	if !errors.Is(err, ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
	if len(rend.docs) != 0 {
		t.Error("renderer should not run after a failed lookup")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty output dir, found %d entries", len(entries))
	}
}

func TestConverter_Convert_InvalidCommand(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{}
	c := newTestConverter(t, WithOutputDir(t.TempDir()), withFetcher(fetcher), withRenderer(&mockRenderer{}))

	tests := []struct {
		command string
		wantErr error
	}{
		{"", ErrEmptyCommand},
		{"-h", ErrInvalidCommand},
		{"../etc", ErrInvalidCommand},
		{"a/b", ErrInvalidCommand},
	}

	for _, tt := range tests {
		_, err := c.Convert(context.Background(), tt.command)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Convert(%q) error = %v, want %v", tt.command, err, tt.wantErr)
		}
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher should not run for invalid names, got %v", fetcher.calls)
	}
}

func TestConverter_Convert_AppliesTimeout(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	var hasDeadline bool
	fetcher := fetchFunc(func(ctx context.Context, command string) (string, error) {
		deadline, hasDeadline = ctx.Deadline()
		return "text\n", nil
	})
	c := newTestConverter(t,
		WithOutputDir(t.TempDir()),
		WithTimeout(5*time.Second),
		withFetcher(fetcher),
		withRenderer(&mockRenderer{}),
	)

	if _, err := c.Convert(context.Background(), "ls"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasDeadline {
		t.Fatal("expected fetch context to carry a deadline")
	}
	if remaining := time.Until(deadline); remaining > 5*time.Second {
		t.Errorf("deadline too far away: %v", remaining)
	}
}

func TestConverter_Convert_RecoversPanic(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{texts: map[string]string{"ls": "text"}}
	c := newTestConverter(t, WithOutputDir(t.TempDir()), withFetcher(fetcher), withRenderer(&mockRenderer{panic: true}))

	res, err := c.Convert(context.Background(), "ls")
	if err == nil {
		t.Fatal("expected error from panic, got nil")
	}
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}
}

type fetchFunc func(ctx context.Context, command string) (string, error)

func (f fetchFunc) Fetch(ctx context.Context, command string) (string, error) {
	return f(ctx, command)
}

// ---------------------------------------------------------------------------
// TestConverter_Render - write path
// ---------------------------------------------------------------------------

func TestConverter_Render(t *testing.T) {
	t.Parallel()

	t.Run("render error wraps ErrPDFGeneration", func(t *testing.T) {
		t.Parallel()

		rendErr := errors.New("layout failed")
		c := newTestConverter(t, WithOutputDir(t.TempDir()), withRenderer(&mockRenderer{
			err: errors.Join(ErrPDFGeneration, rendErr),
		}))

		_, err := c.Render(context.Background(), "ls", "text")
		if !errors.Is(err, ErrPDFGeneration) {
			t.Errorf("expected ErrPDFGeneration, got %v", err)
		}
	})

	t.Run("missing output dir wraps ErrWritePDF", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "does", "not", "exist")
		c := newTestConverter(t, WithOutputDir(dir), withRenderer(&mockRenderer{}))

		_, err := c.Render(context.Background(), "ls", "text")
		if !errors.Is(err, ErrWritePDF) {
			t.Errorf("expected ErrWritePDF, got %v", err)
		}
	})

	t.Run("section reaches the renderer", func(t *testing.T) {
		t.Parallel()

		rend := &mockRenderer{}
		c := newTestConverter(t, WithOutputDir(t.TempDir()), WithSection("1"), withRenderer(rend))

		if _, err := c.Render(context.Background(), "ls", "text"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rend.docs[0].Title() != "ls(1)" {
			t.Errorf("Title() = %q, want %q", rend.docs[0].Title(), "ls(1)")
		}
	})
}

func TestConverter_Render_Overwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := newTestConverter(t, WithOutputDir(dir), withFetcher(&mockFetcher{}))

	first, err := c.Render(context.Background(), "ls", "first version of the page\n")
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	before, _ := os.ReadFile(first.OutputPath)

	second, err := c.Render(context.Background(), "ls", "second version of the page\n")
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	after, _ := os.ReadFile(second.OutputPath)

	if first.OutputPath != second.OutputPath {
		t.Errorf("output paths differ: %q vs %q", first.OutputPath, second.OutputPath)
	}
	if bytes.Equal(before, after) {
		t.Error("expected content to be replaced")
	}
	if !bytes.HasPrefix(after, []byte("%PDF-")) {
		t.Error("expected a PDF file")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected exactly one file, found %d", len(entries))
	}
}

func TestConverter_SequentialAndPooledOutputMatch(t *testing.T) {
	t.Parallel()

	texts := map[string]string{"ls": "LS(1)\n\nNAME\n       ls\n", "pwd": "PWD(1)\n\nNAME\n       pwd\n"}

	seqDir := t.TempDir()
	seq := newTestConverter(t, WithOutputDir(seqDir), withFetcher(&mockFetcher{texts: texts}))
	for _, cmd := range []string{"ls", "pwd"} {
		if _, err := seq.Convert(context.Background(), cmd); err != nil {
			t.Fatalf("sequential %s: %v", cmd, err)
		}
	}

	poolDir := t.TempDir()
	pool := NewConverterPool(2, WithOutputDir(poolDir), withFetcher(&mockFetcher{texts: texts}))
	defer pool.Close()

	for _, cmd := range []string{"pwd", "ls"} {
		c, err := pool.Acquire()
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		if _, err := c.Convert(context.Background(), cmd); err != nil {
			t.Fatalf("pooled %s: %v", cmd, err)
		}
		pool.Release(c)
	}

	for _, cmd := range []string{"ls", "pwd"} {
		a, err := os.ReadFile(filepath.Join(seqDir, OutputFileName(cmd)))
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(filepath.Join(poolDir, OutputFileName(cmd)))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s: sequential and pooled output differ", cmd)
		}
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	rend := &mockRenderer{}
	c, err := NewConverter(withRenderer(rend))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if rend.closed != 1 {
		t.Errorf("renderer closed %d times, want 1", rend.closed)
	}
}
