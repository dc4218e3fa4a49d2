package main

import (
	"context"
	"fmt"

	man2pdf "github.com/alnah/go-man2pdf"
)

// CommandConverter converts one command's manual to a PDF.
type CommandConverter interface {
	Convert(ctx context.Context, command string) (*man2pdf.Result, error)
}

// Compile-time interface implementation check.
var _ CommandConverter = (*man2pdf.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CommandConverter, error)
	Release(CommandConverter)
	Size() int
	Close() error
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// poolAdapter adapts *man2pdf.ConverterPool to the Pool interface.
type poolAdapter struct {
	pool *man2pdf.ConverterPool
}

func (a *poolAdapter) Acquire() (CommandConverter, error) {
	c, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics if c did not come from Acquire (programmer error).
func (a *poolAdapter) Release(c CommandConverter) {
	conv, ok := c.(*man2pdf.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
