package main

import (
	"io"
	"os"
	"time"

	man2pdf "github.com/alnah/go-man2pdf"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, converter pool construction and tool lookup for --doctor.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	NewPool func(size int, opts ...man2pdf.Option) Pool
	Probe   doctorProbe
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newConverterPool,
		Probe:   defaultProbe(),
	}
}

// newConverterPool wraps man2pdf.ConverterPool for the CLI.
func newConverterPool(size int, opts ...man2pdf.Option) Pool {
	return &poolAdapter{pool: man2pdf.NewConverterPool(size, opts...)}
}
