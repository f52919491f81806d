package main

import "errors"

// Sentinel errors for CLI operations.
var (
	ErrInvalidArgs        = errors.New("invalid arguments")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoHTMLFiles        = errors.New("no HTML files found")
	ErrBatchFailed        = errors.New("some files failed")
)
