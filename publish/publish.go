// Package publish hands the finished aggregate playlist to a destination outside the output directory.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// ErrRejected wraps every failure to publish.
var ErrRejected = errors.New("publish rejected")

// Sink kinds.
const (
	SinkGitHub = "github"
	SinkFile   = "file"
)

// Sink stores content at path, creating it or replacing what is there.
type Sink interface {
	Publish(ctx context.Context, path string, content []byte) error
	String() string
}

// Options select and configure a sink.
type Options struct {
	Sink string

	// Fs and Dir configure the file sink.
	Fs  afero.Fs
	Dir string

	// GitHub sink settings.
	API     string
	Repo    string
	Branch  string
	Token   string
	Message string
}

// New builds the configured sink.
func New(opts Options) (Sink, error) {
	switch strings.ToLower(opts.Sink) {
	case SinkFile:
		if opts.Dir == "" {
			return nil, errors.New("file sink: directory is not set")
		}
		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		return &File{Fs: fs, Dir: opts.Dir}, nil
	case "", SinkGitHub:
		return NewGitHub(opts)
	default:
		return nil, fmt.Errorf("unknown publish sink: %s", opts.Sink)
	}
}

// rejected wraps both ErrRejected and the cause, prefixed with an optional context.
func rejected(err error, format string, args ...any) error {
	if format == "" {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrRejected, fmt.Sprintf(format, args...), err)
}
