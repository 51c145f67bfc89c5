// Package kpsewhich resolves a TeX font file name to an absolute
// filesystem path by shelling out to the host's kpsewhich utility. Success
// is defined as the subprocess exiting with status zero; its trimmed
// standard output is the filesystem path.
package kpsewhich

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mrklie/dvious/dvierr"
)

// Format is the kpsewhich --format value identifying what kind of file is
// being resolved.
type Format string

const (
	FormatPK  Format = "pk"
	FormatTFM Format = "tfm"
)

// runner abstracts "run an external command and observe exit status plus
// stdout" so Resolve is testable without a real kpsewhich binary on PATH.
type runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Resolver resolves font file names via kpsewhich. The zero value uses the
// real kpsewhich binary on PATH; tests construct one with an injected
// runner.
type Resolver struct {
	run runner
}

// NewResolver returns a Resolver that shells out to the real kpsewhich.
func NewResolver() *Resolver {
	return &Resolver{run: execRunner{}}
}

// Resolve runs `kpsewhich --format=<format> <name>` and returns its trimmed
// stdout as a filesystem path. A nonzero exit status is reported as a
// dvierr.Kpsewhich error.
func (r *Resolver) Resolve(ctx context.Context, name string, format Format) (string, error) {
	run := r.run
	if run == nil {
		run = execRunner{}
	}

	out, err := run.Run(ctx, "kpsewhich", fmt.Sprintf("--format=%s", format), name)
	if err != nil {
		return "", dvierr.Kpsewhichf("kpsewhich failed to resolve %q (format %s): %v", name, format, err)
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", dvierr.Kpsewhichf("kpsewhich found no match for %q (format %s)", name, format)
	}
	return path, nil
}
