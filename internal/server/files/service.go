// Package files serves attachments from a fixed base directory and runs
// the external image converter. Client-supplied names never reach the
// filesystem or the converter without canonicalization and containment
// checks.
package files

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/todovault/todovault/internal/common"
	"github.com/todovault/todovault/internal/logging"
	"github.com/todovault/todovault/internal/server/config"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type Service struct {
	baseDir        string
	uploadsDir     string
	convertCmd     string
	convertTimeout time.Duration
	logger         logging.Logger
}

// NewService creates the directories if needed and canonicalizes the base
// directory once, so later containment checks compare canonical paths.
func NewService(cfg *config.Config, logger logging.Logger) (*Service, error) {

	baseDir, err := ensureDir(cfg.FilesDir)
	if err != nil {
		return nil, err
	}

	uploadsDir, err := ensureDir(cfg.UploadsDir)
	if err != nil {
		return nil, err
	}

	return &Service{
		baseDir:        baseDir,
		uploadsDir:     uploadsDir,
		convertCmd:     cfg.ConvertCommand,
		convertTimeout: cfg.ConvertTimeout,
		logger:         logger.With("module", "files"),
	}, nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("canonicalize %s: %w", dir, err)
	}

	return canonical, nil
}

// Resolve maps a client-supplied file name to an on-disk path inside the
// base directory. Absolute names, traversal sequences and symlinks that
// escape the base all yield common.ErrInvalidPath; a contained name that
// simply does not exist yields common.ErrorNotFound.
func (s *Service) Resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, 0) {
		return "", common.ErrInvalidPath
	}

	candidate := filepath.Join(s.baseDir, name)
	if !within(s.baseDir, candidate) {
		return "", common.ErrInvalidPath
	}

	canonical, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("canonicalize %s: %w", name, err)
	}

	// re-check after symlink resolution
	if !within(s.baseDir, canonical) {
		return "", common.ErrInvalidPath
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return "", common.ErrorNotFound
	}
	if info.IsDir() {
		return "", common.ErrInvalidPath
	}

	return canonical, nil
}

func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}

// ResizePNG verifies the payload is a PNG, stores it under a
// server-generated name and invokes the converter with a fixed argument
// vector under a deadline. The caller owns the returned output file.
func (s *Service) ResizePNG(ctx context.Context, src io.Reader) (string, error) {

	br := bufio.NewReader(src)
	magic, err := br.Peek(len(pngMagic))
	if err != nil || !bytes.Equal(magic, pngMagic) {
		return "", common.ErrorValidation
	}

	// never trust the client-provided name on disk
	inPath := filepath.Join(s.uploadsDir, "in-"+uuid.NewString()+".png")
	outPath := filepath.Join(s.uploadsDir, "out-"+uuid.NewString()+".png")

	in, err := os.OpenFile(inPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer os.Remove(inPath)

	if _, err := io.Copy(in, br); err != nil {
		in.Close()
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := in.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.convertTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.convertCmd, inPath, "-resize", "200x200", outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		s.logger.Error(ctx, "image conversion failed", "error", err, "output", string(out))
		os.Remove(outPath)
		return "", common.ErrUpstream
	}

	return outPath, nil
}
