// Package probe verifies that the external tools a job needs are reachable
// before anything is launched or written.
package probe

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/nguyentantai21042004/ytscript/internal/config"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
	"github.com/nguyentantai21042004/ytscript/pkg/executor"
)

// Item is one verified dependency.
type Item struct {
	Name   string
	Path   string
	Detail string
}

// Report lists the dependencies that passed, in check order.
type Report struct {
	Items []Item
}

// Prober checks the downloader, recognizer binary and recognizer model.
type Prober struct {
	exec   executor.Executor
	logger logger.Logger
	stat   func(string) (os.FileInfo, error)
	open   func(string) (*os.File, error)
}

// New creates a Prober using the real filesystem.
func New(exec executor.Executor, log logger.Logger) *Prober {
	return &Prober{
		exec:   exec,
		logger: log,
		stat:   os.Stat,
		open:   os.Open,
	}
}

// Check stops at the first missing dependency and reports it as
// DependencyMissing. It never modifies the filesystem.
func (p *Prober) Check(ctx context.Context, tc config.ToolConfig) (Report, error) {
	var report Report

	version, err := p.checkDownloader(ctx, tc.Downloader)
	if err != nil {
		return report, err
	}
	report.Items = append(report.Items, Item{Name: apperr.DepDownloader, Path: tc.Downloader, Detail: version})

	if err := p.checkExecutable(tc.RecognizerBinary); err != nil {
		return report, apperr.DependencyMissing(apperr.DepRecognizer, tc.RecognizerBinary, err)
	}
	report.Items = append(report.Items, Item{Name: apperr.DepRecognizer, Path: tc.RecognizerBinary})

	if err := p.checkReadable(tc.RecognizerModel); err != nil {
		return report, apperr.DependencyMissing(apperr.DepModel, tc.RecognizerModel, err)
	}
	report.Items = append(report.Items, Item{Name: apperr.DepModel, Path: tc.RecognizerModel})

	for _, item := range report.Items {
		p.logger.Debug(ctx, "Found %s: %s %s", item.Name, item.Path, item.Detail)
	}
	return report, nil
}

// checkDownloader spawns the downloader with --version and expects exit 0.
func (p *Prober) checkDownloader(ctx context.Context, name string) (string, error) {
	out, err := p.exec.Execute(ctx, name, "--version")
	if err != nil {
		return "", apperr.DependencyMissing(apperr.DepDownloader, name, err)
	}
	return strings.TrimSpace(out), nil
}

func (p *Prober) checkExecutable(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	info, err := p.stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

func (p *Prober) checkReadable(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	info, err := p.stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	f, err := p.open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
