//go:build mage

// Package main contains Mage build targets for craftgraph developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"pages/mobs",
	"pages/crafting",
	"output/pages",
	"output/index",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "craftgraph"
	cmdPkg  = "./cmd/craftgraph"
)

func binPath() string {
	return filepath.Join(binDir, binName)
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", binPath(), cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath())
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Clean removes the binary and generated output. The page cache is kept;
// use CleanPages to drop it as well.
func Clean() error {
	for _, p := range []string{binDir, "output"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
		fmt.Println("removed", p)
	}
	return nil
}

// CleanPages removes the downloaded page cache.
func CleanPages() error {
	return sh.Rm("pages")
}

// Fetch downloads the wiki pages into pages/.
func Fetch() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "fetch")
}

// Extract builds the transformation graph from the cached pages.
func Extract() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "extract", "--metrics-file", "output/craftgraph.prom")
}

// Validate checks the exported files.
func Validate() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "validate")
}

// Index ingests the per-page results into the SQLite graph store.
func Index() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "store", "--ingest", "--stats")
}

// All runs the whole pipeline.
func All() {
	mg.SerialDeps(Fetch, Extract, Validate, Index)
}

// Stats prints project metrics: Go production/test LOC, documentation word
// count and, when an extraction has run, the size of the exported graph.
func Stats() error {
	var prodLines, testLines, docWords int
	err := walkProject(func(path string, data []byte) {
		switch {
		case strings.HasSuffix(path, "_test.go"):
			testLines += countLines(data)
		case strings.HasSuffix(path, ".go"):
			prodLines += countLines(data)
		case strings.HasSuffix(path, ".md"):
			docWords += len(strings.Fields(string(data)))
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)

	for _, name := range []string{"output/items.csv", "output/transformations.csv"} {
		data, err := os.ReadFile(name)
		if err != nil {
			continue
		}
		fmt.Printf("Rows (%s): %d\n", filepath.Base(name), countLines(data)-1)
	}
	return nil
}

// skipDirs are not part of the project sources.
var skipDirs = map[string]bool{
	".git": true, "_examples": true, binDir: true, "pages": true, "output": true,
}

func walkProject(visit func(path string, data []byte)) error {
	return filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".go" && ext != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		visit(path, data)
		return nil
	})
}

// countLines counts non-blank lines.
func countLines(data []byte) int {
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
