//go:build mage

// Package main provides build targets for the varmap project using Mage.
//
// Usage:
//
//	mage build          Compile varmap binary to bin/
//	mage test           Run all tests
//	mage testUnit       Run tests for pkg/ only
//	mage bench          Run benchmarks
//	mage lint           Run go vet and golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install varmap to GOPATH/bin
//	mage stats          Print Go LOC per package
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "varmap"
	binaryDir  = "bin"
	cmdDir     = "./cmd/varmap"
)

// sourceRoots are the directories holding varmap's Go packages.
var sourceRoots = []string{"cmd", "internal", "pkg"}

// Build compiles the varmap binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// TestUnit runs only the library tests under pkg/, skipping the CLI and
// SQLite packages.
func TestUnit() error {
	return sh.RunV(binGo, "test", "./pkg/...")
}

// Bench runs the benchmarks without the regular tests.
func Bench() error {
	return sh.RunV(binGo, "test", "-run", "^$", "-bench", ".", "-benchmem", "./...")
}

// Lint vets and lints the varmap source roots.
func Lint() error {
	args := make([]string, 0, len(sourceRoots))
	for _, root := range sourceRoots {
		args = append(args, "./"+root+"/...")
	}
	if err := sh.RunV(binGo, append([]string{"vet"}, args...)...); err != nil {
		return err
	}
	return sh.RunV(binLint, append([]string{"run"}, args...)...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Stats prints Go lines of code per package, split into production and
// tests.
func Stats() error {
	counts := map[string]*lineCount{}
	for _, root := range sourceRoots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") {
				return err
			}
			n, err := countLines(path)
			if err != nil {
				return err
			}
			pkg := filepath.ToSlash(filepath.Dir(path))
			if counts[pkg] == nil {
				counts[pkg] = &lineCount{}
			}
			if strings.HasSuffix(path, "_test.go") {
				counts[pkg].test += n
			} else {
				counts[pkg].prod += n
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	pkgs := make([]string, 0, len(counts))
	for pkg := range counts {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var total lineCount
	fmt.Printf("%-24s %8s %8s\n", "package", "prod", "test")
	for _, pkg := range pkgs {
		c := counts[pkg]
		fmt.Printf("%-24s %8d %8d\n", pkg, c.prod, c.test)
		total.prod += c.prod
		total.test += c.test
	}
	fmt.Printf("%-24s %8d %8d\n", "total", total.prod, total.test)
	return nil
}

type lineCount struct {
	prod, test int
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
