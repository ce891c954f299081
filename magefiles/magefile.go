//go:build mage

// Package main provides build targets for the client-success toolkit
// using Mage.
//
// Usage:
//
//	mage build    Compile the cstools binary to bin/
//	mage test     Run all tests
//	mage lint     Run golangci-lint
//	mage clean    Remove build artifacts
//	mage install  Install cstools to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "cstools"
	binaryDir  = "bin"
	cmdDir     = "./cmd/cstools"
)

// Build compiles the cstools binary to bin/.
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

// Lint runs golangci-lint over the whole module.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
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
	dest := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dest, filepath.Join(binaryDir, binaryName))
}
