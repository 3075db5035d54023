//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "arkhamtr"

// Default target to run when none is specified
var Default = Build

// Build builds the arkhamtr binary
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/arkhamtr")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install tests and installs arkhamtr into GOPATH/bin
func Install() error {
	mg.Deps(Vet, Test)
	return sh.RunV("go", "install", "./cmd/arkhamtr")
}

// Clean removes the binary and the default output directory
func Clean() error {
	if err := sh.Rm(binary); err != nil {
		return err
	}
	return sh.Rm("out")
}
