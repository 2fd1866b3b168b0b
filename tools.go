//go:build tools

package main

// Pins code-generation tools referenced by go:generate directives.
import (
	_ "go.uber.org/mock/mockgen"
)
