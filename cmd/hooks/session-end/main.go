// Package main provides the SessionEnd hook entry point.
package main

import (
	"github.com/thebtf/beacon/pkg/hooks"
	"github.com/thebtf/beacon/pkg/models"
)

func main() {
	hooks.Run(models.KindSessionEnded)
}
