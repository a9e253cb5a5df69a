// Package main provides the Stop hook entry point: the session paused
// and Claude is waiting for input.
package main

import (
	"github.com/thebtf/beacon/pkg/hooks"
	"github.com/thebtf/beacon/pkg/models"
)

func main() {
	hooks.Run(models.KindSessionPause)
}
