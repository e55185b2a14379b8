package main

import (
	"context"

	"github.com/auto-dns/github-host-sync/internal/core"
)

type application interface {
	Run(ctx context.Context) (core.Result, error)
	Close() error
}
