//go:build wireinject

package main

import (
	"context"
	"io"

	"github.com/google/wire"
)

// InitializeApp wires the application from a config path and terminal streams.
func InitializeApp(ctx context.Context, path ConfigPath, in io.Reader, out io.Writer) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
