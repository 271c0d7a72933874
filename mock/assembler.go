package mock

import (
	"context"

	"github.com/starchen4/pptstealer"
)

var _ pptstealer.Assembler = (*Assembler)(nil)

// Assembler is a mock implementation of pptstealer.Assembler.
type Assembler struct {
	AssembleFn func(ctx context.Context, images []*pptstealer.DecodedImage, progress pptstealer.PageProgressFunc) ([]byte, error)
}

func (a *Assembler) Assemble(ctx context.Context, images []*pptstealer.DecodedImage, progress pptstealer.PageProgressFunc) ([]byte, error) {
	return a.AssembleFn(ctx, images, progress)
}
