//go:build !gpu

package pow

import (
	"context"

	"github.com/xcqa/chain-core/chainerr"
)

// GPUSolver is the GPU back-end selector. The default build has no GPU
// dependency; it always reports unavailable so the CLI can fall back to the
// CPU solver without a build-tag leak into chain logic.
type GPUSolver struct {
	Layers int
}

// GPUAvailable reports whether a GPU solver back-end is compiled in.
func GPUAvailable() bool { return false }

// Mine always fails in the stub build.
func (s *GPUSolver) Mine(ctx context.Context, header []byte, blockHash [64]byte, fineDifficulty uint8) (Solution, error) {
	return Solution{}, &chainerr.GpuNotAvailable{Reason: "built without gpu tag"}
}
