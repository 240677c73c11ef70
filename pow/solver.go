package pow

import (
	"context"
	"crypto/rand"
	"runtime"
	"sync"

	"github.com/xcqa/chain-core/chainerr"
	"github.com/xcqa/chain-core/measure"
	"github.com/xcqa/chain-core/xcqa"
	"github.com/xcqa/chain-core/xhash"
)

// Solution is a winning (signature, nonce) pair that satisfies the target
// fine difficulty.
type Solution struct {
	Signature xcqa.Signature
	Nonce     [32]byte
}

// Solver mines a block header against a fine difficulty target, binding
// each attempt to the given block hash.
type Solver interface {
	Mine(ctx context.Context, header []byte, blockHash [64]byte, fineDifficulty uint8) (Solution, error)
}

// CPUSolver mines by spawning Workers goroutines that each generate
// fresh layered keypairs per attempt and check the signature hash against
// the difficulty target. The first worker to find a solution wins; the
// rest are cancelled.
type CPUSolver struct {
	Layers  int
	Workers int
}

// NewCPUSolver returns a solver using the given layer count and worker
// goroutine count. workers <= 0 defaults to one goroutine per CPU.
func NewCPUSolver(layers, workers int) *CPUSolver {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUSolver{Layers: layers, Workers: workers}
}

// Mine searches for a nonce and layered-signature pair whose BLAKE3-512
// digest satisfies CheckDifficulty. It returns the first solution found by
// any worker, or ctx.Err() if the context is cancelled first.
func (s *CPUSolver) Mine(ctx context.Context, header []byte, blockHash [64]byte, fineDifficulty uint8) (Solution, error) {
	type result struct {
		sol Solution
		err error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan result, s.Workers)
	var wg sync.WaitGroup
	wg.Add(s.Workers)

	for i := 0; i < s.Workers; i++ {
		go func() {
			defer wg.Done()
			sol, err := s.mineOne(ctx, header, blockHash, fineDifficulty)
			select {
			case resultCh <- result{sol, err}:
			case <-ctx.Done():
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		if r.err == nil {
			cancel()
			return r.sol, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}
	return Solution{}, &chainerr.MiningFailed{Reason: "no worker found a solution"}
}

func (s *CPUSolver) mineOne(ctx context.Context, header []byte, blockHash [64]byte, fineDifficulty uint8) (Solution, error) {
	for {
		select {
		case <-ctx.Done():
			return Solution{}, ctx.Err()
		default:
		}

		var nonce [32]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return Solution{}, &chainerr.MiningFailed{Reason: err.Error()}
		}

		pk, sk, err := xcqa.KeyGen(s.Layers)
		if err != nil {
			return Solution{}, &chainerr.MiningFailed{Reason: err.Error()}
		}

		msg := make([]byte, 0, len(header)+len(nonce))
		msg = append(msg, header...)
		msg = append(msg, nonce[:]...)

		sig, err := xcqa.SignWithContext(msg, sk, pk, blockHash)
		if err != nil {
			return Solution{}, &chainerr.MiningFailed{Reason: err.Error()}
		}

		if measure.Enabled {
			measure.Global.Add("pow/attempts", 1)
		}
		sigHash := xhash.Blake3_512(serializeSignature(sig))
		if CheckDifficulty(sigHash, fineDifficulty) {
			if measure.Enabled {
				measure.Global.Add("pow/solutions", 1)
			}
			return Solution{Signature: sig, Nonce: nonce}, nil
		}
	}
}

func serializeSignature(sig xcqa.Signature) []byte {
	buf := make([]byte, 0, len(sig.Commitment)+len(sig.Response))
	buf = append(buf, sig.Commitment...)
	buf = append(buf, sig.Response...)
	return buf
}
