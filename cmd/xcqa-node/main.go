package main

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/xcqa/chain-core/chain"
	"github.com/xcqa/chain-core/chainvalidate"
	"github.com/xcqa/chain-core/commitment"
	"github.com/xcqa/chain-core/config"
	"github.com/xcqa/chain-core/epochkey"
	"github.com/xcqa/chain-core/measure"
	"github.com/xcqa/chain-core/mldsaadapter"
	"github.com/xcqa/chain-core/pow"
	"github.com/xcqa/chain-core/rangeproof"
)

func usage() {
	fmt.Println(`usage: xcqa-node <keygen|mine|inspect|prove> [options]

Subcommands:
  keygen   Generate an ML-DSA-65 keypair and write ./xcqa_keys/{public,private}.json
           Flags:
             -dir <path>   output directory (default: ./xcqa_keys)

  mine     Mine blocks onto a fresh chain from genesis
           Flags:
             -blocks  <int>     number of blocks to mine (default: 3)
             -config  <path>    JSON parameter file (default: built-in params)
             -layers  <int>     layered-signature layer count override
             -workers <int>     solver goroutines (0 = one per core)
             -timeout <dur>     per-block mining timeout (default: 0 = none)
             -out     <path>    directory to write canonical block files
             -gpu               use the GPU solver back-end if compiled in

  inspect  Decode a canonical block file and print its header
           Flags:
             -in <path>    block file written by mine -out (required)

  prove    Build a range proof for a value and report its wire sizes
           Flags:
             -value <uint>  value to prove in [0, 2^64) (default: 12345)`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "keygen":
		runKeygen(os.Args[2:])
	case "mine":
		runMine(os.Args[2:])
	case "inspect":
		runInspect(os.Args[2:])
	case "prove":
		runProve(os.Args[2:])
	default:
		usage()
	}
}

type publicKeyFile struct {
	Algorithm string `json:"algorithm"`
	PublicKey string `json:"public_key"`
}

type privateKeyFile struct {
	Algorithm string `json:"algorithm"`
	Seed      string `json:"seed"`
}

func runKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	dir := fs.String("dir", "./xcqa_keys", "output directory")
	fs.Parse(args)

	pk, sk, err := mldsaadapter.GenerateKeyPair()
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	defer sk.Wipe()

	if err := os.MkdirAll(*dir, 0o700); err != nil {
		log.Fatalf("mkdir %s: %v", *dir, err)
	}
	seed := sk.Seed()
	writeJSON(filepath.Join(*dir, "public.json"), publicKeyFile{
		Algorithm: "ML-DSA-65",
		PublicKey: hex.EncodeToString(pk[:]),
	})
	writeJSON(filepath.Join(*dir, "private.json"), privateKeyFile{
		Algorithm: "ML-DSA-65",
		Seed:      hex.EncodeToString(seed[:]),
	})
	fmt.Printf("wrote %s/{public,private}.json\n", *dir)
}

func writeJSON(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
}

func runMine(args []string) {
	fs := flag.NewFlagSet("mine", flag.ExitOnError)
	blocks := fs.Int("blocks", 3, "number of blocks to mine")
	cfgPath := fs.String("config", "", "JSON parameter file")
	layers := fs.Int("layers", 0, "layer count override")
	workers := fs.Int("workers", 0, "solver goroutines (0 = one per core)")
	timeout := fs.Duration("timeout", 0, "per-block mining timeout")
	outDir := fs.String("out", "", "directory to write canonical block files")
	useGPU := fs.Bool("gpu", false, "use the GPU solver back-end")
	fs.Parse(args)

	params := config.Default()
	if *cfgPath != "" {
		var err error
		params, err = config.Load(*cfgPath, false)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if *layers > 0 {
		params.Layers = *layers
	}
	if *workers > 0 {
		params.Workers = *workers
	}

	var solver pow.Solver
	if *useGPU {
		if !pow.GPUAvailable() {
			log.Fatal("gpu solver requested but not compiled in")
		}
		solver = &pow.GPUSolver{Layers: params.Layers}
	} else {
		solver = pow.NewCPUSolver(params.Layers, params.Workers)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Fatalf("mkdir %s: %v", *outDir, err)
		}
	}

	c := chain.Genesis()
	for i := 0; i < *blocks; i++ {
		tip := c.Tip()
		tier, fine := c.NextDifficulty()
		header := chainvalidate.BlockHeader{
			Height:         tip.Header.Height + 1,
			PrevHash:       tip.Header.Hash(),
			Timestamp:      uint64(time.Now().Unix()),
			DifficultyTier: tier,
			FineDifficulty: fine,
		}
		blockHash := header.Hash()
		epochPK := epochkey.Generate(header.PrevHash, header.Height, tier, params.Layers)

		ctx := context.Background()
		cancel := context.CancelFunc(func() {})
		if *timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, *timeout)
		}
		start := time.Now()
		sol, err := solver.Mine(ctx, header.Bytes(), blockHash, fine)
		cancel()
		if err != nil {
			log.Fatalf("mine block %d: %v", header.Height, err)
		}

		block := chainvalidate.Block{
			Header:    header,
			XCQASig:   sol.Signature,
			XCQANonce: sol.Nonce,
		}
		if err := c.Append(block); err != nil {
			log.Fatalf("append block %d: %v", header.Height, err)
		}
		fmt.Printf("block %d mined in %s (tier=%d fine=%d, epoch key %d bytes)\n",
			header.Height, time.Since(start).Round(time.Millisecond), tier, fine, len(epochPK))

		if *outDir != "" {
			raw, err := chainvalidate.MarshalBlock(&block)
			if err != nil {
				log.Fatalf("marshal block %d: %v", header.Height, err)
			}
			path := filepath.Join(*outDir, fmt.Sprintf("block_%06d.bin", header.Height))
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				log.Fatalf("write %s: %v", path, err)
			}
		}
	}

	fmt.Printf("chain height: %d\n", c.Height())
	if measure.Enabled {
		measure.Global.Dump()
	}
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	in := fs.String("in", "", "block file to decode")
	fs.Parse(args)
	if *in == "" {
		log.Fatal("inspect: -in is required")
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read %s: %v", *in, err)
	}
	b, err := chainvalidate.UnmarshalBlock(raw)
	if err != nil {
		log.Fatalf("decode %s: %v", *in, err)
	}
	h := b.Header.Hash()
	fmt.Printf("height:       %d\n", b.Header.Height)
	fmt.Printf("prev_hash:    %x\n", b.Header.PrevHash)
	fmt.Printf("timestamp:    %d\n", b.Header.Timestamp)
	fmt.Printf("tier/fine:    %d/%d\n", b.Header.DifficultyTier, b.Header.FineDifficulty)
	fmt.Printf("hash:         %x\n", h)
	fmt.Printf("transactions: %d\n", len(b.Transactions))
	fmt.Printf("xcqa sig:     %d+%d bytes, nonce %x\n",
		len(b.XCQASig.Commitment), len(b.XCQASig.Response), b.XCQANonce)
}

// newCryptoRNG seeds a ChaCha8 stream from the system randomness source; it
// satisfies the commitment sampler's RNG contract.
func newCryptoRNG() *mrand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		log.Fatalf("rng seed: %v", err)
	}
	return mrand.New(mrand.NewChaCha8(seed))
}

func runProve(args []string) {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	value := fs.Uint64("value", 12345, "value to prove in range")
	fs.Parse(args)

	matrix := commitment.DeriveMatrix(4, 4)
	rng := newCryptoRNG()
	var ctx [64]byte

	proof := rangeproof.Prove(*value, matrix, rng, ctx)
	if !proof.Verify(matrix, ctx) {
		log.Fatal("prove: freshly built proof failed verification")
	}
	raw, err := rangeproof.Marshal(proof)
	if err != nil {
		log.Fatalf("serialize: %v", err)
	}
	compressed, err := rangeproof.Compress(proof)
	if err != nil {
		log.Fatalf("compress: %v", err)
	}
	fmt.Printf("value:        %d\n", *value)
	fmt.Printf("raw proof:    %d bytes\n", len(raw))
	fmt.Printf("compressed:   %d bytes (%.1f%%)\n",
		len(compressed), 100*float64(len(compressed))/float64(len(raw)))
}
