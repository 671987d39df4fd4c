// Package obfuscate wires the frontend, lowerer, cipher, emitter, and
// post-processor into the two operations spec.md names: turning one source
// file into one obfuscated interpreter, and driving the whole pipeline over
// a batch of input files.
package obfuscate

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/dr8co/vmask/cipher"
	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/compiler"
	"github.com/dr8co/vmask/emitter"
	"github.com/dr8co/vmask/ident"
	"github.com/dr8co/vmask/lexer"
	"github.com/dr8co/vmask/parser"
	"github.com/dr8co/vmask/postprocess"
)

// Config mirrors the Configuration list spec.md §6 enumerates.
type Config struct {
	StringEncoding        bool
	ControlFlowFlattening bool
	DeadCodeInjection     bool
	SelfDefending         bool
	DebugProtection       bool
	Entropy               float64
	TransformObjectKeys   bool
	VMName                string
}

// DefaultConfig returns the spec's defaults: every protection on, entropy
// 0.9, no fixed vm-name (one is generated per run).
func DefaultConfig() Config {
	return Config{
		StringEncoding:        true,
		ControlFlowFlattening: true,
		DeadCodeInjection:     true,
		SelfDefending:         true,
		DebugProtection:       true,
		Entropy:               0.9,
		TransformObjectKeys:   true,
	}
}

// Result carries the emitted source plus the pieces of the pipeline a
// caller might want to inspect (the interactive REPL shows the instruction
// listing and ciphertext preview from exactly this).
type Result struct {
	Source     []byte
	Bytecode   *compiler.Bytecode
	Program    *cipher.Program
	EncodedLen int
}

// Obfuscate compiles source, seals its bytecode and constant pool, renders
// the target-language interpreter, and applies the configured
// post-processing passes.
func Obfuscate(source []byte, cfg Config) (*Result, error) {
	l := lexer.New(string(source))
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		return nil, fmt.Errorf("obfuscate: parse error: %s", strings.Join(errs, "; "))
	}

	comp := compiler.New()
	if err := comp.Compile(program); err != nil {
		return nil, fmt.Errorf("obfuscate: compile error: %w", err)
	}
	bc := comp.Bytecode()

	names := ident.Collect(program)

	var encoded []cipher.EncodedString
	if cfg.StringEncoding {
		var err error
		encoded, err = cipher.EncodePool(bc.Pool)
		if err != nil {
			return nil, fmt.Errorf("obfuscate: pool encoding failed: %w", err)
		}
	}

	sealed, err := cipher.Encode(bc.Instructions, bc.Pool, cfg.DeadCodeInjection, cfg.Entropy, byte(code.Nop))
	if err != nil {
		return nil, fmt.Errorf("obfuscate: bytecode sealing failed: %w", err)
	}

	vmName := cfg.VMName
	if vmName == "" {
		vmName = names.Fresh("vm")
	} else {
		names.Reserve(vmName)
	}

	src, err := emitter.Emit(bc, sealed, encoded, emitter.Options{
		SelfDefending:   cfg.SelfDefending,
		DebugProtection: cfg.DebugProtection,
		VMName:          vmName,
		Names:           names,
	})
	if err != nil {
		return nil, fmt.Errorf("obfuscate: emission failed: %w", err)
	}

	if cfg.TransformObjectKeys {
		src = postprocess.RewriteProperties(src)
	}
	if cfg.DeadCodeInjection {
		src = postprocess.InjectDecoyComments(src, 7, func(n int) int { return rand.Intn(n) })
	}
	if cfg.ControlFlowFlattening {
		src = postprocess.Flatten(src, "__state")
	}

	return &Result{
		Source:     []byte(src),
		Bytecode:   bc,
		Program:    sealed,
		EncodedLen: len(src),
	}, nil
}

// ProcessFiles runs Obfuscate over every input path and writes each result
// to outDir under the same base name with a ".obf.js" suffix.
func ProcessFiles(inputPaths []string, outDir string, cfg Config) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("obfuscate: creating output directory: %w", err)
	}
	for _, in := range inputPaths {
		//nolint:gosec // caller-provided script paths, not user-facing web input
		content, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("obfuscate: reading %s: %w", in, err)
		}
		result, err := Obfuscate(content, cfg)
		if err != nil {
			return fmt.Errorf("obfuscate: processing %s: %w", in, err)
		}
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		outPath := filepath.Join(outDir, base+".obf.js")
		if err := os.WriteFile(outPath, result.Source, 0o644); err != nil {
			return fmt.Errorf("obfuscate: writing %s: %w", outPath, err)
		}
	}
	return nil
}
