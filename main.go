// vmask turns C-family scripting source into a virtualizing-obfuscated
// interpreter: a bytecode compiler feeds a sealed constant pool and
// ciphertext to a rendered target-language dispatch loop.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/dr8co/vmask/obfuscate"
	"github.com/dr8co/vmask/repl"
)

const version = "0.1.0"

// printUsage displays custom usage information
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `vmask v%s

USAGE:
    %s [OPTIONS]

DESCRIPTION:
    vmask compiles source to bytecode, seals it, and emits a standalone
    obfuscated interpreter. Without any flags, it starts an interactive
    console.

OPTIONS:
    -f, --file <path>              Obfuscate a source file
    -e, --eval <code>              Obfuscate a source snippet and print the result
    -o, --out <dir>                Output directory for -f (default: alongside the input)
    -d, --debug                    Enable debug mode with more verbose output
    -v, --version                  Show version information
    -h, --help                     Show this help message

    --no-string-encoding            Disable constant-pool string masking
    --no-control-flow-flattening    Disable control-flow flattening
    --no-dead-code-injection        Disable NOP padding and decoy comments
    --no-self-defending              Disable self-defending checks
    --no-debug-protection            Disable timing/devtools probes
    --no-transform-object-keys       Disable property-access rewriting
    --entropy <float>               Padding volume in [0,1] (default: 0.9)
    --vm-name <name>                 Override the generated interpreter identifier

EXAMPLES:
    # Start the interactive console
    %s

    # Obfuscate a script file
    %s -f script.js -o dist/

    # Obfuscate a snippet and print it
    %s -e "var x = 5; x * 2;"
`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "Obfuscate a source file")
	evalFlag := flag.String("eval", "", "Obfuscate a source snippet and print the result")
	outFlag := flag.String("out", "", "Output directory for -f")
	debugFlag := flag.Bool("debug", false, "Enable debug mode with more verbose output")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(fileFlag, "f", "", "Obfuscate a source file")
	flag.StringVar(evalFlag, "e", "", "Obfuscate a source snippet and print the result")
	flag.StringVar(outFlag, "o", "", "Output directory for -f")
	flag.BoolVar(debugFlag, "d", false, "Enable debug mode with more verbose output")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	noStringEncoding := flag.Bool("no-string-encoding", false, "Disable constant-pool string masking")
	noFlattening := flag.Bool("no-control-flow-flattening", false, "Disable control-flow flattening")
	noDeadCode := flag.Bool("no-dead-code-injection", false, "Disable NOP padding and decoy comments")
	noSelfDefending := flag.Bool("no-self-defending", false, "Disable self-defending checks")
	noDebugProtection := flag.Bool("no-debug-protection", false, "Disable timing/devtools probes")
	noTransformKeys := flag.Bool("no-transform-object-keys", false, "Disable property-access rewriting")
	entropyFlag := flag.Float64("entropy", 0.9, "Padding volume in [0,1]")
	vmNameFlag := flag.String("vm-name", "", "Override the generated interpreter identifier")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("vmask v%s\n", version)
		return
	}

	cfg := obfuscate.DefaultConfig()
	cfg.StringEncoding = !*noStringEncoding
	cfg.ControlFlowFlattening = !*noFlattening
	cfg.DeadCodeInjection = !*noDeadCode
	cfg.SelfDefending = !*noSelfDefending
	cfg.DebugProtection = !*noDebugProtection
	cfg.TransformObjectKeys = !*noTransformKeys
	cfg.Entropy = *entropyFlag
	cfg.VMName = *vmNameFlag

	if *fileFlag != "" {
		obfuscateFile(*fileFlag, *outFlag, cfg, *debugFlag)
		return
	}

	if *evalFlag != "" {
		obfuscateExpression(*evalFlag, cfg)
		return
	}

	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	fmt.Println("Hello", username+",", "welcome to vmask!")
	fmt.Println("Type source to obfuscate it. (Ctrl+D or Ctrl+C to exit)")

	repl.Start(username, repl.Options{Debug: *debugFlag})
}

// obfuscateFile reads filename, obfuscates it, and writes the result to
// outDir (or alongside the input file when outDir is empty).
func obfuscateFile(filename, outDir string, cfg obfuscate.Config, debug bool) {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		fmt.Printf("Error getting absolute path: %s\n", err)
		os.Exit(1)
	}
	if outDir == "" {
		outDir = filepath.Dir(absolute)
	}
	if debug {
		fmt.Printf("Obfuscating file: %s -> %s\n", absolute, outDir)
	}

	if err := obfuscate.ProcessFiles([]string{absolute}, outDir, cfg); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}

// obfuscateExpression obfuscates a single snippet and prints the result.
func obfuscateExpression(src string, cfg obfuscate.Config) {
	result, err := obfuscate.Obfuscate([]byte(src), cfg)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Print(string(result.Source))
}
