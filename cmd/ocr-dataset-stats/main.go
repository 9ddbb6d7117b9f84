package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/ocr-dataset-tools/internal/analysis"
	"github.com/ironsheep/ocr-dataset-tools/internal/config"
	"github.com/ironsheep/ocr-dataset-tools/internal/ocr"
	"github.com/ironsheep/ocr-dataset-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version, --help and the serve subcommand
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ocr-dataset-stats %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "serve":
			serve()
			return
		}
	}

	// Logs go to stderr, the report to stdout
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	params, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Configuration error: %v", err)
	}
	if params.Debug() {
		log.Printf("ocr-dataset-stats v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Data directory: %s", params.DataDir)
		if params.OCRSamples > 0 {
			log.Printf("Tesseract: %s", ocr.Version())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := analysis.New(*params, os.Stdout, os.Stderr).Run(ctx); err != nil {
		stop()
		log.Fatalf("Analysis failed: %v", err)
	}
}

func serve() {
	// stdout is reserved for the MCP protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv(config.EnvLogLevel) == "debug" {
		log.Printf("ocr-dataset-tools MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("ocr-dataset-stats - statistics and vocabulary for an OCR text-line dataset")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ocr-dataset-stats [flags]    Analyze the dataset and write the vocabulary")
	fmt.Println("  ocr-dataset-stats serve      Run the MCP server on stdin/stdout")
	fmt.Println()
	fmt.Println("The data directory must contain train/, train_gt.txt and valid_gt.txt.")
	fmt.Println("Run with -h after any flag to list all flags.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  " + config.EnvDataDir + "       Dataset root directory")
	fmt.Println("  " + config.EnvVocab + "          Vocabulary output file")
	fmt.Println("  " + config.EnvChartDir + "      Chart output directory")
	fmt.Println("  " + config.EnvOCRSamples + "    Tesseract baseline sample count")
	fmt.Println("  " + config.EnvOCRLang + "       Tesseract language")
	fmt.Println("  " + config.EnvTessdata + "       Tesseract data directory")
	fmt.Println("  " + config.EnvEnvFile + "       Path of the .env file (default .env)")
	fmt.Println("  " + config.EnvLogLevel + "=debug  Enable debug logging")
}
