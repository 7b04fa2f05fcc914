package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sharnoff/digits"
	"github.com/sharnoff/digits/dataset"
)

func eval(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)

	var src source
	src.register(fs, "directory with one sub-directory of images per digit, 0 to 9")
	modelPath := fs.String("model", digits.DefaultModelPath, "saved model to evaluate")
	invert := fs.Bool("invert", false, "invert images (for dark digits on a light background)")
	abortOnBad := fs.Bool("abort-on-bad", false, "stop if any image fails to load")
	parse(fs, args, false)

	if src.dir == "" && src.csv == "" {
		fs.Usage()
		os.Exit(2)
	}

	banner()

	m, err := digits.LoadFile(*modelPath, digits.DefaultLearningRate)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	data, err := src.load(dataset.Options{Invert: *invert}, *abortOnBad)
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	cost, correct, err := m.Test(data)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	fmt.Printf("%d samples: mean error = %g, correct = %.2f%%\n", len(data), cost, 100*correct)
}
