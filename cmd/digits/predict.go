package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sharnoff/digits"
	"github.com/sharnoff/digits/imageprep"
)

func predict(args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	modelPath := fs.String("model", digits.DefaultModelPath, "saved model to use")
	invert := fs.Bool("invert", true, "invert images (for dark digits on a light background)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: digits predict [flags] image...\n")
		fs.PrintDefaults()
	}
	parse(fs, args, true)

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	m, err := digits.LoadFile(*modelPath, digits.DefaultLearningRate)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	for _, path := range fs.Args() {
		in, err := imageprep.Process(path, *invert)
		if err != nil {
			log.Fatalf("%v", err)
		}

		d, p, err := m.Predict(in)
		if err != nil {
			log.Fatalf("Failed to classify %s: %v", path, err)
		}

		if fs.NArg() > 1 {
			fmt.Printf("%s: ", path)
		}
		fmt.Printf("The MLP predicts an %d with %g confidence\n", d, p)
	}
}
