// Command digits trains the handwritten digit recognizer and uses it to classify images.
//
// Usage:
//
//	digits train   [-data dir | -csv file] [flags]
//	digits predict [-model file] [-invert=true] image...
//	digits eval    [-model file] (-data dir | -csv file)
//
// Run "digits <command> -h" for the flags of each command.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/klauspost/cpuid/v2"
)

type command struct {
	name, summary string
	run           func(args []string)
}

var commands = []command{
	{"train", "train a new model on labeled images", train},
	{"predict", "classify image files with a saved model", predict},
	{"eval", "report the loss and accuracy of a saved model", eval},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <command> [flags]\n\ncommands:\n", os.Args[0])
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.summary)
	}
	os.Exit(2)
}

func banner() {
	log.Printf("%s, %d logical cores, AVX2: %v", cpuid.CPU.BrandName, cpuid.CPU.LogicalCores, cpuid.CPU.Supports(cpuid.AVX2))
}

func main() {
	log.SetFlags(log.Ltime)

	if len(os.Args) < 2 {
		usage()
	}

	for _, c := range commands {
		if c.name == os.Args[1] {
			c.run(os.Args[2:])
			return
		}
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
	usage()
}
