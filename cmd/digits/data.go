package main

import (
	"flag"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/sharnoff/digits"
	"github.com/sharnoff/digits/dataset"
)

// source is the pair of flags that select where labeled samples come from.
type source struct {
	dir, csv string
}

func (s *source) register(fs *flag.FlagSet, dirUsage string) {
	fs.StringVar(&s.dir, "data", s.dir, dirUsage)
	fs.StringVar(&s.csv, "csv", "", "MNIST-style CSV file (label,p0..p783) to use instead of -data")
}

// load reads the samples from whichever of the two flags is set. When images fail to load, the
// failures are logged and the remaining samples returned, unless abortOnBad is set.
func (s source) load(opts dataset.Options, abortOnBad bool) (digits.Dataset, error) {
	if s.csv != "" {
		log.Printf("Reading %s...", s.csv)
		return dataset.ReadCSV(s.csv)
	} else if s.dir == "" {
		return nil, errors.Errorf("No data given, need -data or -csv")
	}

	log.Printf("Loading images from %s...", s.dir)
	data, err := dataset.LoadDir(s.dir, opts)
	if failed, ok := err.(dataset.LoadErrors); ok {
		for _, e := range failed {
			log.Printf("Skipping image: %v", e)
		}
		if abortOnBad {
			return nil, err
		}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, errors.Errorf("No usable images under %q", s.dir)
	}
	return data, nil
}

// parse is FlagSet.Parse that exits with a usage error when there are leftover arguments and
// extra is false.
func parse(fs *flag.FlagSet, args []string, extra bool) {
	fs.Parse(args)
	if !extra && fs.NArg() != 0 {
		fs.Usage()
		os.Exit(2)
	}
}
