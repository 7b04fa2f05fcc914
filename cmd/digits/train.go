package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sharnoff/digits"
	"github.com/sharnoff/digits/dataset"
	"github.com/sharnoff/digits/hyperparams"
)

// schedule builds the learning-rate schedule for the -rate and -steps flags. steps is a
// comma-separated list of epoch:rate pairs, e.g. "1000:0.005,2000:0.001".
func schedule(rate float64, steps string) (hyperparams.HyperParameter, error) {
	if steps == "" {
		return hyperparams.Constant(rate), nil
	}

	s := hyperparams.Step(rate)
	for _, pair := range strings.Split(steps, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(kv) != 2 {
			return nil, errors.Errorf("Bad step %q, expected epoch:rate", pair)
		}

		epoch, err := strconv.Atoi(kv[0])
		if err != nil || epoch < 0 {
			return nil, errors.Errorf("Bad epoch in step %q", pair)
		}
		r, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad rate in step %q", pair)
		}

		s.Add(epoch, r)
	}

	return s, nil
}

func train(args []string) {
	fs := flag.NewFlagSet("train", flag.ExitOnError)

	src := source{dir: "training"}
	src.register(fs, "directory with one sub-directory of images per digit, 0 to 9")
	epochs := fs.Int("epochs", digits.DefaultEpochs, "number of passes over the training data")
	rate := fs.Float64("rate", digits.DefaultLearningRate, "learning rate")
	steps := fs.String("steps", "", "learning rate changes, as epoch:rate[,epoch:rate...]")
	every := fs.Int("every", digits.DefaultStatusEvery, "epochs between status reports")
	perClass := fs.Int("per-class", 0, "maximum number of images per digit, 0 for all")
	invert := fs.Bool("invert", false, "invert images (for dark digits on a light background)")
	modelPath := fs.String("model", digits.DefaultModelPath, "where to save the trained model")
	resume := fs.Bool("resume", false, "continue training the model at -model instead of starting over")
	testDir := fs.String("test", "", "directory of held-out images to test on at every status report")
	abortOnBad := fs.Bool("abort-on-bad", false, "stop if any image fails to load")
	parse(fs, args, false)

	banner()

	if *epochs < 0 {
		log.Printf("-epochs must be >= 0")
		os.Exit(2)
	}

	lr, err := schedule(*rate, *steps)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(2)
	}

	opts := dataset.Options{Invert: *invert, PerClass: *perClass}
	data, err := src.load(opts, *abortOnBad)
	if err != nil {
		log.Fatalf("Failed to load training data: %v", err)
	}

	var testData digits.Dataset
	if *testDir != "" {
		testData, err = source{dir: *testDir}.load(dataset.Options{Invert: *invert}, *abortOnBad)
		if err != nil {
			log.Fatalf("Failed to load test data: %v", err)
		}
	}

	var m *digits.Model
	if *resume {
		if m, err = digits.LoadFile(*modelPath, *rate); err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}
	} else {
		m = digits.New(*rate)
	}

	log.Printf("Training on %d samples for %d epochs", len(data), *epochs)

	update, final := digits.PrintResult(os.Stdout)
	targs := digits.TrainArgs{
		Epochs:       *epochs,
		LearningRate: lr,
		SendStatus:   digits.EveryAndLast(*every, *epochs),
		Update:       update,
		SavePath:     *modelPath,
	}
	if testData != nil {
		targs.TestData = testData
		targs.ShouldTest = targs.SendStatus
	}

	if err = digits.NewTrainer(m).Train(data, targs); err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	final()
	log.Printf("Saved model to %s", *modelPath)
}
