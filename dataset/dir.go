// Package dataset assembles digits.Datasets from files: directory trees of images sorted into one
// folder per class, or MNIST-style CSV files.
package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sharnoff/digits"
	"github.com/sharnoff/digits/imageprep"
	"github.com/sharnoff/digits/utils"
)

// Options changes how LoadDir reads a directory tree.
type Options struct {
	// Invert is passed to imageprep.Process for every image.
	Invert bool

	// PerClass, if > 0, is the maximum number of images read from each class directory.
	PerClass int
}

// LoadErrors is the set of images that could not be read by LoadDir, in the order the files
// were listed.
type LoadErrors []*imageprep.LoadError

func (errs LoadErrors) Error() string {
	if len(errs) == 1 {
		return "1 image failed to load: " + errs[0].Error()
	}

	return strconv.Itoa(len(errs)) + " images failed to load, first: " + errs[0].Error()
}

// naturalLess orders file names so that "2.png" comes before "10.png".
func naturalLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimSuffix(a, filepath.Ext(a)))
	nb, errB := strconv.Atoi(strings.TrimSuffix(b, filepath.Ext(b)))
	if errA == nil && errB == nil && na != nb {
		return na < nb
	}

	return a < b
}

type file struct {
	path  string
	label int
}

func listClass(root string, label int, perClass int) ([]file, error) {
	dir := filepath.Join(root, strconv.Itoa(label))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read class directory %q\n", dir)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}

	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })
	if perClass > 0 && len(names) > perClass {
		names = names[:perClass]
	}

	fs := make([]file, len(names))
	for i, n := range names {
		fs[i] = file{filepath.Join(dir, n), label}
	}

	return fs, nil
}

// the number of images each goroutine decodes at a time
const loadOpsPerThread int = 16

// LoadDir reads a directory tree with one subdirectory per class, named "0" through "9", each
// holding that class's images. Images within a class are read in natural name order ("1.png",
// "2.png", ..., "10.png").
//
// Images that cannot be read are left out of the Dataset. If any were left out, LoadDir returns
// the Dataset of the images that were read along with a LoadErrors listing the others, so the
// caller can decide whether to continue without them. Any other error (such as a missing class
// directory) returns a nil Dataset.
func LoadDir(root string, opts Options) (digits.Dataset, error) {
	var files []file
	for label := 0; label < digits.Arch.Output; label++ {
		fs, err := listClass(root, label, opts.PerClass)
		if err != nil {
			return nil, err
		}
		files = append(files, fs...)
	}

	vecs := make([][]float64, len(files))
	errs := make([]error, len(files))

	utils.ForEach(len(files), loadOpsPerThread, func(i int) {
		vecs[i], errs[i] = imageprep.Process(files[i].path, opts.Invert)
	})

	var data digits.Dataset
	var failed LoadErrors
	for i, f := range files {
		if errs[i] != nil {
			le, ok := errs[i].(*imageprep.LoadError)
			if !ok {
				le = &imageprep.LoadError{Path: f.path, Err: errs[i]}
			}
			failed = append(failed, le)
			continue
		}

		data = append(data, digits.Sample{Inputs: vecs[i], Label: f.label})
	}

	if len(failed) != 0 {
		return data, failed
	}

	return data, nil
}
