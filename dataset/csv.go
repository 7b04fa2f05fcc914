package dataset

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sharnoff/digits"
)

const maxInput float64 = 255

// parseLine parses a single line of an MNIST CSV file:
//
//	<class>, img[0], img[1], img[2], ... img[783]
//
// where <class> is 0 -> 9 and img[n] is an integer in the range [0, 255].
func parseLine(str string) (s digits.Sample, err error) {
	fields := strings.Split(str, ",")

	if len(fields) != digits.Arch.Input+1 {
		err = errors.Errorf("Can't get image, wrong number of values in line (had %d, should be %d)", len(fields), digits.Arch.Input+1)
		return
	}

	if s.Label, err = strconv.Atoi(strings.TrimSpace(fields[0])); err != nil {
		err = errors.Wrapf(err, "Couldn't parse value of class (given: %s)\n", fields[0])
		return
	} else if s.Label < 0 || s.Label >= digits.Arch.Output {
		err = errors.Errorf("Class is out of bounds (%d not in [0, %d))", s.Label, digits.Arch.Output)
		return
	}

	s.Inputs = make([]float64, digits.Arch.Input)
	for i := range s.Inputs {
		var v int
		if v, err = strconv.Atoi(strings.TrimSpace(fields[i+1])); err != nil {
			err = errors.Wrapf(err, "Couldn't parse value %d of line (given: %s)\n", i, fields[i+1])
			return
		} else if v < 0 || float64(v) > maxInput {
			err = errors.Errorf("Value %d of line is out of range (%d not in [0, 255])", i, v)
			return
		}

		s.Inputs[i] = float64(v) / maxInput
	}

	return
}

// ReadCSV reads a file in which every non-empty line is one labeled image, as in the common
// CSV conversion of MNIST. Any malformed line is an error, identified by its line number.
func ReadCSV(fileName string) (digits.Dataset, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't open file %s\n", fileName)
	}

	defer f.Close()

	var data digits.Dataset

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		str := strings.TrimSpace(sc.Text())
		if str == "" {
			continue
		}

		s, err := parseLine(str)
		if err != nil {
			return nil, errors.Wrapf(err, "Couldn't get image on line %d for file %s\n", line, fileName)
		}

		data = append(data, s)
	}

	if err = sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "Scanning file %s encountered an error\n", fileName)
	}

	return data, nil
}
