package digits

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/sharnoff/digits/operators"
	"github.com/sharnoff/digits/optimizers"
)

// RecordVersion is the version of the persisted format written by Save.
const RecordVersion int = 1

// DefaultModelPath is where the command-line tools save and load the model.
const DefaultModelPath string = "mlp_model.json"

// Record is the persisted form of a Model. It is written as JSON:
//
//	{
//	  "version": 1,
//	  "arch": {"input": 784, "hidden": 128, "output": 10},
//	  "hyper": {"learning_rate": 0.01, "activation": "tanh"},
//	  "params": {"W1": [[...], ...], "b1": [...], "W2": [[...], ...], "b2": [...]}
//	}
//
// Weight matrices are stored as a list of rows.
type Record struct {
	Version int           `json:"version"`
	Arch    *Architecture `json:"arch"`
	Hyper   *Hyper        `json:"hyper,omitempty"`
	Params  *Params       `json:"params"`
}

// Hyper holds the hyperparameters stored with a Record. LearningRate is a pointer so that a
// record without one can be told apart from a record with a rate of zero.
type Hyper struct {
	LearningRate *float64 `json:"learning_rate,omitempty"`
	Activation   string   `json:"activation,omitempty"`
}

// Params holds the four parameter tensors of a Record.
type Params struct {
	W1 [][]float64 `json:"W1"`
	B1 []float64   `json:"b1"`
	W2 [][]float64 `json:"W2"`
	B2 []float64   `json:"b2"`
}

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	rs := make([][]float64, r)
	for i := range rs {
		rs[i] = mat.Row(nil, i, m)
	}

	return rs
}

// Record returns a snapshot of the Model's parameters and hyperparameters. The shapes are
// checked against Arch first; a mismatch is logged as a warning and the record is produced from
// whatever the Model holds, with "arch" describing the actual shapes.
func (m *Model) Record() *Record {
	if err := Arch.Check(m.w1, m.w2, m.b1, m.b2); err != nil {
		Logger.Printf("Warning: model does not match its architecture, saving anyway: %v", err)
	}

	hidden, input := m.w1.Dims()
	output, _ := m.w2.Dims()
	rate := m.learningRate

	return &Record{
		Version: RecordVersion,
		Arch:    &Architecture{Input: input, Hidden: hidden, Output: output},
		Hyper: &Hyper{
			LearningRate: &rate,
			Activation:   operators.Tanh().TypeString(),
		},
		Params: &Params{
			W1: rows(m.w1),
			B1: mat.Col(nil, 0, m.b1),
			W2: rows(m.w2),
			B2: mat.Col(nil, 0, m.b2),
		},
	}
}

// Save writes the Model to w as indented JSON.
func (m *Model) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.Record()); err != nil {
		return errors.Wrapf(err, "Can't save model, failed to encode JSON\n")
	}

	return nil
}

// SaveFile saves the Model to the file at path, creating any missing directories and replacing
// the file if it already exists. The file is written under a temporary name first and renamed
// into place, so an interrupted save leaves the previous model intact.
func (m *Model) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "Can't save model, couldn't create directory %q\n", dir)
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "Can't save model, couldn't create file in %q\n", dir)
	}

	finishedSafely := false
	defer func() {
		if !finishedSafely {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = m.Save(f); err != nil {
		return err
	}

	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "Can't save model, couldn't write %q\n", f.Name())
	}

	if err = os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		finishedSafely = true
		return errors.Wrapf(err, "Can't save model, couldn't move it to %q\n", path)
	}

	finishedSafely = true
	return nil
}

func denseFrom(name string, rs [][]float64, r, c int) (*mat.Dense, error) {
	if rs == nil {
		return nil, formatErr("missing \"params.%s\"", name)
	}

	if len(rs) != r {
		var cols int
		if len(rs) != 0 {
			cols = len(rs[0])
		}
		return nil, &FormatError{"wrong shape", &DimensionError{name, len(rs), cols, r, c}}
	}

	d := mat.NewDense(r, c, nil)
	for i, row := range rs {
		if len(row) != c {
			return nil, &FormatError{"wrong shape", &DimensionError{name, len(rs), len(row), r, c}}
		}
		d.SetRow(i, row)
	}

	return d, nil
}

func vecFrom(name string, v []float64, size int) (*mat.VecDense, error) {
	if v == nil {
		return nil, formatErr("missing \"params.%s\"", name)
	} else if len(v) != size {
		return nil, &FormatError{"wrong shape", &DimensionError{name, len(v), 1, size, 1}}
	}

	c := make([]float64, size)
	copy(c, v)
	return mat.NewVecDense(size, c), nil
}

// FromRecord builds a Model from a Record. Any missing section or tensor, any architecture other
// than Arch, any tensor whose shape disagrees with Arch, or an activation other than tanh results
// in a *FormatError; no partial Model is ever returned.
//
// The learning rate is taken from the Record if it has one, and is defaultRate otherwise.
func FromRecord(rec *Record, defaultRate float64) (*Model, error) {
	if rec == nil {
		return nil, formatErr("record is empty")
	}

	// records written before versioning have no "version" field
	if rec.Version != 0 && rec.Version != RecordVersion {
		return nil, formatErr("unsupported version %d (want %d)", rec.Version, RecordVersion)
	} else if rec.Arch == nil {
		return nil, formatErr("missing \"arch\"")
	} else if rec.Params == nil {
		return nil, formatErr("missing \"params\"")
	} else if *rec.Arch != Arch {
		return nil, formatErr("architecture %d/%d/%d does not match %d/%d/%d",
			rec.Arch.Input, rec.Arch.Hidden, rec.Arch.Output, Arch.Input, Arch.Hidden, Arch.Output)
	}

	rate := defaultRate
	if rec.Hyper != nil {
		if a := rec.Hyper.Activation; a != "" && a != operators.Tanh().TypeString() {
			return nil, formatErr("unsupported activation %q", a)
		}

		if rec.Hyper.LearningRate != nil {
			rate = *rec.Hyper.LearningRate
		}
	}

	m := &Model{learningRate: rate, opt: optimizers.SGD()}

	var err error
	p := rec.Params
	if m.w1, err = denseFrom("W1", p.W1, Arch.Hidden, Arch.Input); err != nil {
		return nil, err
	} else if m.b1, err = vecFrom("b1", p.B1, Arch.Hidden); err != nil {
		return nil, err
	} else if m.w2, err = denseFrom("W2", p.W2, Arch.Output, Arch.Hidden); err != nil {
		return nil, err
	} else if m.b2, err = vecFrom("b2", p.B2, Arch.Output); err != nil {
		return nil, err
	}

	return m, nil
}

// Load reads a Model saved by Save. See FromRecord for the checks that are made; malformed JSON
// is also a *FormatError.
func Load(r io.Reader, defaultRate float64) (*Model, error) {
	var rec Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, &FormatError{"invalid JSON", err}
	}

	return FromRecord(&rec, defaultRate)
}

// LoadFile loads the Model saved at path by SaveFile.
func LoadFile(path string, defaultRate float64) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load model, couldn't open %q\n", path)
	}

	defer f.Close()

	m, err := Load(f, defaultRate)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load model from %q\n", path)
	}

	return m, nil
}
