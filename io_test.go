package digits

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// trainedModel returns a Model that has moved away from its initial weights.
func trainedModel(t *testing.T) *Model {
	t.Helper()

	m := New(0.05)
	for _, s := range syntheticDigits() {
		if _, err := m.TrainSample(s.Inputs, s.Label); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func sameModel(t *testing.T, a, b *Model) {
	t.Helper()

	if !mat.Equal(a.w1, b.w1) || !mat.Equal(a.w2, b.w2) {
		t.Error("weights differ")
	}
	if !mat.Equal(a.b1, b.b1) || !mat.Equal(a.b2, b.b2) {
		t.Error("biases differ")
	}
	if a.LearningRate() != b.LearningRate() {
		t.Errorf("learning rate %v != %v", a.LearningRate(), b.LearningRate())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := trainedModel(t)

	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&buf, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sameModel(t, m, loaded)

	in := syntheticDigits()[4].Inputs
	a, _ := m.Forward(in)
	b, _ := loaded.Forward(in)
	for i := range a.Output {
		if a.Output[i] != b.Output[i] {
			t.Fatalf("output[%d]: %v != %v", i, a.Output[i], b.Output[i])
		}
	}
}

func TestSaveLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := New(0.01).Save(&buf); err != nil {
		t.Fatal(err)
	}

	var raw struct {
		Version int
		Arch    map[string]int
		Hyper   map[string]interface{}
		Params  map[string]json.RawMessage
	}
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}

	if raw.Version != RecordVersion {
		t.Errorf("version = %d", raw.Version)
	}
	if raw.Arch["input"] != 784 || raw.Arch["hidden"] != 128 || raw.Arch["output"] != 10 {
		t.Errorf("arch = %v", raw.Arch)
	}
	if raw.Hyper["learning_rate"] != 0.01 || raw.Hyper["activation"] != "tanh" {
		t.Errorf("hyper = %v", raw.Hyper)
	}

	var w2 [][]float64
	if err := json.Unmarshal(raw.Params["W2"], &w2); err != nil {
		t.Fatal(err)
	}
	if len(w2) != 10 || len(w2[0]) != 128 {
		t.Errorf("W2 saved as %d rows of %d", len(w2), len(w2[0]))
	}
	for _, k := range []string{"W1", "b1", "b2"} {
		if _, ok := raw.Params[k]; !ok {
			t.Errorf("params has no %q", k)
		}
	}
}

func TestSaveFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", DefaultModelPath)

	if err := New(0.01).SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	m := trainedModel(t)
	if err := m.SaveFile(path); err != nil {
		t.Fatalf("SaveFile over existing file: %v", err)
	}

	loaded, err := LoadFile(path, 1)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	sameModel(t, m, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the model file to remain, found %d entries", len(entries))
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "none.json"), 0.01)
	if err == nil {
		t.Fatal("expected an error")
	}

	var fe *FormatError
	if errors.As(err, &fe) {
		t.Error("a missing file should not be a *FormatError")
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

// encode marshals rec, lets edit change the decoded JSON object, and returns the result.
func encode(t *testing.T, rec *Record, edit func(map[string]interface{})) []byte {
	t.Helper()

	bs, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	var obj map[string]interface{}
	if err = json.Unmarshal(bs, &obj); err != nil {
		t.Fatal(err)
	}
	edit(obj)

	if bs, err = json.Marshal(obj); err != nil {
		t.Fatal(err)
	}
	return bs
}

func TestLoadRejects(t *testing.T) {
	rec := New(0.01).Record()

	cases := []struct {
		name string
		edit func(map[string]interface{})
	}{
		{"hidden 64", func(o map[string]interface{}) {
			o["arch"].(map[string]interface{})["hidden"] = 64
		}},
		{"missing W2", func(o map[string]interface{}) {
			delete(o["params"].(map[string]interface{}), "W2")
		}},
		{"missing b1", func(o map[string]interface{}) {
			delete(o["params"].(map[string]interface{}), "b1")
		}},
		{"missing arch", func(o map[string]interface{}) {
			delete(o, "arch")
		}},
		{"missing params", func(o map[string]interface{}) {
			delete(o, "params")
		}},
		{"future version", func(o map[string]interface{}) {
			o["version"] = RecordVersion + 1
		}},
		{"activation", func(o map[string]interface{}) {
			o["hyper"].(map[string]interface{})["activation"] = "relu"
		}},
		{"short b2", func(o map[string]interface{}) {
			o["params"].(map[string]interface{})["b2"] = []float64{1, 2, 3}
		}},
		{"ragged W1", func(o map[string]interface{}) {
			w1 := o["params"].(map[string]interface{})["W1"].([]interface{})
			w1[5] = w1[5].([]interface{})[:700]
		}},
		{"transposed W2", func(o map[string]interface{}) {
			o["params"].(map[string]interface{})["W2"] = rows(mat.NewDense(Arch.Hidden, Arch.Output, nil))
		}},
	}

	for _, c := range cases {
		_, err := Load(bytes.NewReader(encode(t, rec, c.edit)), 0.01)

		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%s: expected *FormatError, got %v", c.name, err)
			continue
		}
		if !strings.HasPrefix(fe.Error(), "Can't load model, bad format") {
			t.Errorf("%s: unexpected message %q", c.name, fe.Error())
		}
	}

	for _, bad := range []string{"", "{", "[1, 2]", `{"arch": "784"}`} {
		var fe *FormatError
		if _, err := Load(strings.NewReader(bad), 0.01); !errors.As(err, &fe) {
			t.Errorf("%q: expected *FormatError, got %v", bad, err)
		}
	}
}

func TestLoadShapeErrors(t *testing.T) {
	rec := New(0.01).Record()
	rec.Params.W1 = rec.Params.W1[:100]

	_, err := FromRecord(rec, 0.01)

	var de *DimensionError
	if !errors.As(err, &de) {
		t.Fatalf("expected a *DimensionError, got %v", err)
	}
	if de.Name != "W1" || de.Rows != 100 || de.WantRows != Arch.Hidden {
		t.Errorf("unexpected error %+v", de)
	}
}

func TestLoadDefaults(t *testing.T) {
	rec := New(0.3).Record()
	rec.Hyper = nil
	rec.Version = 0

	m, err := FromRecord(rec, 0.07)
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}
	if m.LearningRate() != 0.07 {
		t.Errorf("learning rate = %v, want the default 0.07", m.LearningRate())
	}

	rec.Hyper = &Hyper{}
	if m, err = FromRecord(rec, 0.02); err != nil {
		t.Fatalf("FromRecord: %v", err)
	} else if m.LearningRate() != 0.02 {
		t.Errorf("learning rate = %v, want the default 0.02", m.LearningRate())
	}

	// loaded parameters must not alias the record
	rec.Params.B2[0] = 99
	rec.Params.W1[0][0] = 99
	if m.b2.AtVec(0) == 99 || m.w1.At(0, 0) == 99 {
		t.Error("model shares memory with its record")
	}
}

func TestSaveMismatchWarns(t *testing.T) {
	var logged bytes.Buffer
	old := Logger
	Logger = log.New(&logged, "", 0)
	defer func() { Logger = old }()

	m := New(0.01)
	m.w2 = mat.NewDense(Arch.Output, 64, nil)

	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.Contains(logged.String(), "Warning") {
		t.Errorf("expected a warning, logged %q", logged.String())
	}

	var fe *FormatError
	if _, err := Load(&buf, 0.01); !errors.As(err, &fe) {
		t.Errorf("expected the mismatched model to fail to load, got %v", err)
	}
}
