package dataset

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/sharnoff/digits"
)

func writePNG(t *testing.T, path string, v uint8) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 28, 28))
	for i := range img.Pix {
		img.Pix[i] = v
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// makeTree creates root/0 .. root/9 with n images each; image j of class i has value 10*i+j.
func makeTree(t *testing.T, n int) string {
	t.Helper()

	root := t.TempDir()
	for i := 0; i < 10; i++ {
		dir := filepath.Join(root, strconv.Itoa(i))
		if err := os.Mkdir(dir, 0700); err != nil {
			t.Fatal(err)
		}
		for j := 0; j < n; j++ {
			writePNG(t, filepath.Join(dir, fmt.Sprintf("%d.png", j+1)), uint8(10*i+j))
		}
	}

	return root
}

func TestLoadDir(t *testing.T) {
	root := makeTree(t, 3)

	data, err := LoadDir(root, Options{})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(data) != 30 {
		t.Fatalf("len = %d, want 30", len(data))
	}

	for k, s := range data {
		i, j := k/3, k%3
		if s.Label != i {
			t.Errorf("sample %d: label %d, want %d", k, s.Label, i)
		}
		if want := float64(10*i+j) / 255; s.Inputs[0] != want {
			t.Errorf("sample %d: value %v, want %v", k, s.Inputs[0], want)
		}
		if !s.Fits() {
			t.Errorf("sample %d does not fit", k)
		}
	}
}

func TestLoadDirPerClassNaturalOrder(t *testing.T) {
	root := makeTree(t, 12)

	data, err := LoadDir(root, Options{PerClass: 10})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(data) != 100 {
		t.Fatalf("len = %d, want 100", len(data))
	}

	// "10.png" must come after "9.png", and "11.png", "12.png" must be cut
	if want := float64(9) / 255; data[9].Inputs[0] != want {
		t.Errorf("10th image of class 0 has value %v, want %v", data[9].Inputs[0], want)
	}
}

func TestLoadDirInvert(t *testing.T) {
	root := makeTree(t, 1)

	data, err := LoadDir(root, Options{Invert: true})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if want := float64(255-30) / 255; data[3].Inputs[0] != want {
		t.Errorf("value = %v, want %v", data[3].Inputs[0], want)
	}
}

func TestLoadDirSkipsBadImages(t *testing.T) {
	root := makeTree(t, 2)
	bad := filepath.Join(root, "4", "3.png")
	if err := os.WriteFile(bad, []byte("definitely not a png"), 0600); err != nil {
		t.Fatal(err)
	}

	data, err := LoadDir(root, Options{})

	var failed LoadErrors
	if !errors.As(err, &failed) {
		t.Fatalf("expected LoadErrors, got %v", err)
	}
	if len(failed) != 1 || failed[0].Path != bad {
		t.Fatalf("failed = %v, want just %s", failed, bad)
	}

	if len(data) != 20 {
		t.Fatalf("len = %d, want 20 (bad image skipped, not duplicated)", len(data))
	}

	counts := make([]int, 10)
	for _, s := range data {
		counts[s.Label]++
	}
	for i, c := range counts {
		if c != 2 {
			t.Errorf("class %d has %d samples, want 2", i, c)
		}
	}
}

func TestLoadDirMissingClass(t *testing.T) {
	root := makeTree(t, 1)
	if err := os.RemoveAll(filepath.Join(root, "7")); err != nil {
		t.Fatal(err)
	}

	data, err := LoadDir(root, Options{})
	if err == nil {
		t.Fatal("expected an error for a missing class directory")
	}
	if data != nil {
		t.Errorf("expected no data, got %d samples", len(data))
	}

	var failed LoadErrors
	if errors.As(err, &failed) {
		t.Error("a missing directory is not an image load error")
	}
}

func csvLine(label int, v int) string {
	fields := []string{strconv.Itoa(label)}
	for i := 0; i < digits.Arch.Input; i++ {
		fields = append(fields, strconv.Itoa(v))
	}
	return strings.Join(fields, ",")
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	content := csvLine(3, 255) + "\n\n" + csvLine(7, 0) + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	data, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(data) != 2 {
		t.Fatalf("len = %d, want 2", len(data))
	}
	if data[0].Label != 3 || data[0].Inputs[0] != 1 {
		t.Errorf("first sample = label %d value %v", data[0].Label, data[0].Inputs[0])
	}
	if data[1].Label != 7 || data[1].Inputs[783] != 0 {
		t.Errorf("second sample = label %d value %v", data[1].Label, data[1].Inputs[783])
	}
}

func TestReadCSVMalformed(t *testing.T) {
	for name, line := range map[string]string{
		"short":       "1,2,3",
		"bad label":   strings.Replace(csvLine(1, 0), "1", "x", 1),
		"label range": csvLine(10, 0),
		"pixel range": csvLine(1, 256),
	} {
		path := filepath.Join(t.TempDir(), "bad.csv")
		if err := os.WriteFile(path, []byte(line+"\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := ReadCSV(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
