package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ghodss/yaml"
)

// RunConfig holds the recognized run options. The json tags name the
// on-disk keys for both the YAML input file and the checkpoint
// config.json.
type RunConfig struct {
	Outdir      string  `json:"outdir"`
	Restart     string  `json:"restart"`
	Tfinal      float64 `json:"tfinal"`
	Cpi         float64 `json:"cpi"`
	Vtki        float64 `json:"vtki"`
	Rk          int     `json:"rk"`
	Nr          int     `json:"nr"`
	NumBlocks   int     `json:"num_blocks"`
	OuterRadius float64 `json:"outer_radius"`
	Noise       float64 `json:"noise"`
	HeatingRate float64 `json:"heating_rate"`
	CoolingRate float64 `json:"cooling_rate"`
	NumThreads  int     `json:"num_threads"`
}

func DefaultConfig() RunConfig {
	return RunConfig{
		Outdir:      "data",
		Tfinal:      1.0,
		Cpi:         0.0,
		Vtki:        0.0,
		Rk:          1,
		Nr:          32,
		NumBlocks:   1,
		OuterRadius: 10.0,
		NumThreads:  runtime.NumCPU(),
	}
}

func (cfg RunConfig) Validate() error {
	if cfg.Nr < 4 {
		return fmt.Errorf("nr must be >= 4, have %d", cfg.Nr)
	}
	if cfg.Rk != 1 && cfg.Rk != 2 {
		return fmt.Errorf("rk must be 1 or 2, have %d", cfg.Rk)
	}
	if cfg.OuterRadius <= 2.0 {
		return fmt.Errorf("outer_radius must be > 2, have %v", cfg.OuterRadius)
	}
	if cfg.NumBlocks < 1 {
		return fmt.Errorf("num_blocks must be >= 1, have %d", cfg.NumBlocks)
	}
	if cfg.Noise < 0 {
		return fmt.Errorf("noise must be >= 0, have %v", cfg.Noise)
	}
	if cfg.NumThreads < 1 {
		return fmt.Errorf("num_threads must be >= 1, have %d", cfg.NumThreads)
	}
	return nil
}

// BlockSize is the radial zone count per block; the angular count is Nr.
func (cfg RunConfig) BlockSize() int {
	targetRadialZoneCount := float64(cfg.Nr) * math.Log10(cfg.OuterRadius)
	return int(targetRadialZoneCount / float64(cfg.NumBlocks))
}

func (cfg RunConfig) MakeFilenameChkpt(count int) string {
	if count == -1 {
		return cfg.Restart
	}
	return filepath.Join(cfg.Outdir, fmt.Sprintf("chkpt.%04d", count))
}

func (cfg RunConfig) MakeFilenameVtk(count int) string {
	return filepath.Join(cfg.Outdir, fmt.Sprintf("%04d.vtk", count))
}

func (cfg RunConfig) MakeFilenameStatus(count int) string {
	return filepath.Join(cfg.MakeFilenameChkpt(count), "status.json")
}

func (cfg RunConfig) MakeFilenameConfig(count int) string {
	return filepath.Join(cfg.MakeFilenameChkpt(count), "config.json")
}

// ParseConfig reads a YAML (or JSON) config document.
func ParseConfig(data []byte) (cfg RunConfig, err error) {
	cfg = DefaultConfig()
	err = yaml.Unmarshal(data, &cfg)
	return
}

// LoadConfig reads a config file, e.g. a checkpoint's config.json on
// restart.
func LoadConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("restart file not found: %s", path)
	}
	return ParseConfig(data)
}

func (cfg RunConfig) ToJSON(w io.Writer) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func printDotted(w io.Writer, name string, value interface{}) {
	fmt.Fprintf(w, "%s %s %v\n", name, dots(24-len(name)), value)
}

func dots(n int) (s string) {
	for i := 0; i < n; i++ {
		s += "."
	}
	return
}

func (cfg RunConfig) Print(w io.Writer) {
	fmt.Fprintf(w, "Config:\n")
	printDotted(w, "outdir", cfg.Outdir)
	printDotted(w, "restart", cfg.Restart)
	printDotted(w, "tfinal", cfg.Tfinal)
	printDotted(w, "cpi", cfg.Cpi)
	printDotted(w, "vtki", cfg.Vtki)
	printDotted(w, "rk", cfg.Rk)
	printDotted(w, "nr", cfg.Nr)
	printDotted(w, "num_blocks", cfg.NumBlocks)
	printDotted(w, "outer_radius", cfg.OuterRadius)
	printDotted(w, "noise", cfg.Noise)
	printDotted(w, "heating_rate", cfg.HeatingRate)
	printDotted(w, "cooling_rate", cfg.CoolingRate)
	printDotted(w, "num_threads", cfg.NumThreads)
	fmt.Fprintf(w, "\n")
}
