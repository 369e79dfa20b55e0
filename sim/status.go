package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// RunStatus carries the bookkeeping counters advanced by the main thread.
type RunStatus struct {
	Time       float64 `json:"time"`
	Wall       float64 `json:"wall"`
	Iter       int     `json:"iter"`
	VtkCount   int     `json:"vtk_count"`
	ChkptCount int     `json:"chkpt_count"`
}

// StatusFromFile loads a checkpoint status file; a missing file yields the
// zero status.
func StatusFromFile(path string) (sts RunStatus, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RunStatus{}, nil
		}
		return
	}
	err = json.Unmarshal(data, &sts)
	return
}

func (sts RunStatus) ToJSON(w io.Writer) error {
	data, err := json.MarshalIndent(sts, "", "    ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (sts RunStatus) Print(w io.Writer) {
	fmt.Fprintf(w, "Status:\n")
	printDotted(w, "time", sts.Time)
	printDotted(w, "wall", sts.Wall)
	printDotted(w, "iter", sts.Iter)
	printDotted(w, "vtk_count", sts.VtkCount)
	printDotted(w, "chkpt_count", sts.ChkptCount)
	fmt.Fprintf(w, "\n")
}
