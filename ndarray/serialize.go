package ndarray

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// On-disk format: 8-byte magic, three int64 dims, then row-major float64
// payload, all little-endian.
var magic = [8]byte{'s', 'p', 'h', 'n', 'd', '0', '0', '1'}

type header struct {
	Magic      [8]byte
	Ni, Nj, Nk int64
}

func (a Array) WriteTo(w io.Writer) error {
	h := header{
		Magic: magic,
		Ni:    int64(a.shape[0]),
		Nj:    int64(a.shape[1]),
		Nk:    int64(a.shape[2]),
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	c := a.Copy()
	return binary.Write(w, binary.LittleEndian, c.data)
}

func Read(r io.Reader) (Array, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Array{}, err
	}
	if h.Magic != magic {
		return Array{}, fmt.Errorf("ndarray: bad magic %q", h.Magic[:])
	}
	a := New(int(h.Ni), int(h.Nj), int(h.Nk))
	if err := binary.Read(r, binary.LittleEndian, a.data); err != nil {
		return Array{}, err
	}
	return a, nil
}

func ToFile(a Array, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return a.WriteTo(f)
}

func FromFile(path string) (Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return Array{}, err
	}
	defer f.Close()
	return Read(f)
}
