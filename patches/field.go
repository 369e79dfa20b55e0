package patches

import (
	"fmt"
	"strconv"
	"strings"
)

// Field enumerates the per-patch arrays held by the database.
type Field uint8

const (
	Conserved Field = iota
	VertCoords
	CellCoords
	CellVolume
	FaceAreaI
	FaceAreaJ
)

// MeshLocation is where a field's values live on the patch.
type MeshLocation uint8

const (
	Cell MeshLocation = iota
	Vert
	FaceI
	FaceJ
)

var FieldNameMap = map[string]Field{
	"conserved":   Conserved,
	"vert_coords": VertCoords,
	"cell_coords": CellCoords,
	"cell_volume": CellVolume,
	"face_area_i": FaceAreaI,
	"face_area_j": FaceAreaJ,
}

func (f Field) String() string {
	for name, ff := range FieldNameMap {
		if ff == f {
			return name
		}
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// Index addresses one patch array: block position in the radial tiling,
// (i, j) position within a logical 2D block grid, and the field. The
// current mesh uses i = j = 0 per block.
type Index struct {
	Block, I, J int
	Field       Field
}

// String renders the on-disk name "block.i.j/field" used by checkpoints.
func (idx Index) String() string {
	return fmt.Sprintf("%d.%d.%d/%s", idx.Block, idx.I, idx.J, idx.Field)
}

// DirName is the patch subdirectory name, without the field part.
func (idx Index) DirName() string {
	return fmt.Sprintf("%d.%d.%d", idx.Block, idx.I, idx.J)
}

// ParseIndex inverts Index.String.
func ParseIndex(s string) (idx Index, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return idx, fmt.Errorf("patches: malformed index %q", s)
	}
	nums := strings.Split(parts[0], ".")
	if len(nums) != 3 {
		return idx, fmt.Errorf("patches: malformed patch name %q", parts[0])
	}
	if idx.Block, err = strconv.Atoi(nums[0]); err != nil {
		return
	}
	if idx.I, err = strconv.Atoi(nums[1]); err != nil {
		return
	}
	if idx.J, err = strconv.Atoi(nums[2]); err != nil {
		return
	}
	field, ok := FieldNameMap[parts[1]]
	if !ok {
		return idx, fmt.Errorf("patches: unknown field %q", parts[1])
	}
	idx.Field = field
	return
}
