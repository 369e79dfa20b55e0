package sim

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sphflow/sphflow/ndarray"
	"github.com/sphflow/sphflow/patches"
)

// WriteChkpt writes a checkpoint directory: config.json, status.json, and
// one subdirectory per patch index holding one serialized array per field.
func WriteChkpt(db *patches.Database, cfg RunConfig, sts RunStatus, count int) error {
	dirname := cfg.MakeFilenameChkpt(count)
	fmt.Printf("write checkpoint %s\n", dirname)

	if err := os.RemoveAll(dirname); err != nil {
		return err
	}
	if err := os.MkdirAll(dirname, 0755); err != nil {
		return err
	}

	cfgFile, err := os.Create(cfg.MakeFilenameConfig(count))
	if err != nil {
		return err
	}
	defer cfgFile.Close()
	if err := cfg.ToJSON(cfgFile); err != nil {
		return err
	}

	stsFile, err := os.Create(cfg.MakeFilenameStatus(count))
	if err != nil {
		return err
	}
	defer stsFile.Close()
	if err := sts.ToJSON(stsFile); err != nil {
		return err
	}

	for field := range CreateHeader() {
		for _, patch := range db.All(field) {
			patchDir := filepath.Join(dirname, patch.Index.DirName())
			if err := os.MkdirAll(patchDir, 0755); err != nil {
				return err
			}
			path := filepath.Join(patchDir, patch.Index.Field.String())
			if err := ndarray.ToFile(patch.Data, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadPatches walks a checkpoint tree and inserts every patch array into
// an already-shaped database.
func LoadPatches(db *patches.Database, dirname string) error {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		fields, err := os.ReadDir(filepath.Join(dirname, entry.Name()))
		if err != nil {
			return err
		}
		for _, field := range fields {
			idx, err := patches.ParseIndex(entry.Name() + "/" + field.Name())
			if err != nil {
				return err
			}
			data, err := ndarray.FromFile(filepath.Join(dirname, entry.Name(), field.Name()))
			if err != nil {
				return err
			}
			db.Insert(idx, data)
		}
	}
	return nil
}
