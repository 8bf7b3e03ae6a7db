package storage

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/raosahab/catalog-query/pkg/types"
)

const snapshotFile = "catalog.json.gz"

// DiskStorage persists the last fetched catalog so a restarted node can
// serve before the first remote load completes.
type DiskStorage struct {
	RootFolder string
}

func NewDiskStorage(rootFolder string) *DiskStorage {
	return &DiskStorage{RootFolder: rootFolder}
}

func (d *DiskStorage) getFileName(name string) (string, string) {
	fileName := path.Join(d.RootFolder, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

// CatalogSnapshot is the on-disk shape of the cache contents.
type CatalogSnapshot struct {
	Products   []types.Product `json:"products"`
	Categories []string        `json:"categories"`
	FetchedAt  time.Time       `json:"fetchedAt"`
}

// SaveCatalog writes the snapshot to a temp file and renames it into place,
// so a crash mid-write never corrupts the previous snapshot.
func (d *DiskStorage) SaveCatalog(snapshot *CatalogSnapshot) error {
	if err := os.MkdirAll(d.RootFolder, 0o755); err != nil {
		return err
	}
	fileName, tmpFileName := d.getFileName(snapshotFile)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipWriter := gzip.NewWriter(file)
	enc := json.NewEncoder(zipWriter)
	if err = enc.Encode(snapshot); err != nil {
		_ = zipWriter.Close()
		_ = os.Remove(tmpFileName)
		return err
	}
	if err = zipWriter.Close(); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

// LoadCatalog reads the snapshot back. A missing file is not an error, the
// caller simply starts cold.
func (d *DiskStorage) LoadCatalog() (*CatalogSnapshot, error) {
	fileName, _ := d.getFileName(snapshotFile)
	file, err := os.Open(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer zipReader.Close()

	snapshot := &CatalogSnapshot{}
	if err = json.NewDecoder(zipReader).Decode(snapshot); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return snapshot, nil
}
