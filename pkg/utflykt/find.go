package utflykt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/tstromberg/utflykt/pkg/geo"
)

var exifDate = "2006:01:02 15:04:05"

var mediaExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
	".heif": true,
	".tif":  true,
	".tiff": true,
	".dng":  true,
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".avi":  true,
	".mts":  true,
	".3gp":  true,
}

func read(path string, et *exiftool.Exiftool) (*Record, error) {
	fis := et.ExtractMetadata(path)
	fi := fis[0]

	if fi.Err != nil {
		return nil, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v", k, v)
	}

	r := &Record{Path: path}

	ds, err := fi.GetString("DateTimeOriginal")
	if err != nil {
		ds, err = fi.GetString("CreateDate")
	}
	if err == nil {
		r.Taken, err = time.Parse(exifDate, ds)
		if err != nil {
			klog.Warningf("unparsable capture time %q for %s: %v", ds, path, err)
		}
	}

	if r.Taken.IsZero() {
		st, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat: %w", err)
		}
		klog.V(1).Infof("no capture tag for %s, using mtime", path)
		r.Taken = st.ModTime()
	}

	lat, latErr := fi.GetFloat("GPSLatitude")
	lon, lonErr := fi.GetFloat("GPSLongitude")
	if latErr == nil && lonErr == nil && !(lat == 0 && lon == 0) {
		r.Coords = &geo.Coord{Lat: lat, Lon: lon}
	}

	return r, nil
}

// Find walks the input directories and returns a record per media file.
// Files whose metadata cannot be read are logged and skipped.
func Find(roots []string) ([]*Record, error) {
	found := []*Record{}

	et, err := exiftool.NewExiftool(exiftool.CoordFormant("%+f"))
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	defer et.Close()

	for _, root := range roots {
		err := godirwalk.Walk(root, &godirwalk.Options{
			Callback: func(path string, de *godirwalk.Dirent) error {
				if filepath.Base(path)[0] == '.' {
					return godirwalk.SkipThis
				}

				if de.IsDir() || !mediaExt[strings.ToLower(filepath.Ext(path))] {
					return nil
				}

				klog.V(1).Infof("found %s", path)
				r, err := read(path, et)
				if err != nil {
					klog.Errorf("read failure: %v", err)
					return nil
				}

				found = append(found, r)
				return nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	klog.Infof("found %d media files in %d directories", len(found), len(roots))
	return found, nil
}
