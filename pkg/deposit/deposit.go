// Package deposit places organized media files into album directories,
// skipping byte-identical duplicates, numbering name collisions, and
// falling back from hard to soft links when the filesystem refuses.
package deposit

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Mode selects how a file travels to its destination.
type Mode string

const (
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"
	ModeLink Mode = "link"
)

// ParseMode validates a transfer mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCopy, ModeMove, ModeLink:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown transfer mode %q (want copy, move, or link)", s)
}

// Request asks for one file to be placed into an album directory relative
// to the destination root.
type Request struct {
	Source string
	Album  string
	Taken  time.Time
}

// Stats aggregates placement outcomes across a run.
type Stats struct {
	Placed     int64
	Duplicates int64
	Failures   int64
	SoftLinks  int64
}

// Options configures a Depositor.
type Options struct {
	Mode      Mode
	Algorithm Algorithm
	Simulate  bool
}

// Depositor places files under a destination root. It owns its directory
// lock registry and album time map, so its state lives exactly as long as
// one run.
type Depositor struct {
	root     string
	mode     Mode
	algo     Algorithm
	simulate bool

	locks *dirLocks
	times *albumTimes

	placed     atomic.Int64
	duplicates atomic.Int64
	failures   atomic.Int64
	softLinks  atomic.Int64
}

// New creates a Depositor for the given destination root.
func New(root string, o Options) *Depositor {
	if o.Mode == "" {
		o.Mode = ModeCopy
	}
	if o.Algorithm == "" {
		o.Algorithm = Fast
	}
	return &Depositor{
		root:     root,
		mode:     o.Mode,
		algo:     o.Algorithm,
		simulate: o.Simulate,
		locks:    newDirLocks(),
		times:    newAlbumTimes(),
	}
}

// Prepare creates every album directory up front. A failure here is fatal
// for the run and happens before any file is touched.
func (d *Depositor) Prepare(reqs []Request) error {
	if d.simulate {
		return nil
	}

	seen := map[string]bool{}
	for _, req := range reqs {
		dir := filepath.Join(d.root, req.Album)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return nil
}

// Run places every request across a bounded worker pool and returns the
// aggregate outcome. Per-request failures are logged and counted; they
// never stop the other requests.
func (d *Depositor) Run(reqs []Request, workers int) Stats {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan Request)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range jobs {
				if err := d.place(req); err != nil {
					klog.Errorf("place %s: %v", req.Source, err)
					d.failures.Add(1)
				}
			}
		}()
	}

	for _, req := range reqs {
		jobs <- req
	}
	close(jobs)
	wg.Wait()

	return d.Stats()
}

func (d *Depositor) place(req Request) error {
	dir := filepath.Join(d.root, req.Album)
	d.times.merge(dir, req.Taken)

	// One lock per destination directory: uniqueness probing and hashing
	// for an album are serialized, unrelated albums never contend.
	mu := d.locks.get(dir)
	mu.Lock()
	defer mu.Unlock()

	dest, dup, err := d.claim(req.Source, dir)
	if err != nil {
		return err
	}
	if dup {
		klog.V(1).Infof("duplicate: %s already present at %s", req.Source, dest)
		d.duplicates.Add(1)
		return nil
	}

	if d.simulate {
		klog.Infof("would place %s -> %s", req.Source, dest)
		d.placed.Add(1)
		return nil
	}

	if err := d.transfer(req.Source, dest); err != nil {
		return fmt.Errorf("transfer to %s: %w", dest, err)
	}

	klog.V(1).Infof("placed %s -> %s", req.Source, dest)
	d.placed.Add(1)
	return nil
}

// claim walks the numbered candidates for src's basename until it finds a
// free path or an existing identical copy.
func (d *Depositor) claim(src, dir string) (dest string, dup bool, err error) {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 0; ; n++ {
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		dest := filepath.Join(dir, name)

		if _, err := os.Stat(dest); err != nil {
			if os.IsNotExist(err) {
				return dest, false, nil
			}
			return "", false, fmt.Errorf("stat %s: %w", dest, err)
		}

		same, err := d.sameContent(src, dest)
		if err != nil {
			return "", false, err
		}
		if same {
			return dest, true, nil
		}
	}
}

func (d *Depositor) transfer(src, dest string) error {
	switch d.mode {
	case ModeCopy:
		return copy.Copy(src, dest)
	case ModeMove:
		if err := os.Rename(src, dest); err == nil {
			return nil
		}
		// Renames fail across devices; copy and remove instead.
		if err := copy.Copy(src, dest); err != nil {
			return err
		}
		return os.Remove(src)
	case ModeLink:
		if err := os.Link(src, dest); err == nil {
			return nil
		}
		abs, err := filepath.Abs(src)
		if err != nil {
			return err
		}
		if err := os.Symlink(abs, dest); err != nil {
			return fmt.Errorf("symlink: %w", err)
		}
		d.softLinks.Add(1)
		return nil
	}
	return fmt.Errorf("unknown transfer mode %q", d.mode)
}

// StampTimes sets each album directory's timestamps to the earliest
// capture time among its files. Errors are logged only: the files are
// already safely in place.
func (d *Depositor) StampTimes() {
	if d.simulate {
		return
	}
	for dir, t := range d.times.snapshot() {
		if err := os.Chtimes(dir, t, t); err != nil {
			klog.Warningf("stamp %s: %v", dir, err)
		}
	}
}

// Stats returns the counters accumulated so far.
func (d *Depositor) Stats() Stats {
	return Stats{
		Placed:     d.placed.Load(),
		Duplicates: d.duplicates.Load(),
		Failures:   d.failures.Load(),
		SoftLinks:  d.softLinks.Load(),
	}
}
