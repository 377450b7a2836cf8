// Package history keeps a short record of past discovery runs.
package history

import (
	"time"

	"github.com/chanscout/chanscout/filesystem"
	"github.com/chanscout/chanscout/where"
	"github.com/metafates/gache"
)

// MaxRecords is the number of runs kept; older ones are dropped first.
const MaxRecords = 50

// Record summarizes one run.
type Record struct {
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Catalog   string    `json:"catalog"`
	Attempted int       `json:"attempted"`
	Resolved  int       `json:"resolved"`
	Template  string    `json:"template,omitempty"`
	Output    string    `json:"output,omitempty"`
	Published bool      `json:"published"`
	Canceled  bool      `json:"canceled"`
	Error     string    `json:"error,omitempty"`
}

// Duration of the run.
func (r Record) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// cacher provides a disk-backed list of run records.
var cacher = gache.New[[]Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the recorded runs, oldest first.
func Get() ([]Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []Record{}, nil
	}
	return cached, nil
}

// Save appends a run, dropping the oldest records beyond MaxRecords.
func Save(record Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	saved = append(saved, record)
	if len(saved) > MaxRecords {
		saved = saved[len(saved)-MaxRecords:]
	}

	return cacher.Set(saved)
}

// Clear removes every record.
func Clear() error {
	return cacher.Set([]Record{})
}
