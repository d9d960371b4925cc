// Package file is the device-local quota store: one yaml file holding
// admission instants per principal, comparable to a browser's
// localStorage entry. It is private to the device; nothing
// synchronizes it across machines.
package file

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/picket-dev/picket/pkg/domain/quota"
)

type store struct {
	path string
}

func New(path string) quota.Store {
	return &store{path: path}
}

// Load reads the principal's history from the file, oldest first.
//
// A missing file or an unparsable one both yield an empty history:
// the quota ledger is a soft throttle, and a corrupted ledger must
// not lock a device out of uploading forever.
func (s *store) Load(_ context.Context, principal string) ([]time.Time, error) {
	buf, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	ledger := map[string][]time.Time{}
	if err := yaml.Unmarshal(buf, &ledger); err != nil {
		return nil, nil
	}

	stamps := ledger[principal]
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	return stamps, nil
}

// Save replaces the principal's history, keeping other principals'
// entries in place. The file is written with owner-only permission.
func (s *store) Save(ctx context.Context, principal string, stamps []time.Time) error {
	ledger := map[string][]time.Time{}
	if buf, err := os.ReadFile(s.path); err == nil {
		// tolerate unparsable content; see Load.
		yaml.Unmarshal(buf, &ledger)
	} else if !os.IsNotExist(err) {
		return err
	}

	if len(stamps) == 0 {
		delete(ledger, principal)
	} else {
		ledger[principal] = stamps
	}

	buf, err := yaml.Marshal(ledger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), os.FileMode(0700)); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf, os.FileMode(0600)); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
