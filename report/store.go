// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
)

// EnvReportKey holds the passphrase protecting the report archive's master
// key.
const EnvReportKey = "REPORT_KEY"

const latestName = "latest.json"

// Store archives reports under runs/<scenario>/<id>.json and keeps a copy of
// each scenario's most recent report in latest.json.
type Store struct {
	dir     string
	storage *storage.Storage
	mu      sync.Mutex
}

// NewStore wraps an opened storage rooted at dir.
func NewStore(dir string, s *storage.Storage) *Store {
	return &Store{dir: dir, storage: s}
}

// OpenStore opens the archive in dir. A non-empty passphrase enables
// encryption, creating the master key on first use. Without a passphrase an
// existing master key is an error, so an encrypted archive is never mixed
// with plaintext reports.
func OpenStore(dir, passphrase string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	keyFile := filepath.Join(dir, "master.key")

	var masterKey crypto.MasterKey
	if passphrase != "" {
		var err error
		masterKey, err = crypto.ReadMasterKey([]byte(passphrase), keyFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read master key: %w", err)
			}
			log.Println("Initializing new report encryption key...")
			if masterKey, err = crypto.CreateMasterKey(); err != nil {
				return nil, fmt.Errorf("failed to create master key: %w", err)
			}
			if err := masterKey.Save([]byte(passphrase), keyFile); err != nil {
				return nil, fmt.Errorf("failed to save master key: %w", err)
			}
		}
	} else if _, err := os.Stat(keyFile); err == nil {
		return nil, fmt.Errorf("%s exists but %s is not set", keyFile, EnvReportKey)
	}

	s := storage.New(dir, masterKey)
	s.EnableCompression(true)
	return NewStore(dir, s), nil
}

func scenarioDir(scenario string) string {
	return filepath.Join("runs", url.PathEscape(scenario))
}

// Save archives r and makes it the scenario's latest report.
func (s *Store) Save(r *Report) error {
	if r.ID == "" || r.Scenario == "" {
		return errors.New("report needs an id and a scenario")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := scenarioDir(r.Scenario)
	if err := s.storage.SaveDataFile(filepath.Join(dir, r.ID+".json"), r); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	if err := s.storage.SaveDataFile(filepath.Join(dir, latestName), r); err != nil {
		return fmt.Errorf("storage.SaveDataFile (latest): %w", err)
	}
	return nil
}

// Load returns the report with the given run id.
func (s *Store) Load(scenario, id string) (*Report, error) {
	return s.read(filepath.Join(scenarioDir(scenario), id+".json"))
}

// Latest returns the scenario's most recent report, or os.ErrNotExist.
func (s *Store) Latest(scenario string) (*Report, error) {
	return s.read(filepath.Join(scenarioDir(scenario), latestName))
}

func (s *Store) read(name string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var r Report
	if err := s.storage.ReadDataFile(name, &r); err != nil {
		if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	return &r, nil
}

// List returns the run ids archived for scenario, sorted.
func (s *Store) List(scenario string) ([]string, error) {
	files, err := os.ReadDir(filepath.Join(s.dir, scenarioDir(scenario)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || name == latestName || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	slices.Sort(ids)
	return ids, nil
}

// Scenarios returns the names of the scenarios with archived runs, sorted.
func (s *Store) Scenarios() ([]string, error) {
	files, err := os.ReadDir(filepath.Join(s.dir, "runs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, f := range files {
		if !f.IsDir() {
			continue
		}
		name, err := url.PathUnescape(f.Name())
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
