// Package cache persists the connection parameters negotiated with each
// peer, so tooling and future create attempts can see what worked last.
package cache

import (
	"io/ioutil"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/rigado/blell"
)

type peerCache struct {
	filename string
	lock     sync.RWMutex
}

// New returns a file-backed blell.PeerCache. The file is created on the
// first Store.
func New(filename string) blell.PeerCache {
	return &peerCache{filename: filename}
}

func (pc *peerCache) Store(addr string, rec blell.PeerRecord, replace bool) error {
	pc.lock.Lock()
	defer pc.lock.Unlock()

	cache, err := pc.loadExisting()
	if err != nil {
		return err
	}

	if _, ok := cache[addr]; ok && !replace {
		return errors.Errorf("cache already contains parameters for %s", addr)
	}

	cache[addr] = rec
	return pc.storeCache(cache)
}

func (pc *peerCache) Load(addr string) (blell.PeerRecord, error) {
	pc.lock.RLock()
	defer pc.lock.RUnlock()

	cache, err := pc.loadExisting()
	if err != nil {
		return blell.PeerRecord{}, err
	}

	rec, ok := cache[addr]
	if !ok {
		return blell.PeerRecord{}, errors.Errorf("parameters for %s not found in cache", addr)
	}

	return rec, nil
}

func (pc *peerCache) Clear() error {
	pc.lock.Lock()
	defer pc.lock.Unlock()

	err := os.Remove(pc.filename)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "can't clear peer cache")
	}
	return nil
}

func (pc *peerCache) loadExisting() (map[string]blell.PeerRecord, error) {
	_, err := os.Stat(pc.filename)
	if os.IsNotExist(err) {
		return map[string]blell.PeerRecord{}, nil
	}

	in, err := ioutil.ReadFile(pc.filename)
	if err != nil {
		return nil, errors.Wrap(err, "can't read peer cache")
	}

	var cache map[string]blell.PeerRecord
	if err := jsoniter.Unmarshal(in, &cache); err != nil {
		return nil, errors.Wrap(err, "can't decode peer cache")
	}
	return cache, nil
}

func (pc *peerCache) storeCache(cache map[string]blell.PeerRecord) error {
	out, err := jsoniter.Marshal(cache)
	if err != nil {
		return errors.Wrap(err, "can't encode peer cache")
	}
	return errors.Wrap(ioutil.WriteFile(pc.filename, out, 0644), "can't write peer cache")
}
