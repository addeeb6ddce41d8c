package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/persist"
	"github.com/roach88/shopfront/internal/session"
)

// LoadReport describes what Load did besides building the snapshot.
type LoadReport struct {
	// Discarded is set when a stored value failed to parse and every
	// persisted key was cleared.
	Discarded bool
	// Reason is the parse failure behind Discarded, or a storage read error.
	Reason error
	// SessionDropped is set when the stored token was expired, or only one
	// of user and token was stored, and both were erased.
	SessionDropped bool
}

// errCorrupt marks values that fail validation after decoding.
var errCorrupt = errors.New("corrupt persisted value")

// Load builds the starting snapshot from p. Values that are absent fall back
// to defaults. If any stored value fails to parse, all keys are cleared and
// the default snapshot is returned; a partially reconstructed snapshot is
// never produced. Storage read errors yield defaults without clearing.
func Load(p persist.Port, maxPrice float64, now time.Time) (Snapshot, LoadReport) {
	snap := Initial(maxPrice)
	var report LoadReport

	raw := make(map[string]string, len(persist.Keys))
	for _, k := range persist.Keys {
		v, ok, err := p.Get(k)
		if err != nil {
			report.Reason = fmt.Errorf("read %s: %w", k, err)
			return snap, report
		}
		if ok {
			raw[k] = v
		}
	}

	loaded, err := decode(raw, snap)
	if err != nil {
		_ = persist.Clear(p, persist.Keys...)
		report.Discarded = true
		report.Reason = err
		return snap, report
	}

	switch {
	case loaded.Token != "" && !session.Inspect(loaded.Token, now).Usable():
		loaded.User, loaded.Token = nil, ""
		report.SessionDropped = true
	case loaded.Token == "" && loaded.User != nil:
		loaded.User = nil
		report.SessionDropped = true
	case loaded.Token != "" && loaded.User == nil:
		loaded.Token = ""
		report.SessionDropped = true
	}
	if report.SessionDropped {
		_ = persist.Clear(p, persist.KeyToken, persist.KeyUser)
	}

	return loaded, report
}

func decode(raw map[string]string, snap Snapshot) (Snapshot, error) {
	if v, ok := raw[persist.KeyView]; ok && v != "" {
		snap.View = View(v)
	}

	if v, ok := raw[persist.KeyProductID]; ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return snap, fmt.Errorf("%s: %w", persist.KeyProductID, err)
		}
		if id < 0 {
			return snap, fmt.Errorf("%s: %w: negative id %d", persist.KeyProductID, errCorrupt, id)
		}
		snap.ProductID = id
	}

	if v, ok := raw[persist.KeyCart]; ok {
		var cart []catalog.CartLine
		if err := json.Unmarshal([]byte(v), &cart); err != nil {
			return snap, fmt.Errorf("%s: %w", persist.KeyCart, err)
		}
		for _, l := range cart {
			if l.Quantity < 1 {
				return snap, fmt.Errorf("%s: %w: product %d has quantity %d", persist.KeyCart, errCorrupt, l.ProductID, l.Quantity)
			}
		}
		if cart == nil {
			cart = []catalog.CartLine{}
		}
		snap.Cart = cart
	}

	if v, ok := raw[persist.KeyUser]; ok {
		var u *catalog.User
		if err := json.Unmarshal([]byte(v), &u); err != nil {
			return snap, fmt.Errorf("%s: %w", persist.KeyUser, err)
		}
		snap.User = u
	}

	snap.Token = raw[persist.KeyToken]
	return snap, nil
}
