package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed data/catalog.json
var snapshotJSON []byte

// snapshot is parsed once at init and never handed out directly.
var snapshot = mustLoadSnapshot(snapshotJSON)

func mustLoadSnapshot(data []byte) []Entry {
	entries, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded snapshot: %v", err))
	}
	if err := Validate(entries); err != nil {
		panic(fmt.Sprintf("catalog: embedded snapshot failed validation: %v", err))
	}
	for _, e := range entries {
		if e.VerifiedOn != VerifiedOn {
			panic(fmt.Sprintf("catalog: entry %s verified on %s, snapshot is %s", e.ID, e.VerifiedOn, VerifiedOn))
		}
	}
	return entries
}

// Entries returns the embedded catalog in source order: Whack a Hack first,
// then PokeHarbor, each by listing page. The result is a copy; modifying it
// does not affect later calls.
func Entries() []Entry {
	return Clone(snapshot)
}

// Snapshot returns the raw embedded JSON.
func Snapshot() []byte {
	return append([]byte(nil), snapshotJSON...)
}

// Clone deep-copies entries.
func Clone(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}
