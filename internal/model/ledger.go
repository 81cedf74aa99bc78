package model

import "time"

// Ledger records the files produced by the most recent generation run.
// It is the gate's source of truth for what is new and therefore what may
// still be quarantined.
type Ledger struct {
	GeneratedAt  time.Time     `json:"generatedAt"`
	WrittenCount int           `json:"writtenCount"`
	Files        []string      `json:"files"`
	Entries      []LedgerEntry `json:"entries"`
}

// LedgerEntry groups the files that belong to one generated article —
// typically a ko/en locale pair. Entries are atomic: if any file in an
// entry is quarantined the whole entry goes with it.
type LedgerEntry struct {
	TopicID   string    `json:"topicId"`
	SourceID  string    `json:"sourceId"`
	Slug      string    `json:"slug"`
	Files     []string  `json:"files"`
	WrittenAt time.Time `json:"writtenAt"`
}

// RemoveFiles drops every entry containing any of the given files and
// returns the rebuilt ledger. The flat file list and count are recomputed
// from the surviving entries.
func (l Ledger) RemoveFiles(files []string) Ledger {
	doomed := make(map[string]bool, len(files))
	for _, f := range files {
		doomed[f] = true
	}

	out := Ledger{GeneratedAt: l.GeneratedAt}
	for _, entry := range l.Entries {
		hit := false
		for _, f := range entry.Files {
			if doomed[f] {
				hit = true
				break
			}
		}
		if !hit {
			out.Entries = append(out.Entries, entry)
			out.Files = append(out.Files, entry.Files...)
		}
	}
	out.WrittenCount = len(out.Files)
	return out
}

// EntryFor returns the entry containing the given file, if any
func (l Ledger) EntryFor(file string) (LedgerEntry, bool) {
	for _, entry := range l.Entries {
		for _, f := range entry.Files {
			if f == file {
				return entry, true
			}
		}
	}
	return LedgerEntry{}, false
}
