package entity

// Corpus is the resolved, validated and ordered set of entries of one build.
type Corpus struct {
	entries []*Entry
}

func NewCorpus(entries []*Entry) *Corpus {
	c := &Corpus{entries: make([]*Entry, len(entries))}
	copy(c.entries, entries)

	return c
}

func (c *Corpus) Len() int {
	return len(c.entries)
}

func (c *Corpus) At(i int) *Entry {
	return c.entries[i]
}

// Entries returns a copy of the ordered entries.
func (c *Corpus) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)

	return out
}

// Linked is an entry with its navigation neighbours attached.
type Linked struct {
	*Entry
	Previous *Entry
	Next     *Entry
}
