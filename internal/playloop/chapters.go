package playloop

// chapterPTS returns the PTS of chapter index, or NoPTS if index is out
// of range.
func (c *Context) chapterPTS(index int) Timestamp {
	if index < 0 || index >= len(c.Chapters) {
		return NoPTS
	}
	return c.Chapters[index].PTS
}

// CurrentChapter computes the active chapter index (spec.md §4.9):
// max(last_chapter_seek, i-1) where i is the smallest index with
// chapters[i].pts > now; -2 when there are no chapters.
func (c *Context) CurrentChapter(now Timestamp) int {
	if len(c.Chapters) == 0 {
		return -2
	}
	i := len(c.Chapters)
	for idx, ch := range c.Chapters {
		if less, ok := now.Less(ch.PTS); ok && less {
			i = idx
			break
		}
	}
	current := i - 1
	if c.LastChapterSeek > current {
		current = c.LastChapterSeek
	}
	return current
}

// UpdateChapter re-evaluates CurrentChapter and emits ChapterChange iff
// the value changed (spec.md §4.9, §8 invariant 6).
func (c *Context) UpdateChapter(now Timestamp) {
	current := c.CurrentChapter(now)
	if current != c.LastChapter {
		c.LastChapter = current
		c.emit(Event{Kind: EventChapterChange, ChapterIndex: current})
	}
}
