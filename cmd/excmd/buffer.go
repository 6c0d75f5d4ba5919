package main

import (
	"github.com/dshills/excmd/internal/config"
)

// buffer is the host's line extent. It has no text, only the numbers that
// ranges resolve against, and keeps them consistent as lines are deleted.
type buffer struct {
	first   int
	current int
	last    int
	marks   map[rune]int
}

func newBuffer(lines config.LinesConfig) *buffer {
	return &buffer{
		first:   lines.First,
		current: lines.Current,
		last:    lines.Last,
		marks:   make(map[rune]int),
	}
}

func (b *buffer) First() int   { return b.first }
func (b *buffer) Current() int { return b.current }
func (b *buffer) Last() int    { return b.last }

func (b *buffer) Mark(name rune) (int, bool) {
	line, ok := b.marks[name]
	return line, ok
}

func (b *buffer) setMark(name rune, line int) {
	b.marks[name] = line
}

func (b *buffer) setCurrent(line int) {
	b.current = max(b.first, min(line, b.last))
}

// deleteLines removes begin..end and returns how many lines went away. The
// buffer never becomes empty: deleting everything leaves the first line.
func (b *buffer) deleteLines(begin, end int) int {
	n := end - begin + 1
	if b.last-n < b.first {
		n = b.last - b.first
		if n == 0 {
			return 0
		}
	}

	for name, line := range b.marks {
		switch {
		case line > end:
			b.marks[name] = line - n
		case line >= begin:
			delete(b.marks, name)
		}
	}

	b.last -= n
	b.setCurrent(begin)
	return n
}
