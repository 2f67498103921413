package sequence

import (
	"github.com/llehouerou/setlist/internal/collection"
	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/shuffle"
)

// Next selects the song after the current one. Queued songs come first. A
// transition with Changed false means playback stays where it is.
func (e *Engine) Next() (Transition, error) {
	if t, ok := e.nextQueued(); ok {
		return t, nil
	}
	if e.pos.Repeat == RepeatSong && !e.peek {
		return e.restart(), nil
	}
	switch e.ctx.Kind {
	case KindCollection:
		return e.nextInCollection()
	case KindPlaylist:
		return e.nextInPlaylist()
	default:
		return e.nextInLibrary(), nil
	}
}

// Previous selects the song before the current one. While a queued song
// plays, it returns to the song the context was at.
func (e *Engine) Previous() (Transition, error) {
	if e.pos.Repeat == RepeatSong {
		return e.restart(), nil
	}
	if e.anchored {
		if _, ok := e.songAt(e.anchor); ok {
			return e.advanceTo(e.anchor), nil
		}
		e.anchored = false
	}
	switch e.ctx.Kind {
	case KindCollection:
		return e.previousInCollection()
	case KindPlaylist:
		return e.previousInPlaylist()
	default:
		return e.previousInLibrary(), nil
	}
}

func (e *Engine) nextQueued() (Transition, bool) {
	for !e.queue.IsEmpty() {
		s, _ := e.queue.Pop()
		i, _ := library.FindIndex(s, e.songs())
		if i < 0 {
			e.logMiss("next queued", s)
			continue
		}
		if !e.anchored {
			e.anchor = e.pos.CurrentIndex
			e.anchored = true
		}
		return e.moveTo(i), true
	}
	return Transition{}, false
}

func (e *Engine) nextInLibrary() Transition {
	n := len(e.songs())
	if n == 0 {
		return e.stay()
	}
	cur := e.contextIndex()
	if e.pos.Shuffle {
		i, ok := e.shuffledStep(n, cur, 1)
		if !ok {
			return e.stay()
		}
		return e.advanceTo(i)
	}
	next := cur + 1
	if next >= n {
		if e.pos.Repeat != RepeatPlaylist {
			return e.stay()
		}
		next = 0
	}
	return e.advanceTo(next)
}

func (e *Engine) previousInLibrary() Transition {
	n := len(e.songs())
	if n == 0 {
		return e.stay()
	}
	cur := e.contextIndex()
	if e.pos.Shuffle {
		i, ok := e.shuffledStep(n, cur, -1)
		if !ok {
			return e.stay()
		}
		return e.advanceTo(i)
	}
	if cur <= 0 {
		return e.stay()
	}
	return e.advanceTo(min(cur, n) - 1)
}

// shuffledStep walks the permutation one step from cur in direction dir.
// Past the end it wraps to the first entry only under playlist repeat. A
// permutation that no longer fits the domain is regenerated around cur.
func (e *Engine) shuffledStep(n, cur, dir int) (int, bool) {
	order := e.pos.ShuffledIndices
	p := -1
	if len(order) == n {
		p = shuffle.Position(order, cur)
	}
	if len(order) != n || (p < 0 && cur >= 0 && cur < n) {
		if e.peek {
			return 0, false
		}
		order = shuffle.Generate(n, cur, e.rng)
		e.pos.ShuffledIndices = order
		p = shuffle.Position(order, cur)
		e.logger.Debug("shuffle order regenerated", "size", n, "current", cur)
	}

	next := p + dir
	if next < 0 {
		return 0, false
	}
	if next >= len(order) {
		if dir > 0 && e.pos.Repeat == RepeatPlaylist && len(order) > 0 {
			return order[0], true
		}
		return 0, false
	}
	return order[next], true
}

func (e *Engine) playlistPosition() (library.Playlist, int, error) {
	p := e.ctx.Playlist
	cur, ok := e.contextSong()
	if !ok {
		return p, -1, ErrIdentityMiss
	}
	pos := p.Position(cur)
	if pos < 0 {
		e.logMiss("locate in playlist", cur)
		return p, -1, ErrIdentityMiss
	}
	return p, pos, nil
}

func (e *Engine) nextInPlaylist() (Transition, error) {
	p, pos, err := e.playlistPosition()
	if err != nil {
		return e.stay(), err
	}

	var target int
	if e.pos.Shuffle {
		t, ok := e.shuffledStep(p.Len(), pos, 1)
		if !ok {
			return e.stay(), nil
		}
		target = t
	} else {
		target = pos + 1
		if target >= p.Len() {
			if e.pos.Repeat != RepeatPlaylist {
				return e.stay(), nil
			}
			target = 0
		}
	}
	return e.advanceToBase("next in playlist", p.Songs[target])
}

func (e *Engine) previousInPlaylist() (Transition, error) {
	p, pos, err := e.playlistPosition()
	if err != nil {
		return e.stay(), err
	}

	if e.pos.Shuffle {
		t, ok := e.shuffledStep(p.Len(), pos, -1)
		if !ok {
			return e.stay(), nil
		}
		return e.advanceToBase("previous in playlist", p.Songs[t])
	}
	if pos > 0 {
		return e.advanceToBase("previous in playlist", p.Songs[pos-1])
	}
	if e.pos.Repeat != RepeatPlaylist {
		return e.stay(), nil
	}

	// Wrapping backwards matches the last song on its full id.
	last := p.Songs[p.Len()-1]
	i := library.IndexByFullID(last.ID, e.songs())
	if i < 0 {
		return e.miss("previous in playlist", last)
	}
	return e.advanceTo(i), nil
}

func (e *Engine) advanceToBase(op string, s library.Song) (Transition, error) {
	i := library.IndexByBase(s.ID.Base, e.songs())
	if i < 0 {
		return e.miss(op, s)
	}
	return e.advanceTo(i), nil
}

// sectionPosition returns the position of the context song within the
// current section, or -1.
func (e *Engine) sectionPosition() (library.Collection, int, []library.Song, int) {
	c := e.ctx.Collection
	si := e.ctx.Section
	if si < 0 || si >= len(c.Sections) {
		return c, si, nil, -1
	}
	sec := c.Sections[si].Songs()
	cur, ok := e.contextSong()
	if !ok {
		return c, si, sec, -1
	}
	return c, si, sec, library.IndexByBase(cur.ID.Base, sec)
}

func (e *Engine) advanceInCollection(section, i int) Transition {
	e.ctx.Section = section
	return e.advanceTo(i)
}

func (e *Engine) nextInCollection() (Transition, error) {
	songs := e.songs()
	c, si, sec, p := e.sectionPosition()

	if p >= 0 && p+1 < len(sec) {
		if i := library.IndexByBase(sec[p+1].ID.Base, songs); i >= 0 {
			return e.advanceInCollection(si, i), nil
		}
		e.logMiss("next in section", sec[p+1])
	}

	for ns := collection.NextPlayable(c, si); ns >= 0; ns = collection.NextPlayable(c, ns) {
		first := c.Sections[ns].Songs()[0]
		if i := library.IndexByBase(first.ID.Base, songs); i >= 0 {
			return e.advanceInCollection(ns, i), nil
		}
		e.logMiss("next section", first)
	}

	if e.pos.Repeat == RepeatPlaylist && !e.peek {
		e.logger.Debug("collection finished, replaying", "collection", c.Name)
		return e.startCollection(e.ctx.source)
	}
	return e.stay(), nil
}

func (e *Engine) previousInCollection() (Transition, error) {
	songs := e.songs()
	c, si, sec, p := e.sectionPosition()

	if p > 0 {
		return e.advanceToBaseInSection(si, sec[p-1], songs)
	}

	for ps := collection.PrevPlayable(c, si); ps >= 0; ps = collection.PrevPlayable(c, ps) {
		prev := c.Sections[ps].Songs()
		last := prev[len(prev)-1]
		if i := library.IndexByBase(last.ID.Base, songs); i >= 0 {
			return e.advanceInCollection(ps, i), nil
		}
		e.logMiss("previous section", last)
	}
	return e.stay(), nil
}

func (e *Engine) advanceToBaseInSection(section int, s library.Song, songs []library.Song) (Transition, error) {
	i := library.IndexByBase(s.ID.Base, songs)
	if i < 0 {
		return e.miss("previous in section", s)
	}
	return e.advanceInCollection(section, i), nil
}
