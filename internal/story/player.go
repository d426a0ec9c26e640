package story

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/marketsnap/pkg/models"
)

// DefaultTickInterval matches the playback cadence of the UI: one progress
// unit every 30ms, so a story runs for roughly three seconds.
const DefaultTickInterval = 30 * time.Millisecond

// progressComplete is the progress value at which playback advances.
const progressComplete = 100

// Source provides the story sequence the player walks through. The sequence
// is owned elsewhere (the feed controller); the player only looks up
// positions in it.
type Source interface {
	Stories() []models.Story
}

// Player drives playback of a single active story: progress advances on a
// fixed cadence, and at the end of a story playback moves to the next one in
// the source sequence, or closes after the last.
type Player struct {
	mu       sync.Mutex
	source   Source
	interval time.Duration

	active   *models.Story
	progress int
	stop     chan struct{}
}

// NewPlayer creates a player over the given story source. A non-positive
// interval falls back to DefaultTickInterval.
func NewPlayer(source Source, interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Player{
		source:   source,
		interval: interval,
	}
}

// Open starts playback of the given story from progress zero. Any schedule
// belonging to a previously open story is cancelled first, so at most one
// ticker exists at a time.
func (p *Player) Open(story models.Story) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openLocked(story)
}

// Advance moves playback to the next story in the sequence, or closes the
// viewer when the active story is the last one. A manual tap on the story is
// exactly this operation.
func (p *Player) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == nil {
		return
	}

	stories := p.source.Stories()
	next := -1
	for i, s := range stories {
		if s.ID == p.active.ID {
			if i+1 < len(stories) {
				next = i + 1
			}
			break
		}
	}

	if next >= 0 {
		p.openLocked(stories[next])
	} else {
		p.closeLocked()
	}
}

// Close stops playback and clears the active story.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

// Active returns the currently displayed story and its progress. The third
// return value is false when no story is open.
func (p *Player) Active() (models.Story, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == nil {
		return models.Story{}, 0, false
	}
	return *p.active, p.progress, true
}

// openLocked replaces the active story and restarts the tick schedule.
// Callers must hold p.mu.
func (p *Player) openLocked(story models.Story) {
	p.cancelLocked()

	s := story
	p.active = &s
	p.progress = 0
	p.stop = make(chan struct{})

	log.Debug().Str("story_id", story.ID).Msg("Story opened")
	go p.run(p.stop)
}

// closeLocked stops the schedule and clears playback state. Callers must
// hold p.mu.
func (p *Player) closeLocked() {
	p.cancelLocked()
	p.active = nil
	p.progress = 0
}

// cancelLocked releases the current tick schedule, if any. Callers must hold
// p.mu.
func (p *Player) cancelLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// run owns the ticker for one schedule. It exits when the schedule is
// cancelled or when the story completes, in which case it advances playback.
func (p *Player) run(stop chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			done, complete := p.step(stop)
			if complete {
				p.Advance()
			}
			if done {
				return
			}
		}
	}
}

// step applies one tick. done means this schedule is finished; complete
// additionally means the story reached full progress and playback should
// advance.
func (p *Player) step(stop chan struct{}) (done, complete bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// The schedule may have been replaced between the tick firing and the
	// lock being acquired.
	if p.stop != stop || p.active == nil {
		return true, false
	}

	p.progress++
	if p.progress >= progressComplete {
		p.progress = progressComplete
		return true, true
	}
	return false, false
}
