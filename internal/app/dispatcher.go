package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []Subscriber
	// Stale is set when a newer version of the room was already published.
	Stale bool
}

type roomCursor struct {
	mu   sync.Mutex
	last uint64
}

// Dispatcher fans room snapshots out to subscribers without blocking.
// Per room, snapshots go out in version order; older ones are skipped.
type Dispatcher struct {
	Sessions *Sessions
	Policy   Policy

	mu      sync.Mutex
	cursors map[domain.RoomID]*roomCursor
}

func NewDispatcher(sessions *Sessions, policy Policy) *Dispatcher {
	return &Dispatcher{
		Sessions: sessions,
		Policy:   policy,
		cursors:  make(map[domain.RoomID]*roomCursor),
	}
}

// cursor returns the room's cursor. With create unset a missing cursor
// stays missing, so rooms nobody follows leave no entry behind.
func (d *Dispatcher) cursor(id domain.RoomID, create bool) *roomCursor {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.cursors[id]
	if !ok && create {
		c = &roomCursor{}
		d.cursors[id] = c
	}
	return c
}

func (d *Dispatcher) forget(id domain.RoomID, c *roomCursor) {
	d.mu.Lock()
	if d.cursors[id] == c {
		delete(d.cursors, id)
	}
	d.mu.Unlock()
}

// Publish sends a room-update to every subscriber of the room.
func (d *Dispatcher) Publish(room *domain.Room) PublishResult {
	frame, err := EncodeRoomUpdate(room)
	if err != nil {
		log.Error().Err(err).Str("module", "app.dispatcher").Str("room", string(room.ID)).Msg("encode room update")
		return PublishResult{}
	}

	c := d.cursor(room.ID, len(d.Sessions.SubscribersOf(room.ID)) > 0)
	if c == nil {
		// closed or unwatched; a later subscriber reads a fresh snapshot
		return PublishResult{}
	}
	c.mu.Lock()
	if room.Version <= c.last {
		c.mu.Unlock()
		log.Debug().Str("module", "app.dispatcher").Str("room", string(room.ID)).Uint64("version", room.Version).Msg("stale snapshot skipped")
		return PublishResult{Stale: true}
	}
	c.last = room.Version
	subs := d.Sessions.SubscribersOf(room.ID)
	res := d.fanOut(room.ID, subs, frame)
	if len(subs) == 0 {
		d.forget(room.ID, c)
	}
	c.mu.Unlock()

	d.handleDropped(room.ID, res.Dropped)
	log.Debug().Str("module", "app.dispatcher").Str("room", string(room.ID)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// SendTo delivers a snapshot to a single connection that is already
// subscribed. A snapshot older than the last broadcast is dropped: the
// connection received that broadcast.
func (d *Dispatcher) SendTo(conn core.SignalConnection, room *domain.Room) error {
	frame, err := EncodeRoomUpdate(room)
	if err != nil {
		return err
	}
	if c := d.cursor(room.ID, false); c != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if room.Version < c.last {
			return nil
		}
	}
	return conn.TrySend(frame)
}

// Close tells subscribers the room is gone and forgets its cursor.
// Subscribers are returned detached from the room.
func (d *Dispatcher) Close(id domain.RoomID) []Subscriber {
	subs := d.Sessions.DropRoom(id)
	frame, err := EncodeRoomClosed(id)
	if err == nil {
		res := d.fanOut(id, subs, frame)
		d.handleDropped(id, res.Dropped)
	}
	d.mu.Lock()
	delete(d.cursors, id)
	d.mu.Unlock()
	return subs
}

func (d *Dispatcher) fanOut(id domain.RoomID, subs []Subscriber, frame core.Frame) PublishResult {
	res := PublishResult{}
	for _, sub := range subs {
		if sub.Conn == nil {
			continue
		}
		if err := sub.Conn.TrySend(frame); err != nil {
			log.Warn().Err(err).Str("module", "app.dispatcher").Str("room", string(id)).Str("sid", string(sub.SID)).Msg("delivery failed")
			res.Dropped = append(res.Dropped, sub)
			continue
		}
		res.SentTo++
	}
	return res
}

func (d *Dispatcher) handleDropped(id domain.RoomID, dropped []Subscriber) {
	if d.Policy == nil {
		return
	}
	for _, slow := range dropped {
		switch d.Policy.OnBackPressure(id, slow) {
		case KickMember:
			d.Sessions.Cancel(slow.SID)
		case MarkSlow, DropFrame, NoAction:
		}
	}
}
