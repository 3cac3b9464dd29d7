package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nicksmock/workout-calendar/internal/workouts"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	oneHour         = 60 * 60
	slotCacheExpire = oneHour * 6

	loadSessionsLimit = 100
)

// Cache keeps the (week, day) -> session mapping locally so calendar
// tooling can read slots without a round trip per cell. Writes go
// through the API and the returned session refreshes the slot.
type Cache struct {
	client *Client
	cache  *freecache.Cache
}

func NewCache(client *Client) *Cache {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte
	return &Cache{
		client: client,
		cache:  freecache.NewCache(cacheSize),
	}
}

func slotKey(week, day int) []byte {
	return []byte(fmt.Sprintf("week-%d-day-%d", week, day))
}

// Load rebuilds the whole mapping from the API. Later sessions in the
// list are older, so the first session seen per slot wins.
func (c *Cache) Load(ctx context.Context) (int, error) {
	sessions, err := c.client.ListSessions(ctx, loadSessionsLimit)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	c.cache.Clear()
	loaded := 0
	for i := range sessions {
		session := sessions[i]
		key := slotKey(session.WeekNumber, session.DayNumber)
		if _, err := c.cache.Get(key); err == nil {
			continue
		}
		if err := c.set(key, &session); err != nil {
			log.Errorf("cache session %d: %s", session.ID, err)
			continue
		}
		loaded++
	}

	log.Debugf("calendar cache loaded, %d slots", loaded)
	return loaded, nil
}

// Get returns the cached session for a slot, or (nil, nil) on a miss.
func (c *Cache) Get(week, day int) (*workouts.Session, error) {
	sessionBytes, err := c.cache.Get(slotKey(week, day))
	if err != nil {
		if err == freecache.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	var session workouts.Session
	if err := json.Unmarshal(sessionBytes, &session); err != nil {
		return nil, fmt.Errorf("unmarshal cached session: %w", err)
	}
	return &session, nil
}

// Save upserts a slot by its natural key: an update when the slot is
// already cached, otherwise a create with the computed scheduled date.
func (c *Cache) Save(ctx context.Context, week, day int, params workouts.UpdateSessionParams) (*workouts.Session, error) {
	cached, err := c.Get(week, day)
	if err != nil {
		return nil, err
	}

	var session *workouts.Session
	if cached != nil {
		session, err = c.client.UpdateSession(ctx, cached.ID, params)
		if err != nil {
			return nil, fmt.Errorf("update session %d: %w", cached.ID, err)
		}
	} else {
		session, err = c.client.CreateSession(ctx, workouts.CreateSessionParams{
			ScheduledDate: workouts.ScheduledDateFor(time.Now(), week, day),
			WeekNumber:    week,
			DayNumber:     day,
			SleepQuality:  params.SleepQuality,
			EnergyLevel:   params.EnergyLevel,
			Notes:         params.Notes,
		})
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	if err := c.set(slotKey(week, day), session); err != nil {
		log.Errorf("cache session %d after save: %s", session.ID, err)
	}
	return session, nil
}

// Delete removes the slot both remotely and locally. A no-op when the
// slot is not cached.
func (c *Cache) Delete(ctx context.Context, week, day int) error {
	cached, err := c.Get(week, day)
	if err != nil {
		return err
	}
	if cached == nil {
		return nil
	}
	if err := c.client.DeleteSession(ctx, cached.ID); err != nil {
		return fmt.Errorf("delete session %d: %w", cached.ID, err)
	}
	c.cache.Del(slotKey(week, day))
	return nil
}

func (c *Cache) set(key []byte, session *workouts.Session) error {
	sessionBytes, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return c.cache.Set(key, sessionBytes, slotCacheExpire)
}
