package models

import (
	"slices"

	"github.com/google/uuid"

	"zonetrack/internal/apperr"
)

// NewID returns a fresh identifier for any entity in the tree.
func NewID() string { return uuid.NewString() }

// ValidID reports whether s is a well-formed identifier.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// lookup returns the index of the only element whose id equals id.
// Zero matches and duplicate matches are both a miss.
func lookup[T any](items []T, id string, idOf func(*T) string) int {
	at := -1
	for i := range items {
		if idOf(&items[i]) != id {
			continue
		}
		if at >= 0 {
			return -1
		}
		at = i
	}
	return at
}

func find[T any](items []T, id string, idOf func(*T) string) (*T, bool) {
	i := lookup(items, id, idOf)
	if i < 0 {
		return nil, false
	}
	return &items[i], true
}

// remove drops the matching element and keeps the order of the rest.
func remove[T any](items []T, id string, idOf func(*T) string) ([]T, bool) {
	i := lookup(items, id, idOf)
	if i < 0 {
		return items, false
	}
	return slices.Delete(items, i, i+1), true
}

func locationID(l *Location) string { return l.ID }
func zoneID(z *Zone) string         { return z.ID }
func recordID(r *ZoneRecord) string { return r.ID }
func userID(u *User) string         { return u.ID }
func jobID(j *Job) string           { return j.ID }
func itemID(i *Item) string         { return i.ID }

func (c *Client) Location(id string) (*Location, error) {
	l, ok := find(c.Locations, id, locationID)
	if !ok {
		return nil, apperr.NotFound("location %s not found", id)
	}
	return l, nil
}

func (c *Client) RemoveLocation(id string) error {
	var ok bool
	if c.Locations, ok = remove(c.Locations, id, locationID); !ok {
		return apperr.NotFound("location %s not found", id)
	}
	return nil
}

func (l *Location) Zone(id string) (*Zone, error) {
	z, ok := find(l.Zones, id, zoneID)
	if !ok {
		return nil, apperr.NotFound("zone %s not found", id)
	}
	return z, nil
}

func (l *Location) RemoveZone(id string) error {
	var ok bool
	if l.Zones, ok = remove(l.Zones, id, zoneID); !ok {
		return apperr.NotFound("zone %s not found", id)
	}
	return nil
}

// Zone resolves a zone through its location in one pass.
func (c *Client) Zone(locationID, zoneID string) (*Zone, error) {
	l, err := c.Location(locationID)
	if err != nil {
		return nil, err
	}
	return l.Zone(zoneID)
}

// RecordPath addresses a record list. An empty ZoneID means the list kept
// directly on the location; otherwise the list on that zone.
type RecordPath struct {
	LocationID string
	ZoneID     string
}

func (c *Client) Records(p RecordPath) (*[]ZoneRecord, error) {
	l, err := c.Location(p.LocationID)
	if err != nil {
		return nil, err
	}
	if p.ZoneID == "" {
		return &l.Records, nil
	}
	z, err := l.Zone(p.ZoneID)
	if err != nil {
		return nil, err
	}
	return &z.Records, nil
}

func (c *Client) Record(p RecordPath, id string) (*ZoneRecord, error) {
	rs, err := c.Records(p)
	if err != nil {
		return nil, err
	}
	r, ok := find(*rs, id, recordID)
	if !ok {
		return nil, apperr.NotFound("record %s not found", id)
	}
	return r, nil
}

func (c *Client) RemoveRecord(p RecordPath, id string) error {
	rs, err := c.Records(p)
	if err != nil {
		return err
	}
	var ok bool
	if *rs, ok = remove(*rs, id, recordID); !ok {
		return apperr.NotFound("record %s not found", id)
	}
	return nil
}

func (c *Client) User(id string) (*User, error) {
	u, ok := find(c.Users, id, userID)
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return u, nil
}

func (c *Client) RemoveUser(id string) error {
	var ok bool
	if c.Users, ok = remove(c.Users, id, userID); !ok {
		return apperr.NotFound("user %s not found", id)
	}
	return nil
}

func (c *Client) Job(id string) (*Job, error) {
	j, ok := find(c.Jobs, id, jobID)
	if !ok {
		return nil, apperr.NotFound("job %s not found", id)
	}
	return j, nil
}

func (c *Client) RemoveJob(id string) error {
	var ok bool
	if c.Jobs, ok = remove(c.Jobs, id, jobID); !ok {
		return apperr.NotFound("job %s not found", id)
	}
	return nil
}

func (c *Client) Item(id string) (*Item, error) {
	it, ok := find(c.Items, id, itemID)
	if !ok {
		return nil, apperr.NotFound("item %s not found", id)
	}
	return it, nil
}

func (c *Client) RemoveItem(id string) error {
	var ok bool
	if c.Items, ok = remove(c.Items, id, itemID); !ok {
		return apperr.NotFound("item %s not found", id)
	}
	return nil
}

// Normalize gives every embedded entity without an id a fresh one and turns
// nil lists into empty ones so documents always serialise with [] rather
// than null.
func (c *Client) Normalize() {
	if c.ID == "" {
		c.ID = NewID()
	}
	c.Users = orEmpty(c.Users)
	c.Locations = orEmpty(c.Locations)
	c.Jobs = orEmpty(c.Jobs)
	c.Items = orEmpty(c.Items)
	for i := range c.Users {
		u := &c.Users[i]
		fillID(&u.ID)
		if u.ClientID == "" {
			u.ClientID = c.ID
		}
		u.Jobs = orEmpty(u.Jobs)
	}
	for i := range c.Locations {
		c.Locations[i].normalize()
	}
	for i := range c.Jobs {
		c.Jobs[i].normalize()
	}
	for i := range c.Items {
		fillID(&c.Items[i].ID)
	}
}

func (l *Location) normalize() {
	fillID(&l.ID)
	l.Zones = orEmpty(l.Zones)
	l.Records = normalizeRecords(l.Records)
	for i := range l.Zones {
		z := &l.Zones[i]
		fillID(&z.ID)
		z.Records = normalizeRecords(z.Records)
	}
}

func normalizeRecords(rs []ZoneRecord) []ZoneRecord {
	rs = orEmpty(rs)
	for i := range rs {
		rs[i].normalize()
	}
	return rs
}

func (r *ZoneRecord) normalize() {
	fillID(&r.ID)
	r.Completed = orEmpty(r.Completed)
	r.Incomplete = orEmpty(r.Incomplete)
	r.Jobs = orEmpty(r.Jobs)
	for i := range r.Jobs {
		r.Jobs[i].CompletedSteps = orEmpty(r.Jobs[i].CompletedSteps)
	}
}

func (j *Job) normalize() {
	fillID(&j.ID)
	j.Steps = orEmpty(j.Steps)
	for i := range j.Steps {
		s := &j.Steps[i]
		fillID(&s.ID)
		s.ItemsToUse = orEmpty(s.ItemsToUse)
	}
	j.Location.Zones = orEmpty(j.Location.Zones)
	j.Location.Records = orEmpty(j.Location.Records)
	j.Zone.Records = orEmpty(j.Zone.Records)
}

func fillID(id *string) {
	if *id == "" {
		*id = NewID()
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// FreshIDs replaces the ids of the location and of every zone and record
// under it. Used when a caller supplies whole subtrees.
func (l *Location) FreshIDs() {
	l.ID = NewID()
	freshRecordIDs(l.Records)
	for i := range l.Zones {
		l.Zones[i].ID = NewID()
		freshRecordIDs(l.Zones[i].Records)
	}
}

func freshRecordIDs(rs []ZoneRecord) {
	for i := range rs {
		rs[i].ID = NewID()
	}
}

// FreshIDs replaces the ids of the job and its steps. The location and zone
// snapshots keep theirs.
func (j *Job) FreshIDs() {
	j.ID = NewID()
	for i := range j.Steps {
		j.Steps[i].ID = NewID()
	}
}
