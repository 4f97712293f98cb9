package workspace

import (
	"context"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
	"zonetrack/internal/patch"
)

// RecordInput is used for both create and partial update. On create,
// checkInTime, completed and jobs must be present.
type RecordInput struct {
	CheckInTime  patch.Field[string]             `json:"checkInTime"`
	CheckOutTime patch.Field[string]             `json:"checkOutTime"`
	TimeSpent    patch.Field[string]             `json:"timeSpent"`
	Completed    patch.Field[[]string]           `json:"completed"`
	Incomplete   patch.Field[[]string]           `json:"incomplete"`
	Jobs         patch.Field[[]models.JobRecord] `json:"jobs"`
}

func (in RecordInput) validateRefs() error {
	for _, id := range in.Completed.Value {
		if err := checkID("completed step", id); err != nil {
			return err
		}
	}
	for _, id := range in.Incomplete.Value {
		if err := checkID("incomplete step", id); err != nil {
			return err
		}
	}
	for _, j := range in.Jobs.Value {
		if err := checkID("job", j.JobID); err != nil {
			return err
		}
		for _, id := range j.CompletedSteps {
			if err := checkID("completed step", id); err != nil {
				return err
			}
		}
	}
	return nil
}

func recordPathIDs(clientID string, p models.RecordPath) error {
	if err := checkIDs("client", clientID, "location", p.LocationID); err != nil {
		return err
	}
	if p.ZoneID != "" {
		return checkID("zone", p.ZoneID)
	}
	return nil
}

func pathAction(p models.RecordPath, verb string) string {
	if p.ZoneID != "" {
		return "ZONE_RECORD_" + verb
	}
	return "LOCATION_RECORD_" + verb
}

// AddRecord appends a record to the list addressed by p.
func (s *Service) AddRecord(ctx context.Context, clientID string, p models.RecordPath, in RecordInput) (*models.ZoneRecord, error) {
	if err := recordPathIDs(clientID, p); err != nil {
		return nil, err
	}
	if in.CheckInTime.Value == "" || in.Completed.Value == nil || in.Jobs.Value == nil {
		return nil, apperr.Validation("checkInTime, completed, and jobs fields are required")
	}
	if err := in.validateRefs(); err != nil {
		return nil, err
	}
	rec := models.ZoneRecord{
		ID:           models.NewID(),
		CheckInTime:  in.CheckInTime.Value,
		CheckOutTime: in.CheckOutTime.Value,
		TimeSpent:    in.TimeSpent.Value,
		Completed:    in.Completed.Value,
		Incomplete:   in.Incomplete.Or([]string{}),
		Jobs:         in.Jobs.Value,
	}
	c, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		rs, err := c.Records(p)
		if err != nil {
			return err
		}
		*rs = append(*rs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	stored, err := c.Record(p, rec.ID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, pathAction(p, "CREATE"), clientID, "", map[string]any{"location_id": p.LocationID, "zone_id": p.ZoneID, "record_id": rec.ID})
	return stored, nil
}

// UpdateRecord applies the present fields of in to the record, leaving
// absent fields as stored.
func (s *Service) UpdateRecord(ctx context.Context, clientID string, p models.RecordPath, recordID string, in RecordInput) (*models.ZoneRecord, error) {
	if err := recordPathIDs(clientID, p); err != nil {
		return nil, err
	}
	if err := checkID("record", recordID); err != nil {
		return nil, err
	}
	if err := in.validateRefs(); err != nil {
		return nil, err
	}
	c, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		r, err := c.Record(p, recordID)
		if err != nil {
			return err
		}
		in.CheckInTime.Apply(&r.CheckInTime)
		in.CheckOutTime.Apply(&r.CheckOutTime)
		in.TimeSpent.Apply(&r.TimeSpent)
		in.Completed.Apply(&r.Completed)
		in.Incomplete.Apply(&r.Incomplete)
		in.Jobs.Apply(&r.Jobs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r, err := c.Record(p, recordID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, pathAction(p, "UPDATE"), clientID, "", map[string]any{"location_id": p.LocationID, "zone_id": p.ZoneID, "record_id": recordID})
	return r, nil
}

func (s *Service) DeleteRecord(ctx context.Context, clientID string, p models.RecordPath, recordID string) error {
	if err := recordPathIDs(clientID, p); err != nil {
		return err
	}
	if err := checkID("record", recordID); err != nil {
		return err
	}
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		return c.RemoveRecord(p, recordID)
	}); err != nil {
		return err
	}
	s.record(ctx, pathAction(p, "DELETE"), clientID, "", map[string]any{"location_id": p.LocationID, "zone_id": p.ZoneID, "record_id": recordID})
	return nil
}
