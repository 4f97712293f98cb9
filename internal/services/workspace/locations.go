package workspace

import (
	"context"
	"strings"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
	"zonetrack/internal/patch"
)

// LocationInput serves create and update. An update without qrCodeEnabled
// keeps the stored flag and QR payload.
type LocationInput struct {
	Name          string            `json:"name"`
	QRCodeEnabled patch.Field[bool] `json:"qrCodeEnabled"`
}

type ZoneInput struct {
	Name string `json:"name"`
}

func (s *Service) AddLocation(ctx context.Context, clientID string, in LocationInput) (*models.Location, error) {
	if err := checkID("client", clientID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("location name is required")
	}
	loc := models.Location{
		ID:            models.NewID(),
		Name:          name,
		QRCodeEnabled: in.QRCodeEnabled.Value,
		Zones:         []models.Zone{},
		Records:       []models.ZoneRecord{},
	}
	if loc.QRCodeEnabled {
		url, err := s.qr.DataURL(loc.ID)
		if err != nil {
			return nil, err
		}
		loc.QRCodeURL = url
	}
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		c.Locations = append(c.Locations, loc)
		return nil
	}); err != nil {
		return nil, err
	}
	s.record(ctx, "LOCATION_CREATE", clientID, "", map[string]any{"location_id": loc.ID})
	return &loc, nil
}

// UpdateLocation sets the name and, when present, the QR flag, regenerating
// or clearing the QR payload. Zones and records are kept.
func (s *Service) UpdateLocation(ctx context.Context, clientID, locationID string, in LocationInput) (*models.Location, error) {
	if err := checkIDs("client", clientID, "location", locationID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("location name is required")
	}
	url := ""
	if in.QRCodeEnabled.Value {
		var err error
		if url, err = s.qr.DataURL(locationID); err != nil {
			return nil, err
		}
	}
	var out models.Location
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		l, err := c.Location(locationID)
		if err != nil {
			return err
		}
		l.Name = name
		if in.QRCodeEnabled.Set {
			l.QRCodeEnabled = in.QRCodeEnabled.Value
			l.QRCodeURL = url
		}
		out = *l
		return nil
	}); err != nil {
		return nil, err
	}
	s.record(ctx, "LOCATION_UPDATE", clientID, "", map[string]any{"location_id": locationID})
	return &out, nil
}

func (s *Service) DeleteLocation(ctx context.Context, clientID, locationID string) error {
	if err := checkIDs("client", clientID, "location", locationID); err != nil {
		return err
	}
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		return c.RemoveLocation(locationID)
	}); err != nil {
		return err
	}
	s.record(ctx, "LOCATION_DELETE", clientID, "", map[string]any{"location_id": locationID})
	return nil
}

// AddZone always generates the zone's QR payload.
func (s *Service) AddZone(ctx context.Context, clientID, locationID string, in ZoneInput) (*models.Zone, error) {
	if err := checkIDs("client", clientID, "location", locationID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("zone name is required")
	}
	zone := models.Zone{ID: models.NewID(), Name: name, Records: []models.ZoneRecord{}}
	url, err := s.qr.DataURL(zone.ID)
	if err != nil {
		return nil, err
	}
	zone.QRCodeURL = url
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		l, err := c.Location(locationID)
		if err != nil {
			return err
		}
		l.Zones = append(l.Zones, zone)
		return nil
	}); err != nil {
		return nil, err
	}
	s.record(ctx, "ZONE_CREATE", clientID, "", map[string]any{"location_id": locationID, "zone_id": zone.ID})
	return &zone, nil
}

func (s *Service) UpdateZone(ctx context.Context, clientID, locationID, zoneID string, in ZoneInput) (*models.Zone, error) {
	if err := checkIDs("client", clientID, "location", locationID, "zone", zoneID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("zone name is required")
	}
	var out models.Zone
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		z, err := c.Zone(locationID, zoneID)
		if err != nil {
			return err
		}
		z.Name = name
		out = *z
		return nil
	}); err != nil {
		return nil, err
	}
	s.record(ctx, "ZONE_UPDATE", clientID, "", map[string]any{"location_id": locationID, "zone_id": zoneID})
	return &out, nil
}

func (s *Service) DeleteZone(ctx context.Context, clientID, locationID, zoneID string) error {
	if err := checkIDs("client", clientID, "location", locationID, "zone", zoneID); err != nil {
		return err
	}
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		l, err := c.Location(locationID)
		if err != nil {
			return err
		}
		return l.RemoveZone(zoneID)
	}); err != nil {
		return err
	}
	s.record(ctx, "ZONE_DELETE", clientID, "", map[string]any{"location_id": locationID, "zone_id": zoneID})
	return nil
}
