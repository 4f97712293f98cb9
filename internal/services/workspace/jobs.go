package workspace

import (
	"context"
	"strings"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
	"zonetrack/internal/patch"
)

// JobInput serves create and update. Title, location, zone and assigneduser
// are required on both; an update leaves absent steps and educationlink as
// stored.
type JobInput struct {
	Title         string                       `json:"title"`
	Steps         patch.Field[[]models.Step]   `json:"steps"`
	Location      patch.Field[models.Location] `json:"location"`
	Zone          patch.Field[models.Zone]     `json:"zone"`
	EducationLink patch.Field[string]          `json:"educationlink"`
	AssignedUser  string                       `json:"assigneduser"`
}

func (in JobInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || !in.Location.Set || !in.Zone.Set || in.AssignedUser == "" {
		return apperr.Validation("title, location, zone and assigneduser are required")
	}
	if in.Location.Value.ID == "" && in.Location.Value.Name == "" {
		return apperr.Validation("location must carry _id or name")
	}
	if in.Zone.Value.ID == "" && in.Zone.Value.Name == "" {
		return apperr.Validation("zone must carry _id or name")
	}
	return checkID("assigned user", in.AssignedUser)
}

// steps copies the payload steps. With keepIDs a supplied id survives when
// it is well formed and not already used by an earlier step; every other
// step gets a fresh id.
func (in JobInput) steps(keepIDs bool) []models.Step {
	out := make([]models.Step, len(in.Steps.Value))
	seen := make(map[string]bool, len(out))
	for i, st := range in.Steps.Value {
		if !keepIDs || !models.ValidID(st.ID) || seen[st.ID] {
			st.ID = models.NewID()
		}
		seen[st.ID] = true
		if st.ItemsToUse == nil {
			st.ItemsToUse = []string{}
		}
		out[i] = st
	}
	return out
}

// AddJob stores the job, records it on the embedded user copy in the same
// document write, then assigns it to the standalone user as the secondary
// write.
func (s *Service) AddJob(ctx context.Context, clientID string, in JobInput) (*models.Job, error) {
	if err := checkID("client", clientID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, clientID, in.AssignedUser); err != nil {
		return nil, err
	}
	job := models.Job{
		ID:            models.NewID(),
		Title:         strings.TrimSpace(in.Title),
		Steps:         in.steps(false),
		Location:      in.Location.Value,
		Zone:          in.Zone.Value,
		EducationLink: in.EducationLink.Value,
		AssignedUser:  in.AssignedUser,
	}
	c, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		c.Jobs = append(c.Jobs, job)
		if u, err := c.User(in.AssignedUser); err == nil && !u.HasJob(job.ID) {
			u.Jobs = append(u.Jobs, job.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	stored, err := c.Job(job.ID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "JOB_CREATE", clientID, in.AssignedUser, map[string]any{"job_id": job.ID})
	return stored, s.mirror(ctx, "job", Op{Kind: OpUserJobAssign, ClientID: clientID, UserID: in.AssignedUser, JobID: job.ID})
}

// checkAssignee requires the standalone user to exist and to belong to the
// client the job is written to.
func (s *Service) checkAssignee(ctx context.Context, clientID, userID string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.ClientID != clientID {
		return apperr.Validation("assigned user %s does not belong to client %s", userID, clientID)
	}
	return nil
}

// UpdateJob rewrites the required fields and the optional ones present in
// in. User job lists are not touched.
func (s *Service) UpdateJob(ctx context.Context, clientID, jobID string, in JobInput) (*models.Job, error) {
	if err := checkIDs("client", clientID, "job", jobID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		j, err := c.Job(jobID)
		if err != nil {
			return err
		}
		j.Title = strings.TrimSpace(in.Title)
		j.Location = in.Location.Value
		j.Zone = in.Zone.Value
		j.AssignedUser = in.AssignedUser
		if in.Steps.Set {
			j.Steps = in.steps(true)
		}
		in.EducationLink.Apply(&j.EducationLink)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, "JOB_UPDATE", clientID, in.AssignedUser, map[string]any{"job_id": jobID})
	return c.Job(jobID)
}

// DeleteJob leaves the job id in any user's job list.
func (s *Service) DeleteJob(ctx context.Context, clientID, jobID string) error {
	if err := checkIDs("client", clientID, "job", jobID); err != nil {
		return err
	}
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		return c.RemoveJob(jobID)
	}); err != nil {
		return err
	}
	s.record(ctx, "JOB_DELETE", clientID, "", map[string]any{"job_id": jobID})
	return nil
}
