package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"zonetrack/internal/apperr"
	"zonetrack/internal/auth"
	"zonetrack/internal/models"
	"zonetrack/internal/patch"
	"zonetrack/internal/repository"
	"zonetrack/internal/testutil"
)

type stubQR struct{}

func (stubQR) DataURL(content string) (string, error) { return "qr:" + content, nil }

// flakyUsers fails every write while down is set.
type flakyUsers struct {
	*repository.UserRepository
	down  atomic.Bool
	calls atomic.Int32
}

var errUsersDown = errors.New("users table unavailable")

func (f *flakyUsers) fail() error {
	f.calls.Add(1)
	if f.down.Load() {
		return apperr.Store("users write", errUsersDown)
	}
	return nil
}

func (f *flakyUsers) Update(ctx context.Context, u *models.User) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.UserRepository.Update(ctx, u)
}

func (f *flakyUsers) Upsert(ctx context.Context, u *models.User) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.UserRepository.Upsert(ctx, u)
}

func (f *flakyUsers) AddJob(ctx context.Context, userID, jobID string) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.UserRepository.AddJob(ctx, userID, jobID)
}

type fixture struct {
	svc     *Service
	users   *flakyUsers
	pending *repository.PendingRepository
	issuer  *auth.Issuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.OpenTestDB(t)
	f := &fixture{
		users:   &flakyUsers{UserRepository: repository.NewUserRepository(gdb)},
		pending: repository.NewPendingRepository(gdb),
		issuer:  auth.NewIssuer("test-secret", time.Hour),
	}
	f.svc = New(Deps{
		Clients:  repository.NewClientRepository(gdb),
		Users:    f.users,
		Pending:  f.pending,
		Audit:    repository.NewAuditRepository(gdb),
		Sessions: repository.NewSessionRepository(gdb),
		Hasher:   auth.Hasher{Cost: bcrypt.MinCost},
		Issuer:   f.issuer,
		QR:       stubQR{},
		Attempts: 2,
	})
	return f
}

func (f *fixture) client(t *testing.T, name string) *models.Client {
	t.Helper()
	c, err := f.svc.CreateClient(context.Background(), NewClient{Name: name})
	require.NoError(t, err)
	return c
}

func newUser(email string) NewUser {
	return NewUser{FirstName: "Ada", LastName: "Lovelace", Email: email, Password: "s3cret", Role: models.RoleEmployee}
}

func TestClientTree_LocationZoneRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")

	loc, err := f.svc.AddLocation(ctx, c.ID, LocationInput{Name: "HQ", QRCodeEnabled: patch.Some(true)})
	require.NoError(t, err)
	assert.Equal(t, "qr:"+loc.ID, loc.QRCodeURL)

	zone, err := f.svc.AddZone(ctx, c.ID, loc.ID, ZoneInput{Name: "Loading Dock"})
	require.NoError(t, err)
	assert.Equal(t, "qr:"+zone.ID, zone.QRCodeURL)

	zp := models.RecordPath{LocationID: loc.ID, ZoneID: zone.ID}
	rec, err := f.svc.AddRecord(ctx, c.ID, zp, RecordInput{
		CheckInTime: patch.Some("2024-05-01T08:00:00Z"),
		Completed:   patch.Some([]string{}),
		Jobs:        patch.Some([]models.JobRecord{}),
	})
	require.NoError(t, err)
	assert.NotNil(t, rec.Incomplete)

	lp := models.RecordPath{LocationID: loc.ID}
	_, err = f.svc.AddRecord(ctx, c.ID, lp, RecordInput{
		CheckInTime: patch.Some("2024-05-01T09:00:00Z"),
		Completed:   patch.Some([]string{}),
		Jobs:        patch.Some([]models.JobRecord{}),
	})
	require.NoError(t, err)

	got, err := f.svc.UpdateRecord(ctx, c.ID, zp, rec.ID, RecordInput{CheckOutTime: patch.Some("2024-05-01T10:00:00Z")})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T08:00:00Z", got.CheckInTime)
	assert.Equal(t, "2024-05-01T10:00:00Z", got.CheckOutTime)

	doc, err := f.svc.Client(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, doc.Locations, 1)
	assert.Len(t, doc.Locations[0].Records, 1)
	require.Len(t, doc.Locations[0].Zones, 1)
	assert.Equal(t, "Loading Dock", doc.Locations[0].Zones[0].Name)
	assert.Len(t, doc.Locations[0].Zones[0].Records, 1)

	require.NoError(t, f.svc.DeleteRecord(ctx, c.ID, zp, rec.ID))
	assert.True(t, apperr.IsNotFound(f.svc.DeleteRecord(ctx, c.ID, zp, rec.ID)))

	require.NoError(t, f.svc.DeleteZone(ctx, c.ID, loc.ID, zone.ID))
	require.NoError(t, f.svc.DeleteLocation(ctx, c.ID, loc.ID))
	doc, err = f.svc.Client(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.Locations)
}

func TestAddRecord_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	loc, err := f.svc.AddLocation(ctx, c.ID, LocationInput{Name: "HQ"})
	require.NoError(t, err)
	assert.Empty(t, loc.QRCodeURL)

	p := models.RecordPath{LocationID: loc.ID}
	_, err = f.svc.AddRecord(ctx, c.ID, p, RecordInput{CheckInTime: patch.Some("x")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.AddRecord(ctx, c.ID, p, RecordInput{
		CheckInTime: patch.Some("x"),
		Completed:   patch.Some([]string{"not-an-id"}),
		Jobs:        patch.Some([]models.JobRecord{}),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.AddRecord(ctx, c.ID, models.RecordPath{LocationID: models.NewID()}, RecordInput{
		CheckInTime: patch.Some("x"),
		Completed:   patch.Some([]string{}),
		Jobs:        patch.Some([]models.JobRecord{}),
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestClients_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateClient(ctx, NewClient{Name: "Acme", Users: json.RawMessage(`[{"email":"a@b.c"}]`)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.CreateClient(ctx, NewClient{Name: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	c, err := f.svc.CreateClient(ctx, NewClient{Name: "Acme", Users: json.RawMessage(`null`)})
	require.NoError(t, err)
	_, err = f.svc.AddLocation(ctx, c.ID, LocationInput{Name: "HQ"})
	require.NoError(t, err)

	up, err := f.svc.UpdateClient(ctx, c.ID, ClientPatch{Name: patch.Some("Acme Corp")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", up.Name)
	assert.Len(t, up.Locations, 1)

	list, err := f.svc.Clients(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteClient(ctx, c.ID))
	assert.True(t, apperr.IsNotFound(f.svc.DeleteClient(ctx, c.ID)))
	_, err = f.svc.Client(ctx, "nope")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUsers_DualWriteBothPaths(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")

	u, err := f.svc.AddClientUser(ctx, c.ID, newUser("Ada@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	standalone, err := f.svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, standalone.ClientID)
	assert.Len(t, standalone.Shifts, 7)
	assert.NotEmpty(t, standalone.Password)

	_, err = f.svc.UpdateClientUser(ctx, c.ID, u.ID, UserPatch{Role: patch.Some(models.RoleManager)})
	require.NoError(t, err)
	standalone, err = f.svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, standalone.Role)
	assert.Equal(t, "Ada", standalone.FirstName)

	_, err = f.svc.UpdateUser(ctx, u.ID, UserPatch{LastName: patch.Some("Byron")})
	require.NoError(t, err)
	doc, err := f.svc.Client(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, doc.Users, 1)
	assert.Equal(t, "Byron", doc.Users[0].LastName)
	assert.Equal(t, models.RoleManager, doc.Users[0].Role)
	assert.Empty(t, doc.Users[0].Password)

	require.NoError(t, f.svc.DeleteUser(ctx, u.ID))
	doc, err = f.svc.Client(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
	_, err = f.svc.User(ctx, u.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateUser_EmbedsInClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")

	in := newUser("grace@example.com")
	_, err := f.svc.CreateUser(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	in.ClientID = models.NewID()
	_, err = f.svc.CreateUser(ctx, in)
	assert.True(t, apperr.IsNotFound(err))

	in.ClientID = c.ID
	u, err := f.svc.CreateUser(ctx, in)
	require.NoError(t, err)

	doc, err := f.svc.Client(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, doc.Users, 1)
	assert.Equal(t, u.ID, doc.Users[0].ID)

	require.NoError(t, f.svc.DeleteClientUser(ctx, c.ID, u.ID))
	_, err = f.svc.User(ctx, u.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(f.svc.DeleteClientUser(ctx, c.ID, u.ID)))
}

func TestUserValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")

	bad := newUser("x@example.com")
	bad.Role = "owner"
	_, err := f.svc.AddClientUser(ctx, c.ID, bad)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad = newUser("x@example.com")
	bad.Shifts = models.Shifts{"monday": nil}
	_, err = f.svc.AddClientUser(ctx, c.ID, bad)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	missing := newUser("")
	_, err = f.svc.AddClientUser(ctx, c.ID, missing)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	in := newUser("ada@example.com")
	in.ClientID = c.ID
	u, err := f.svc.CreateUser(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = f.svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	res, err := f.svc.Login(ctx, "ADA@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, models.RoleEmployee, res.Role)

	claims, err := f.issuer.Verify(res.Token)
	require.NoError(t, err)
	assert.True(t, f.svc.Live(ctx, claims.JWTID))

	require.NoError(t, f.svc.Logout(ctx, claims.JWTID))
	assert.False(t, f.svc.Live(ctx, claims.JWTID))
	assert.True(t, apperr.IsNotFound(f.svc.Logout(ctx, claims.JWTID)))
}

func TestLogin_PasswordChangeThroughClientPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
	require.NoError(t, err)

	_, err = f.svc.UpdateClientUser(ctx, c.ID, u.ID, UserPatch{Password: patch.Some("n3w")})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "ada@example.com", "s3cret")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = f.svc.Login(ctx, "ada@example.com", "n3w")
	require.NoError(t, err)

	// an empty password leaves the stored hash alone
	_, err = f.svc.UpdateClientUser(ctx, c.ID, u.ID, UserPatch{Password: patch.Some("")})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "ada@example.com", "n3w")
	require.NoError(t, err)
}

func TestMirrorFailure_QueuedAndReconciled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")

	f.users.down.Store(true)
	u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
	require.Error(t, err)
	require.NotNil(t, u)

	var partial *apperr.Partial
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, string(OpUserSync), partial.Failed)
	assert.Positive(t, partial.QueueID)
	assert.EqualValues(t, 2, f.users.calls.Load())

	doc, err := f.svc.Client(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 1)
	_, err = f.svc.User(ctx, u.ID)
	assert.True(t, apperr.IsNotFound(err))

	open, err := f.svc.PendingWrites(ctx, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, partial.QueueID, open[0].ID)

	rep, err := f.svc.Reconcile(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Attempted: 1, Failed: 1}, rep)

	f.users.down.Store(false)
	rep, err = f.svc.Reconcile(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Attempted: 1, Resolved: 1}, rep)

	_, err = f.svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	open, err = f.svc.PendingWrites(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestMirrorNotFound_NotQueued(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	in := newUser("ada@example.com")
	in.ClientID = c.ID
	u, err := f.svc.CreateUser(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteClient(ctx, c.ID))
	_, err = f.svc.UpdateUser(ctx, u.ID, UserPatch{FirstName: patch.Some("Grace")})
	var partial *apperr.Partial
	require.True(t, errors.As(err, &partial))
	assert.Zero(t, partial.QueueID)

	got, err := f.svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.FirstName)

	open, err := f.svc.PendingWrites(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func jobInput(userID string) JobInput {
	return JobInput{
		Title:        "Sweep",
		Steps:        patch.Some([]models.Step{{Title: "Grab broom"}, {Title: "Sweep floor"}}),
		Location:     patch.Some(models.Location{Name: "HQ"}),
		Zone:         patch.Some(models.Zone{Name: "Loading Dock"}),
		AssignedUser: userID,
	}
}

func TestJobs_AssignUpdateDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
	require.NoError(t, err)

	job, err := f.svc.AddJob(ctx, c.ID, jobInput(u.ID))
	require.NoError(t, err)
	require.Len(t, job.Steps, 2)
	assert.True(t, models.ValidID(job.Steps[0].ID))

	doc, err := f.svc.Client(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, doc.Jobs, 1)
	assert.Equal(t, []string{job.ID}, doc.Users[0].Jobs)
	standalone, err := f.svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, standalone.Jobs)

	// a later sync of the user keeps the assigned jobs on both copies
	_, err = f.svc.UpdateClientUser(ctx, c.ID, u.ID, UserPatch{FirstName: patch.Some("Grace")})
	require.NoError(t, err)
	standalone, err = f.svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, standalone.Jobs)

	upd := jobInput(u.ID)
	upd.Title = "Sweep twice"
	upd.Steps = patch.Some([]models.Step{job.Steps[0], {Title: "Mop"}})
	got, err := f.svc.UpdateJob(ctx, c.ID, job.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Sweep twice", got.Title)
	assert.Equal(t, job.Steps[0].ID, got.Steps[0].ID)
	assert.True(t, models.ValidID(got.Steps[1].ID))

	require.NoError(t, f.svc.DeleteJob(ctx, c.ID, job.ID))
	assert.True(t, apperr.IsNotFound(f.svc.DeleteJob(ctx, c.ID, job.ID)))
	standalone, err = f.svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, standalone.Jobs)
}

func TestAddJob_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")

	_, err := f.svc.AddJob(ctx, c.ID, jobInput(models.NewID()))
	assert.True(t, apperr.IsNotFound(err))

	in := jobInput(models.NewID())
	in.Location = patch.Field[models.Location]{}
	_, err = f.svc.AddJob(ctx, c.ID, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	doc, err := f.svc.Client(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.Jobs)
}

func TestAddJob_AssignFailureQueued(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
	require.NoError(t, err)

	f.users.down.Store(true)
	job, err := f.svc.AddJob(ctx, c.ID, jobInput(u.ID))
	require.True(t, apperr.IsPartial(err))
	require.NotNil(t, job)

	f.users.down.Store(false)
	rep, err := f.svc.Reconcile(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Resolved)
	standalone, err := f.svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, standalone.Jobs)
}

func TestItems_CRUDAndExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")

	_, err := f.svc.AddItem(ctx, c.ID, ItemInput{SKU: patch.Some("X1")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	it, err := f.svc.AddItem(ctx, c.ID, ItemInput{
		Name:    patch.Some("Broom"),
		SKU:     patch.Some("BR-1"),
		UseCase: patch.Some("floors"),
	})
	require.NoError(t, err)

	got, err := f.svc.UpdateItem(ctx, c.ID, it.ID, ItemInput{Description: patch.Some("wide head")})
	require.NoError(t, err)
	assert.Equal(t, "Broom", got.Name)
	assert.Equal(t, "BR-1", got.SKU)
	assert.Equal(t, "wide head", got.Description)

	_, err = f.svc.AddItem(ctx, c.ID, ItemInput{Name: patch.Some("Mop")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportItems(ctx, c.ID, &buf))
	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	assert.Equal(t, "Items", wb.GetSheetName(0))
	rows, err := wb.GetRows("Items")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "SKU", "Use case", "Description"}, rows[0])
	assert.Equal(t, []string{"Broom", "BR-1", "floors", "wide head"}, rows[1])
	assert.Equal(t, "Mop", rows[2][0])

	require.NoError(t, f.svc.DeleteItem(ctx, c.ID, it.ID))
	items, err := f.svc.Items(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mop", items[0].Name)
}

func TestAuditLog_RecordsActor(t *testing.T) {
	ctx := auth.WithClaims(context.Background(), auth.Claims{Subject: "admin-1", Role: "admin"})
	f := newFixture(t)
	c, err := f.svc.CreateClient(ctx, NewClient{Name: "Acme"})
	require.NoError(t, err)
	_, err = f.svc.AddLocation(ctx, c.ID, LocationInput{Name: "HQ"})
	require.NoError(t, err)

	logs, err := f.svc.AuditLog(ctx, c.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "LOCATION_CREATE", logs[0].Action)
	var meta map[string]any
	require.NoError(t, logs[0].Metadata.Decode(&meta))
	assert.Equal(t, "admin-1", meta["actor"])
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Seed(ctx, "", "pw")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	first, err := f.svc.Seed(ctx, "admin@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, first.ClientCreated)
	assert.True(t, first.AdminCreated)

	again, err := f.svc.Seed(ctx, "Admin@Example.com", "pw")
	require.NoError(t, err)
	assert.False(t, again.ClientCreated)
	assert.False(t, again.AdminCreated)
	assert.Equal(t, first.ClientID, again.ClientID)
	assert.Equal(t, first.AdminID, again.AdminID)

	res, err := f.svc.Login(ctx, "admin@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)
}

func allLocationIDs(ls []models.Location) []string {
	var ids []string
	for _, l := range ls {
		ids = append(ids, l.ID)
		for _, r := range l.Records {
			ids = append(ids, r.ID)
		}
		for _, z := range l.Zones {
			ids = append(ids, z.ID)
			for _, r := range z.Records {
				ids = append(ids, r.ID)
			}
		}
	}
	return ids
}

func requireDistinctIDs(t *testing.T, ids []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, id := range ids {
		require.True(t, models.ValidID(id), "malformed id %q", id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestClientPayloadIDsAreReplaced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dup := models.NewID()

	var in NewClient
	require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(`{
		"name": "Acme",
		"locations": [
			{"_id": "hq", "name": "HQ", "records": [{"_id": %[1]q}]},
			{"_id": %[1]q, "name": "A", "zones": [{"_id": %[1]q, "name": "Dock", "records": [{"_id": %[1]q}, {"_id": %[1]q}]}]},
			{"_id": %[1]q, "name": "B"}
		],
		"jobs": [{"_id": "job-1", "title": "Mop", "steps": [{"_id": %[1]q}, {"_id": %[1]q}]}]
	}`, dup)), &in))

	c, err := f.svc.CreateClient(ctx, in)
	require.NoError(t, err)
	require.Len(t, c.Locations, 3)
	ids := allLocationIDs(c.Locations)
	require.Len(t, ids, 8)
	require.Len(t, c.Jobs, 1)
	ids = append(ids, c.Jobs[0].ID, c.Jobs[0].Steps[0].ID, c.Jobs[0].Steps[1].ID)
	requireDistinctIDs(t, append(ids, dup))

	// every replaced id is addressable
	_, err = f.svc.AddZone(ctx, c.ID, c.Locations[1].ID, ZoneInput{Name: "Office"})
	require.NoError(t, err)
	for _, l := range c.Locations {
		require.NoError(t, f.svc.DeleteLocation(ctx, c.ID, l.ID))
	}

	var p ClientPatch
	require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(`{"locations": [{"_id": %[1]q, "name": "X"}, {"_id": %[1]q, "name": "Y"}]}`, dup)), &p))
	up, err := f.svc.UpdateClient(ctx, c.ID, p)
	require.NoError(t, err)
	require.Len(t, up.Locations, 2)
	assert.Equal(t, "X", up.Locations[0].Name)
	requireDistinctIDs(t, append(allLocationIDs(up.Locations), dup))
	require.NoError(t, f.svc.DeleteLocation(ctx, c.ID, up.Locations[1].ID))
}

func TestUpdateJob_StepIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
	require.NoError(t, err)
	job, err := f.svc.AddJob(ctx, c.ID, jobInput(u.ID))
	require.NoError(t, err)
	kept := job.Steps[0].ID

	upd := jobInput(u.ID)
	upd.Steps = patch.Some([]models.Step{
		{ID: kept, Title: "kept"},
		{ID: "s1", Title: "malformed"},
		{ID: kept, Title: "duplicate"},
		{Title: "new"},
	})
	got, err := f.svc.UpdateJob(ctx, c.ID, job.ID, upd)
	require.NoError(t, err)
	require.Len(t, got.Steps, 4)
	assert.Equal(t, kept, got.Steps[0].ID)
	assert.Equal(t, "duplicate", got.Steps[2].Title)
	requireDistinctIDs(t, []string{got.Steps[0].ID, got.Steps[1].ID, got.Steps[2].ID, got.Steps[3].ID})
}

func TestAddJob_AssigneeMustBelongToClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	acme := f.client(t, "Acme")
	other := f.client(t, "Globex")
	u, err := f.svc.AddClientUser(ctx, other.ID, newUser("ada@example.com"))
	require.NoError(t, err)

	_, err = f.svc.AddJob(ctx, acme.ID, jobInput(u.ID))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	doc, err := f.svc.Client(ctx, acme.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.Jobs)
	standalone, err := f.svc.User(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, standalone.Jobs)
}

func TestUserSync_MissingRowNeedsHash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
	require.NoError(t, err)

	// queue a sync that carries no password, then lose the standalone row
	f.users.down.Store(true)
	_, err = f.svc.UpdateClientUser(ctx, c.ID, u.ID, UserPatch{FirstName: patch.Some("Grace")})
	require.True(t, apperr.IsPartial(err))
	f.users.down.Store(false)
	require.NoError(t, f.users.UserRepository.Delete(ctx, u.ID))

	rep, err := f.svc.Reconcile(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Attempted: 1, Resolved: 1}, rep)
	_, err = f.svc.User(ctx, u.ID)
	assert.True(t, apperr.IsNotFound(err))

	// inline, the same sync is reported but not queued
	_, err = f.svc.UpdateClientUser(ctx, c.ID, u.ID, UserPatch{LastName: patch.Some("Hopper")})
	var partial *apperr.Partial
	require.True(t, errors.As(err, &partial))
	assert.Zero(t, partial.QueueID)
	_, err = f.svc.User(ctx, u.ID)
	assert.True(t, apperr.IsNotFound(err))

	// a password change carries a hash and restores a usable row
	_, err = f.svc.UpdateClientUser(ctx, c.ID, u.ID, UserPatch{Password: patch.Some("n3w")})
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, "ada@example.com", "n3w")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
}

func TestUpdate_OmittedFieldKeptExplicitCleared(t *testing.T) {
	type updater func(body string) (string, error)
	cases := []struct {
		name  string
		setup func(t *testing.T, f *fixture, c *models.Client) (stored string, update updater)
		omit  string
		clear string
	}{
		{
			name: "record checkOutTime",
			setup: func(t *testing.T, f *fixture, c *models.Client) (string, updater) {
				ctx := context.Background()
				loc, err := f.svc.AddLocation(ctx, c.ID, LocationInput{Name: "HQ"})
				require.NoError(t, err)
				p := models.RecordPath{LocationID: loc.ID}
				rec, err := f.svc.AddRecord(ctx, c.ID, p, RecordInput{
					CheckInTime:  patch.Some("08:00"),
					CheckOutTime: patch.Some("10:00"),
					Completed:    patch.Some([]string{}),
					Jobs:         patch.Some([]models.JobRecord{}),
				})
				require.NoError(t, err)
				return "10:00", func(body string) (string, error) {
					var in RecordInput
					require.NoError(t, json.Unmarshal([]byte(body), &in))
					got, err := f.svc.UpdateRecord(ctx, c.ID, p, rec.ID, in)
					if err != nil {
						return "", err
					}
					return got.CheckOutTime, nil
				}
			},
			omit:  `{"timeSpent":"2h"}`,
			clear: `{"checkOutTime":null}`,
		},
		{
			name: "item sku",
			setup: func(t *testing.T, f *fixture, c *models.Client) (string, updater) {
				ctx := context.Background()
				it, err := f.svc.AddItem(ctx, c.ID, ItemInput{Name: patch.Some("Broom"), SKU: patch.Some("BR-1")})
				require.NoError(t, err)
				return "BR-1", func(body string) (string, error) {
					var in ItemInput
					require.NoError(t, json.Unmarshal([]byte(body), &in))
					got, err := f.svc.UpdateItem(ctx, c.ID, it.ID, in)
					if err != nil {
						return "", err
					}
					return got.SKU, nil
				}
			},
			omit:  `{"description":"wide"}`,
			clear: `{"sku":""}`,
		},
		{
			name: "user lastname",
			setup: func(t *testing.T, f *fixture, c *models.Client) (string, updater) {
				ctx := context.Background()
				u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
				require.NoError(t, err)
				return "Lovelace", func(body string) (string, error) {
					var in UserPatch
					require.NoError(t, json.Unmarshal([]byte(body), &in))
					if _, err := f.svc.UpdateClientUser(ctx, c.ID, u.ID, in); err != nil {
						return "", err
					}
					standalone, err := f.svc.User(ctx, u.ID)
					if err != nil {
						return "", err
					}
					return standalone.LastName, nil
				}
			},
			omit:  `{"firstname":"Grace"}`,
			clear: `{"lastname":null}`,
		},
		{
			name: "location qr payload",
			setup: func(t *testing.T, f *fixture, c *models.Client) (string, updater) {
				ctx := context.Background()
				loc, err := f.svc.AddLocation(ctx, c.ID, LocationInput{Name: "HQ", QRCodeEnabled: patch.Some(true)})
				require.NoError(t, err)
				return "qr:" + loc.ID, func(body string) (string, error) {
					var in LocationInput
					require.NoError(t, json.Unmarshal([]byte(body), &in))
					got, err := f.svc.UpdateLocation(ctx, c.ID, loc.ID, in)
					if err != nil {
						return "", err
					}
					return got.QRCodeURL, nil
				}
			},
			omit:  `{"name":"HQ2"}`,
			clear: `{"name":"HQ2","qrCodeEnabled":false}`,
		},
		{
			name: "job educationlink",
			setup: func(t *testing.T, f *fixture, c *models.Client) (string, updater) {
				ctx := context.Background()
				u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
				require.NoError(t, err)
				in := jobInput(u.ID)
				in.EducationLink = patch.Some("http://x")
				job, err := f.svc.AddJob(ctx, c.ID, in)
				require.NoError(t, err)
				return "http://x", func(body string) (string, error) {
					var upd JobInput
					require.NoError(t, json.Unmarshal([]byte(body), &upd))
					upd.AssignedUser = u.ID
					got, err := f.svc.UpdateJob(ctx, c.ID, job.ID, upd)
					if err != nil {
						return "", err
					}
					require.Len(t, got.Steps, 2)
					return got.EducationLink, nil
				}
			},
			omit:  `{"title":"Sweep","location":{"name":"HQ"},"zone":{"name":"Dock"}}`,
			clear: `{"title":"Sweep","location":{"name":"HQ"},"zone":{"name":"Dock"},"educationlink":null}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			stored, update := tc.setup(t, f, f.client(t, "Acme"))

			got, err := update(tc.omit)
			require.NoError(t, err)
			assert.Equal(t, stored, got, "omitted field must be kept")

			got, err = update(tc.clear)
			require.NoError(t, err)
			assert.Empty(t, got, "explicit empty value must overwrite")
		})
	}
}

func TestCreate_AppendsOneFreshSibling(t *testing.T) {
	type lister func(*models.Client) []string
	cases := []struct {
		name  string
		setup func(t *testing.T, f *fixture, c *models.Client) (add func(i int) string, list lister)
	}{
		{
			name: "locations",
			setup: func(t *testing.T, f *fixture, c *models.Client) (func(int) string, lister) {
				return func(i int) string {
						l, err := f.svc.AddLocation(context.Background(), c.ID, LocationInput{Name: fmt.Sprint("L", i)})
						require.NoError(t, err)
						return l.ID
					}, func(d *models.Client) []string {
						var ids []string
						for _, l := range d.Locations {
							ids = append(ids, l.ID)
						}
						return ids
					}
			},
		},
		{
			name: "zones",
			setup: func(t *testing.T, f *fixture, c *models.Client) (func(int) string, lister) {
				loc, err := f.svc.AddLocation(context.Background(), c.ID, LocationInput{Name: "HQ"})
				require.NoError(t, err)
				return func(i int) string {
						z, err := f.svc.AddZone(context.Background(), c.ID, loc.ID, ZoneInput{Name: fmt.Sprint("Z", i)})
						require.NoError(t, err)
						return z.ID
					}, func(d *models.Client) []string {
						var ids []string
						for _, z := range d.Locations[0].Zones {
							ids = append(ids, z.ID)
						}
						return ids
					}
			},
		},
		{
			name: "zone records",
			setup: func(t *testing.T, f *fixture, c *models.Client) (func(int) string, lister) {
				ctx := context.Background()
				loc, err := f.svc.AddLocation(ctx, c.ID, LocationInput{Name: "HQ"})
				require.NoError(t, err)
				z, err := f.svc.AddZone(ctx, c.ID, loc.ID, ZoneInput{Name: "Dock"})
				require.NoError(t, err)
				p := models.RecordPath{LocationID: loc.ID, ZoneID: z.ID}
				return func(i int) string {
						r, err := f.svc.AddRecord(ctx, c.ID, p, RecordInput{
							CheckInTime: patch.Some(fmt.Sprint(i)),
							Completed:   patch.Some([]string{}),
							Jobs:        patch.Some([]models.JobRecord{}),
						})
						require.NoError(t, err)
						return r.ID
					}, func(d *models.Client) []string {
						var ids []string
						for _, r := range d.Locations[0].Zones[0].Records {
							ids = append(ids, r.ID)
						}
						return ids
					}
			},
		},
		{
			name: "items",
			setup: func(t *testing.T, f *fixture, c *models.Client) (func(int) string, lister) {
				return func(i int) string {
						it, err := f.svc.AddItem(context.Background(), c.ID, ItemInput{Name: patch.Some(fmt.Sprint("I", i))})
						require.NoError(t, err)
						return it.ID
					}, func(d *models.Client) []string {
						var ids []string
						for _, it := range d.Items {
							ids = append(ids, it.ID)
						}
						return ids
					}
			},
		},
		{
			name: "jobs",
			setup: func(t *testing.T, f *fixture, c *models.Client) (func(int) string, lister) {
				u, err := f.svc.AddClientUser(context.Background(), c.ID, newUser("ada@example.com"))
				require.NoError(t, err)
				return func(i int) string {
						j, err := f.svc.AddJob(context.Background(), c.ID, jobInput(u.ID))
						require.NoError(t, err)
						return j.ID
					}, func(d *models.Client) []string {
						var ids []string
						for _, j := range d.Jobs {
							ids = append(ids, j.ID)
						}
						return ids
					}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			c := f.client(t, "Acme")
			add, list := tc.setup(t, f, c)

			for i := 0; i < 3; i++ {
				doc, err := f.svc.Client(ctx, c.ID)
				require.NoError(t, err)
				before := list(doc)

				id := add(i)

				doc, err = f.svc.Client(ctx, c.ID)
				require.NoError(t, err)
				after := list(doc)
				require.Len(t, after, len(before)+1)
				assert.Equal(t, before, after[:len(before)])
				assert.Equal(t, id, after[len(before)])
				assert.True(t, models.ValidID(id))
				assert.NotContains(t, before, id)
			}
		})
	}
}

func TestDeleteUnknownLeaf_LeavesDocumentUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.client(t, "Acme")
	loc, err := f.svc.AddLocation(ctx, c.ID, LocationInput{Name: "HQ", QRCodeEnabled: patch.Some(true)})
	require.NoError(t, err)
	z, err := f.svc.AddZone(ctx, c.ID, loc.ID, ZoneInput{Name: "Dock"})
	require.NoError(t, err)
	rec := RecordInput{CheckInTime: patch.Some("08:00"), Completed: patch.Some([]string{}), Jobs: patch.Some([]models.JobRecord{})}
	zp := models.RecordPath{LocationID: loc.ID, ZoneID: z.ID}
	lp := models.RecordPath{LocationID: loc.ID}
	_, err = f.svc.AddRecord(ctx, c.ID, zp, rec)
	require.NoError(t, err)
	_, err = f.svc.AddRecord(ctx, c.ID, lp, rec)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, c.ID, ItemInput{Name: patch.Some("Broom")})
	require.NoError(t, err)
	u, err := f.svc.AddClientUser(ctx, c.ID, newUser("ada@example.com"))
	require.NoError(t, err)
	_, err = f.svc.AddJob(ctx, c.ID, jobInput(u.ID))
	require.NoError(t, err)

	before, err := f.svc.Client(ctx, c.ID)
	require.NoError(t, err)

	unknown := models.NewID()
	deletes := map[string]func() error{
		"location":        func() error { return f.svc.DeleteLocation(ctx, c.ID, unknown) },
		"zone":            func() error { return f.svc.DeleteZone(ctx, c.ID, loc.ID, unknown) },
		"zone record":     func() error { return f.svc.DeleteRecord(ctx, c.ID, zp, unknown) },
		"location record": func() error { return f.svc.DeleteRecord(ctx, c.ID, lp, unknown) },
		"item":            func() error { return f.svc.DeleteItem(ctx, c.ID, unknown) },
		"job":             func() error { return f.svc.DeleteJob(ctx, c.ID, unknown) },
		"user":            func() error { return f.svc.DeleteClientUser(ctx, c.ID, unknown) },
	}
	for name, del := range deletes {
		t.Run(name, func(t *testing.T) {
			assert.True(t, apperr.IsNotFound(del()))

			after, err := f.svc.Client(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Locations, after.Locations)
			assert.Equal(t, before.Users, after.Users)
			assert.Equal(t, before.Jobs, after.Jobs)
			assert.Equal(t, before.Items, after.Items)
			assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
		})
	}
}
