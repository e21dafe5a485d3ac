package services

import (
	"testing"
	"time"

	"seoanalyzer-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateRequest(t *testing.T) {
	db := setupTestDB(t)
	notifier := &recordingNotifier{}
	wf := NewRequestWorkflow(db, notifier)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(user.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
		CustomFields: models.JSONB{
			"target_market": "US",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, "Need keyword audit", req.Message)
	assert.Equal(t, user.ID, req.UserID)
	assert.Equal(t, service.ID, req.ServiceID)
	assert.Equal(t, 1, req.Version)
	assert.False(t, req.UpdatedAt.Before(req.CreatedAt))
	assert.WithinDuration(t, req.CreatedAt, req.UpdatedAt, time.Second)

	require.Len(t, notifier.created, 1)
	assert.Equal(t, req.ID, notifier.created[0])
}

func TestCreateRequestWithOwnProject(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)
	project := seedProject(t, db, user.ID)

	req, err := wf.CreateRequest(user.ID, CreateRequestInput{
		ServiceID: service.ID,
		ProjectID: &project.ID,
		Message:   "Audit for my project",
	})
	require.NoError(t, err)
	require.NotNil(t, req.ProjectID)
	assert.Equal(t, project.ID, *req.ProjectID)
}

func TestCreateRequestValidation(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	other := seedUser(t, db, "other@example.com", models.RoleUser)
	active := seedService(t, db, "keyword-audit", true)
	inactive := seedService(t, db, "old-service", false)
	foreignProject := seedProject(t, db, other.ID)

	tests := []struct {
		name    string
		input   CreateRequestInput
		wantErr error
	}{
		{
			name:    "missing message",
			input:   CreateRequestInput{ServiceID: active.ID, Message: "   "},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown service",
			input:   CreateRequestInput{ServiceID: uuid.New(), Message: "hello"},
			wantErr: ErrNotFound,
		},
		{
			name:    "inactive service",
			input:   CreateRequestInput{ServiceID: inactive.ID, Message: "hello"},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown project",
			input:   CreateRequestInput{ServiceID: active.ID, ProjectID: ptrUUID(uuid.New()), Message: "hello"},
			wantErr: ErrNotFound,
		},
		{
			name:    "someone else's project",
			input:   CreateRequestInput{ServiceID: active.ID, ProjectID: &foreignProject.ID, Message: "hello"},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wf.CreateRequest(user.ID, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func TestTransitionTable(t *testing.T) {
	statuses := []string{
		models.StatusPending, models.StatusApproved, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled,
	}
	legal := map[[2]string]bool{
		{models.StatusPending, models.StatusApproved}:     true,
		{models.StatusPending, models.StatusCancelled}:    true,
		{models.StatusApproved, models.StatusInProgress}:  true,
		{models.StatusApproved, models.StatusCancelled}:   true,
		{models.StatusInProgress, models.StatusCompleted}: true,
		{models.StatusInProgress, models.StatusCancelled}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, legal[[2]string{from, to}], models.CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestUpdateAsAdminTransitions(t *testing.T) {
	db := setupTestDB(t)
	notifier := &recordingNotifier{}
	wf := NewRequestWorkflow(db, notifier)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(user.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
	})
	require.NoError(t, err)

	// pending -> approved with notes
	updated, err := wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusApproved), strPtr("confirmed scope"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, "confirmed scope", updated.AdminNotes)
	assert.True(t, updated.UpdatedAt.After(req.UpdatedAt) || updated.Version > req.Version)

	// Repeating the same transition fails: the row is no longer pending
	_, err = wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusApproved), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// approved -> in_progress -> completed
	_, err = wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusInProgress), nil)
	require.NoError(t, err)
	final, err := wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusCompleted), nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, final.Status)

	// Terminal state rejects everything
	_, err = wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusCancelled), nil)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	require.Len(t, notifier.changes, 3)
	assert.Equal(t, statusChange{req.ID, models.StatusPending, models.StatusApproved}, notifier.changes[0])
	assert.Equal(t, statusChange{req.ID, models.StatusApproved, models.StatusInProgress}, notifier.changes[1])
	assert.Equal(t, statusChange{req.ID, models.StatusInProgress, models.StatusCompleted}, notifier.changes[2])
}

func TestUpdateAsAdminSkipRejected(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(user.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
	})
	require.NoError(t, err)

	// pending -> completed skips steps and must fail
	_, err = wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusCompleted), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// Row unchanged
	current, err := wf.Ledger().Find(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, current.Status)
	assert.Equal(t, 1, current.Version)
}

func TestUpdateAsAdminNotesOnly(t *testing.T) {
	db := setupTestDB(t)
	notifier := &recordingNotifier{}
	wf := NewRequestWorkflow(db, notifier)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(user.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
	})
	require.NoError(t, err)

	_, err = wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusCancelled), nil)
	require.NoError(t, err)

	// Notes stay writable on a terminal request, with no status notification
	updated, err := wf.UpdateAsAdmin(req.ID, models.RoleAdmin, nil, strPtr("user withdrew"))
	require.NoError(t, err)
	assert.Equal(t, "user withdrew", updated.AdminNotes)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Len(t, notifier.changes, 1)
}

func TestUpdateAsAdminRequiresAdminRole(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(user.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
	})
	require.NoError(t, err)

	_, err = wf.UpdateAsAdmin(req.ID, models.RoleUser, strPtr(models.StatusApproved), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateAsOwner(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	owner := seedUser(t, db, "owner@example.com", models.RoleUser)
	stranger := seedUser(t, db, "stranger@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(owner.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
	})
	require.NoError(t, err)

	// Owner may edit while pending
	updated, err := wf.UpdateAsOwner(req.ID, owner.ID, strPtr("Need a full technical audit"), models.JSONB{"pages": float64(40)})
	require.NoError(t, err)
	assert.Equal(t, "Need a full technical audit", updated.Message)
	assert.Equal(t, 2, updated.Version)

	// Someone else may not, and the row stays put
	_, err = wf.UpdateAsOwner(req.ID, stranger.ID, strPtr("hijacked"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	current, err := wf.Ledger().Find(req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Need a full technical audit", current.Message)

	// Once approved the owner's fields are locked
	_, err = wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusApproved), nil)
	require.NoError(t, err)

	_, err = wf.UpdateAsOwner(req.ID, owner.ID, strPtr("too late"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGetRequestVisibility(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	owner := seedUser(t, db, "owner@example.com", models.RoleUser)
	stranger := seedUser(t, db, "stranger@example.com", models.RoleUser)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(owner.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
	})
	require.NoError(t, err)

	// Owner and admin see the row
	_, err = wf.GetRequest(req.ID, owner.ID, false)
	assert.NoError(t, err)
	_, err = wf.GetRequest(req.ID, admin.ID, true)
	assert.NoError(t, err)

	// A stranger gets the same answer as for a missing row
	_, err = wf.GetRequest(req.ID, stranger.ID, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, missingErr := wf.GetRequest(uuid.New(), stranger.ID, false)
	assert.ErrorIs(t, missingErr, ErrNotFound)
}

func TestListRequests(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	alice := seedUser(t, db, "alice@example.com", models.RoleUser)
	bob := seedUser(t, db, "bob@example.com", models.RoleUser)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	service := seedService(t, db, "keyword-audit", true)

	for i := 0; i < 2; i++ {
		_, err := wf.CreateRequest(alice.ID, CreateRequestInput{ServiceID: service.ID, Message: "alice request"})
		require.NoError(t, err)
	}
	bobReq, err := wf.CreateRequest(bob.ID, CreateRequestInput{ServiceID: service.ID, Message: "bob request"})
	require.NoError(t, err)
	_, err = wf.UpdateAsAdmin(bobReq.ID, models.RoleAdmin, strPtr(models.StatusApproved), nil)
	require.NoError(t, err)

	// Admin sees everything
	all, err := wf.ListRequests(admin.ID, true, "", OrderNewestFirst)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Non-admin only sees their own
	mine, err := wf.ListRequests(alice.ID, false, "", OrderNewestFirst)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, r := range mine {
		assert.Equal(t, alice.ID, r.UserID)
	}

	// Status filter applies on top of scoping
	approved, err := wf.ListRequests(admin.ID, true, models.StatusApproved, OrderNewestFirst)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, bobReq.ID, approved[0].ID)

	none, err := wf.ListRequests(alice.ID, false, models.StatusApproved, OrderNewestFirst)
	require.NoError(t, err)
	assert.Empty(t, none)

	// Unknown status filter is rejected
	_, err = wf.ListRequests(admin.ID, true, "bogus", OrderNewestFirst)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStaleWriteConflicts(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(user.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
	})
	require.NoError(t, err)

	_, err = wf.UpdateAsAdmin(req.ID, models.RoleAdmin, strPtr(models.StatusApproved), nil)
	require.NoError(t, err)

	// Two admins read version 2 and both try approved -> in_progress.
	// The ledger lets exactly one through.
	current, err := wf.Ledger().Find(req.ID)
	require.NoError(t, err)
	require.Equal(t, 2, current.Version)

	first, err := wf.Ledger().CompareAndUpdate(current.ID, current.Version,
		map[string]interface{}{"status": models.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, first.Status)

	_, err = wf.Ledger().CompareAndUpdate(current.ID, current.Version,
		map[string]interface{}{"status": models.StatusInProgress})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	// The winner's write is intact
	final, err := wf.Ledger().Find(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, final.Status)
	assert.Equal(t, 3, final.Version)
}

func TestDeleteRequest(t *testing.T) {
	db := setupTestDB(t)
	wf := NewRequestWorkflow(db, nil)

	user := seedUser(t, db, "user@example.com", models.RoleUser)
	service := seedService(t, db, "keyword-audit", true)

	req, err := wf.CreateRequest(user.ID, CreateRequestInput{
		ServiceID: service.ID,
		Message:   "Need keyword audit",
	})
	require.NoError(t, err)

	require.NoError(t, wf.DeleteRequest(req.ID, models.RoleAdmin))

	_, err = wf.Ledger().Find(req.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = wf.DeleteRequest(uuid.New(), models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}
