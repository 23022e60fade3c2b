package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teamtrack/backend/internal/models"
)

// recordingQueue captures enqueued notifications.
type recordingQueue struct {
	sent []*InviteNotification
}

func (q *recordingQueue) Enqueue(n *InviteNotification) error {
	q.sent = append(q.sent, n)
	return nil
}

func (q *recordingQueue) IsAsync() bool { return false }
func (q *recordingQueue) Close() error  { return nil }

func TestMembershipInvite_CreatesPendingAndNotifies(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	invitee := createUser(t, db, "bob")
	project := createProject(t, db, organizer, "Website")

	queue := &recordingQueue{}
	svc := NewMembershipService(db, queue)

	m, err := svc.Invite(context.Background(), Actor{ID: organizer.ID}, project.ID, &InviteMemberRequest{Email: invitee.Email})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if m.State() != models.MembershipPending {
		t.Errorf("state = %s, expected pending", m.State())
	}
	if m.InviteToken == "" {
		t.Error("pending membership should carry an invite token")
	}
	if len(queue.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(queue.sent))
	}
	if queue.sent[0].Email != invitee.Email {
		t.Errorf("notification email = %q, expected %q", queue.sent[0].Email, invitee.Email)
	}
	if queue.sent[0].InviteToken != m.InviteToken {
		t.Error("notification should carry the membership's invite token")
	}
}

func TestMembershipInvite_UnknownEmail(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	project := createProject(t, db, organizer, "Website")

	svc := NewMembershipService(db, nil)
	_, err := svc.Invite(context.Background(), Actor{ID: organizer.ID}, project.ID, &InviteMemberRequest{Email: "nobody@example.com"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMembershipInvite_NonOrganizerForbidden(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	other := createUser(t, db, "carol")
	project := createProject(t, db, organizer, "Website")
	addActiveMember(t, db, organizer, project.ID, member)

	svc := NewMembershipService(db, nil)
	_, err := svc.Invite(context.Background(), Actor{ID: member.ID}, project.ID, &InviteMemberRequest{Email: other.Email})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMembershipAdd_Duplicate(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	project := createProject(t, db, organizer, "Website")
	addActiveMember(t, db, organizer, project.ID, member)

	svc := NewMembershipService(db, nil)
	actor := Actor{ID: organizer.ID}

	_, err := svc.Add(context.Background(), actor, project.ID, &AddMemberRequest{UserID: member.ID})
	if !errors.Is(err, ErrDuplicateMembership) {
		t.Errorf("second add: expected ErrDuplicateMembership, got %v", err)
	}

	// a pending invitation for the same user is a duplicate too
	_, err = svc.Invite(context.Background(), actor, project.ID, &InviteMemberRequest{Email: member.Email})
	if !errors.Is(err, ErrDuplicateMembership) {
		t.Errorf("invite over active membership: expected ErrDuplicateMembership, got %v", err)
	}
}

func TestMembershipAccept_OnlyInvitee(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	invitee := createUser(t, db, "bob")
	project := createProject(t, db, organizer, "Website")
	m := invitePending(t, db, organizer, project.ID, invitee)

	svc := NewMembershipService(db, nil)

	if _, err := svc.Accept(context.Background(), Actor{ID: organizer.ID}, m.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("accept by another user: expected ErrUnauthorized, got %v", err)
	}

	accepted, err := svc.Accept(context.Background(), Actor{ID: invitee.ID}, m.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.State() != models.MembershipActive {
		t.Errorf("state = %s, expected active", accepted.State())
	}
	if accepted.InviteToken != "" {
		t.Error("invite token should be cleared on accept")
	}
}

func TestMembershipAccept_AlreadyActive(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	invitee := createUser(t, db, "bob")
	project := createProject(t, db, organizer, "Website")
	m := invitePending(t, db, organizer, project.ID, invitee)

	svc := NewMembershipService(db, nil)
	actor := Actor{ID: invitee.ID}
	if _, err := svc.Accept(context.Background(), actor, m.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := svc.Accept(context.Background(), actor, m.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second accept: expected ErrInvalidTransition, got %v", err)
	}
}

func TestMembershipEnd_Terminal(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	project := createProject(t, db, organizer, "Website")
	m := addActiveMember(t, db, organizer, project.ID, member)

	svc := NewMembershipService(db, nil)
	actor := Actor{ID: member.ID}

	if err := svc.End(context.Background(), actor, m.ID); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := svc.End(context.Background(), actor, m.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second end: expected ErrInvalidTransition, got %v", err)
	}

	// ended membership cannot be accepted either
	if _, err := svc.Accept(context.Background(), actor, m.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("accept after end: expected ErrInvalidTransition, got %v", err)
	}
}

func TestMembershipEnd_RejoinAllowed(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	project := createProject(t, db, organizer, "Website")
	m := addActiveMember(t, db, organizer, project.ID, member)

	svc := NewMembershipService(db, nil)
	if err := svc.End(context.Background(), Actor{ID: member.ID}, m.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	// a fresh membership may be created once the old one is ended
	again, err := svc.Add(context.Background(), Actor{ID: organizer.ID}, project.ID, &AddMemberRequest{UserID: member.ID})
	if err != nil {
		t.Fatalf("re-add after end: %v", err)
	}
	if again.ID == m.ID {
		t.Error("re-add should create a fresh membership row")
	}
}

func TestMembershipEnd_OrganizerMayRevoke(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	bystander := createUser(t, db, "carol")
	project := createProject(t, db, organizer, "Website")
	m := addActiveMember(t, db, organizer, project.ID, member)
	addActiveMember(t, db, organizer, project.ID, bystander)

	svc := NewMembershipService(db, nil)

	if err := svc.End(context.Background(), Actor{ID: bystander.ID}, m.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("end by a plain member: expected ErrUnauthorized, got %v", err)
	}
	if err := svc.End(context.Background(), Actor{ID: organizer.ID}, m.ID); err != nil {
		t.Errorf("end by organizer: %v", err)
	}
}

func TestMembershipList_ExcludesEnded(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	gone := createUser(t, db, "carol")
	project := createProject(t, db, organizer, "Website")
	addActiveMember(t, db, organizer, project.ID, member)
	m := addActiveMember(t, db, organizer, project.ID, gone)

	svc := NewMembershipService(db, nil)
	if err := svc.End(context.Background(), Actor{ID: organizer.ID}, m.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	memberships, err := svc.List(context.Background(), Actor{ID: member.ID}, project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("expected 2 memberships (organizer + member), got %d", len(memberships))
	}
	for _, m := range memberships {
		if m.UserID == gone.ID {
			t.Error("ended membership should not be listed")
		}
	}
}

func TestMembershipUniqueness_ConflictPath(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	project := createProject(t, db, organizer, "Website")
	addActiveMember(t, db, organizer, project.ID, member)

	// Insert bypassing the service pre-check, as a racing request would
	// after both passed the count. The partial unique index must reject it
	// and the translated conflict must map to ErrDuplicateMembership.
	dup := models.NewPendingMembership(project.ID, member.ID, models.MemberRoleMember, "token-x", time.Now())
	svc := NewMembershipService(db, nil)
	err := svc.createUnique(context.Background(), &dup)
	if !errors.Is(err, ErrDuplicateMembership) {
		t.Fatalf("expected ErrDuplicateMembership from index conflict, got %v", err)
	}

	raw := models.NewPendingMembership(project.ID, member.ID, models.MemberRoleMember, "token-y", time.Now())
	if err := db.Create(&raw).Error; err == nil {
		t.Fatal("raw duplicate insert succeeded: schema does not enforce uniqueness")
	}

	// an ended membership never blocks a new one
	now := time.Now()
	var current models.Membership
	if err := db.Where("project_id = ? AND user_id = ? AND ended_at IS NULL", project.ID, member.ID).
		First(&current).Error; err != nil {
		t.Fatalf("load membership: %v", err)
	}
	if err := db.Model(&current).Update("ended_at", &now).Error; err != nil {
		t.Fatalf("end membership: %v", err)
	}
	fresh := models.NewActiveMembership(project.ID, member.ID, models.MemberRoleMember, now)
	if err := db.Create(&fresh).Error; err != nil {
		t.Errorf("insert after ended: %v", err)
	}
}
