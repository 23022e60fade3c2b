package services

import (
	"context"
	"testing"
)

func TestPolicy_MembershipLevels(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	invitee := createUser(t, db, "bob")
	outsider := createUser(t, db, "mallory")
	project := createProject(t, db, organizer, "Website")
	invitePending(t, db, organizer, project.ID, invitee)

	policy := NewPolicyService(db)
	ctx := context.Background()

	// pending invitees are members but not active members
	if ok, _ := policy.IsMember(ctx, project.ID, invitee.ID); !ok {
		t.Error("pending invitee should count as member")
	}
	if ok, _ := policy.IsActiveMember(ctx, project.ID, invitee.ID); ok {
		t.Error("pending invitee should not count as active member")
	}

	if ok, _ := policy.IsMember(ctx, project.ID, outsider.ID); ok {
		t.Error("outsider should not count as member")
	}
	if ok, _ := policy.IsActiveMember(ctx, project.ID, organizer.ID); !ok {
		t.Error("organizer should count as active member")
	}
}

func TestPolicy_OrganizerCapability(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	coOrganizer := createUser(t, db, "bob")
	member := createUser(t, db, "carol")
	project := createProject(t, db, organizer, "Website")

	msvc := NewMembershipService(db, nil)
	ctx := context.Background()
	if _, err := msvc.Add(ctx, Actor{ID: organizer.ID}, project.ID, &AddMemberRequest{UserID: coOrganizer.ID, Role: "organizer"}); err != nil {
		t.Fatalf("add co-organizer: %v", err)
	}
	addActiveMember(t, db, organizer, project.ID, member)

	policy := NewPolicyService(db)
	projSvc := NewProjectService(db)
	loaded, err := projSvc.Get(ctx, Actor{ID: organizer.ID}, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}

	if ok, _ := policy.IsOrganizer(ctx, loaded, organizer.ID); !ok {
		t.Error("creator should be organizer")
	}
	if ok, _ := policy.IsOrganizer(ctx, loaded, coOrganizer.ID); !ok {
		t.Error("organizer-role member should be organizer")
	}
	if ok, _ := policy.IsOrganizer(ctx, loaded, member.ID); ok {
		t.Error("plain member should not be organizer")
	}
}

func TestPolicy_AdminGetsNoOrganizerBypass(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	admin := createUser(t, db, "root")
	project := createProject(t, db, organizer, "Website")

	policy := NewPolicyService(db)
	projSvc := NewProjectService(db)
	ctx := context.Background()
	loaded, err := projSvc.Get(ctx, Actor{ID: organizer.ID}, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}

	if err := policy.RequireOrganizer(ctx, loaded, Actor{ID: admin.ID, Admin: true}); err == nil {
		t.Error("global admin must not pass organizer checks")
	}
}

func TestPolicy_EndedMembershipLosesAccess(t *testing.T) {
	db := newTestDB(t)
	organizer := createUser(t, db, "alice")
	member := createUser(t, db, "bob")
	project := createProject(t, db, organizer, "Website")
	m := addActiveMember(t, db, organizer, project.ID, member)

	msvc := NewMembershipService(db, nil)
	ctx := context.Background()
	if err := msvc.End(ctx, Actor{ID: member.ID}, m.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	policy := NewPolicyService(db)
	if ok, _ := policy.IsMember(ctx, project.ID, member.ID); ok {
		t.Error("ended membership should not grant membership")
	}
	if ok, _ := policy.IsActiveMember(ctx, project.ID, member.ID); ok {
		t.Error("ended membership should not grant active membership")
	}
}
