package services

import (
	"context"
	"errors"
	"testing"

	"github.com/teamtrack/backend/internal/models"
)

// Full collaboration flow: invite, accept, task work, assignment, comments,
// deletion, and access revocation.
func TestCollaborationLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceActor := Actor{ID: alice.ID}
	bobActor := Actor{ID: bob.ID}

	projSvc := NewProjectService(db)
	queue := &recordingQueue{}
	memSvc := NewMembershipService(db, queue)
	taskSvc := NewTaskService(db)
	assignSvc := NewAssignmentService(db)
	commentSvc := NewCommentService(db)

	project, err := projSvc.Create(ctx, aliceActor, &CreateProjectRequest{Name: "Launch", Summary: "Q4 launch prep"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	invite, err := memSvc.Invite(ctx, aliceActor, project.ID, &InviteMemberRequest{Email: bob.Email})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if len(queue.sent) != 1 {
		t.Fatalf("invite should notify, got %d notifications", len(queue.sent))
	}

	task, err := taskSvc.Create(ctx, aliceActor, project.ID, &CreateTaskRequest{Name: "Write announcement"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// pending bob cannot work yet
	if _, err := taskSvc.ChangeStatus(ctx, bobActor, project.ID, task.ID, models.TaskStatusInProgress); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("pending invitee changed status: %v", err)
	}
	if _, err := assignSvc.Assign(ctx, aliceActor, project.ID, task.ID, bob.ID); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("assigning pending invitee: expected ErrNotEligible, got %v", err)
	}

	if _, err := memSvc.Accept(ctx, bobActor, invite.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := assignSvc.Assign(ctx, aliceActor, project.ID, task.ID, bob.ID); err != nil {
		t.Fatalf("assign after accept: %v", err)
	}
	if _, err := taskSvc.ChangeStatus(ctx, bobActor, project.ID, task.ID, models.TaskStatusInProgress); err != nil {
		t.Fatalf("status change by active member: %v", err)
	}

	comment, err := commentSvc.Create(ctx, bobActor, task.ID, &CommentRequest{Content: "draft is up"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}

	if _, err := taskSvc.ChangeStatus(ctx, bobActor, project.ID, task.ID, models.TaskStatusDone); err != nil {
		t.Fatalf("finish task: %v", err)
	}

	if err := taskSvc.Delete(ctx, aliceActor, project.ID, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	// history survives the deletion
	if _, err := commentSvc.Get(ctx, comment.ID); err != nil {
		t.Fatalf("comment should survive task deletion: %v", err)
	}

	// bob leaves; his access ends, his comment stays
	if err := memSvc.End(ctx, bobActor, invite.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, err := projSvc.Get(ctx, bobActor, project.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ended member still sees project: %v", err)
	}
	if _, err := commentSvc.Get(ctx, comment.ID); err != nil {
		t.Fatalf("comment should survive membership end: %v", err)
	}
}
