package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-tours/voyage/internal/domain"
)

type fakeCommentRepo struct {
	comments []domain.Comment
}

func (f *fakeCommentRepo) Create(_ context.Context, comment domain.Comment) (domain.Comment, error) {
	comment.ID = uint(len(f.comments) + 1)
	comment.Username = "alice"
	comment.CreatedAt = time.Date(2024, 5, 1, 12, 0, int(comment.ID), 0, time.UTC)
	f.comments = append(f.comments, comment)

	return comment, nil
}

func (f *fakeCommentRepo) FindByTour(_ context.Context, tourID uint) ([]domain.Comment, error) {
	var found []domain.Comment
	for i := len(f.comments) - 1; i >= 0; i-- {
		if f.comments[i].TourID == tourID {
			found = append(found, f.comments[i])
		}
	}

	return found, nil
}

type recordingPublisher struct {
	published []domain.Comment
}

func (p *recordingPublisher) Publish(comment domain.Comment) {
	p.published = append(p.published, comment)
}

func TestCommentService_AddComment(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCommentRepo{}
	publisher := &recordingPublisher{}
	svc := NewCommentService(repo, newFakeTours(tourA), publisher)

	created, err := svc.AddComment(ctx, domain.Comment{TourID: tourA.ID, UserID: testUserID, Text: "Great trip"})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, created, publisher.published[0])

	_, err = svc.AddComment(ctx, domain.Comment{TourID: 404, UserID: testUserID, Text: "?"})
	assert.ErrorIs(t, err, ErrTourNotFound)
	assert.Len(t, publisher.published, 1)

	_, err = svc.AddComment(ctx, domain.Comment{TourID: tourA.ID, UserID: testUserID, Text: "Second"})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, tourA.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Second", comments[0].Text)
}

func TestCommentService_NilPublisher(t *testing.T) {
	svc := NewCommentService(&fakeCommentRepo{}, newFakeTours(tourA), nil)

	_, err := svc.AddComment(context.Background(), domain.Comment{TourID: tourA.ID, Text: "ok"})
	assert.NoError(t, err)
}
