package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"team-recruit/internal/global/errs"
	"team-recruit/internal/model"
	"team-recruit/internal/repository"
	"team-recruit/test"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryable(t *testing.T) {
	require.True(t, repository.Retryable(&mysql.MySQLError{Number: 1213}))
	require.True(t, repository.Retryable(&mysql.MySQLError{Number: 1205}))
	require.False(t, repository.Retryable(&mysql.MySQLError{Number: 1062}))
	require.True(t, repository.Retryable(&pgconn.PgError{Code: "40001"}))
	require.True(t, repository.Retryable(&pgconn.PgError{Code: "40P01"}))
	require.False(t, repository.Retryable(&pgconn.PgError{Code: "23505"}))
	require.False(t, repository.Retryable(errors.New("other")))
}

func TestWithRetry(t *testing.T) {
	calls := 0
	err := repository.WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &mysql.MySQLError{Number: 1213}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	calls = 0
	err = repository.WithRetry(context.Background(), func() error {
		calls++
		return errs.MaxApplicants("")
	})
	require.ErrorIs(t, err, errs.ErrMaxApplicants)
	require.Equal(t, 1, calls)
}

func TestProjectRepository(t *testing.T) {
	db := test.NewDB(t)
	repos := repository.New(db)
	ctx := context.Background()
	p := test.CreateProject(t, db, "pw")

	got, err := repos.Projects.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"嵌入式", "视觉"}, got.Keywords)

	hash, err := repos.Projects.PasswordHash(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.PasswordHash, hash)

	_, err = repos.Projects.PasswordHash(ctx, p.ID+100)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, repos.Projects.IncrementViews(ctx, p.ID))
	require.NoError(t, repos.Projects.IncrementViews(ctx, p.ID))
	got, err = repos.Projects.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, got.Views)

	got.Status = model.ProjectClosed
	got.Summary = ""
	require.NoError(t, repos.Projects.Update(ctx, got))
	got, err = repos.Projects.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, model.ProjectClosed, got.Status)
	require.Empty(t, got.Summary)
}

func TestAppendAttachmentConcurrent(t *testing.T) {
	db := test.NewDB(t)
	repos := repository.New(db)
	ctx := context.Background()
	p := test.CreateProject(t, db, "pw")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repos.Projects.AppendAttachment(ctx, p.ID, fmt.Sprintf("https://cdn.example.com/%d.pdf", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repos.Projects.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Attachments, 8)
	require.Equal(t, "智能车队", got.Name)

	_, err = repos.Projects.AppendAttachment(ctx, p.ID+100, "https://cdn.example.com/x.pdf")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProjectList(t *testing.T) {
	db := test.NewDB(t)
	repos := repository.New(db)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		test.CreateProject(t, db, "pw")
	}
	closed := test.CreateProject(t, db, "pw")
	closed.Status = model.ProjectClosed
	closed.Name = "天文社"
	require.NoError(t, repos.Projects.Update(ctx, closed))

	list, total, err := repos.Projects.List(ctx, repository.ProjectFilter{Status: model.ProjectRecruiting, PageSize: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, list, 2)

	list, total, err = repos.Projects.List(ctx, repository.ProjectFilter{Keyword: "天文"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, closed.ID, list[0].ID)
}

func TestDeleteCascade(t *testing.T) {
	db := test.NewDB(t)
	repos := repository.New(db)
	ctx := context.Background()
	p := test.CreateProject(t, db, "pw")
	other := test.CreateProject(t, db, "pw")
	var ids []uint
	for i := 0; i < 3; i++ {
		ids = append(ids, test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantPending).ID)
	}
	kept := test.CreateApplicant(t, db, other.ID, "CS", model.ApplicantPending)

	require.NoError(t, repos.Projects.DeleteCascade(ctx, p.ID))

	_, err := repos.Projects.FindByID(ctx, p.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	for _, id := range ids {
		_, err := repos.Applicants.FindByID(ctx, id)
		require.ErrorIs(t, err, errs.ErrNotFound)
	}
	_, err = repos.Applicants.FindByID(ctx, kept.ID)
	require.NoError(t, err)

	require.ErrorIs(t, repos.Projects.DeleteCascade(ctx, p.ID), errs.ErrNotFound)
}

func TestCounts(t *testing.T) {
	db := test.NewDB(t)
	repos := repository.New(db)
	ctx := context.Background()
	p := test.CreateProject(t, db, "pw")
	test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantApproved)
	test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantApproved)
	test.CreateApplicant(t, db, p.ID, "EE", model.ApplicantApproved)
	test.CreateApplicant(t, db, p.ID, "EE", model.ApplicantPending)
	test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantRejected)

	total, err := repos.Applicants.CountApproved(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	cs, err := repos.Applicants.CountApprovedByMajor(ctx, p.ID, "CS")
	require.NoError(t, err)
	require.EqualValues(t, 2, cs)

	counts, err := repos.Applicants.ApprovedMajorCounts(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"CS": 2, "EE": 1}, counts)
}

func TestUpdateStatusIsConditional(t *testing.T) {
	db := test.NewDB(t)
	repos := repository.New(db)
	ctx := context.Background()
	p := test.CreateProject(t, db, "pw")
	a := test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantPending)

	ok, err := repos.Applicants.UpdateStatus(ctx, a.ID, model.ApplicantPending, model.ApplicantRejected)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repos.Applicants.UpdateStatus(ctx, a.ID, model.ApplicantPending, model.ApplicantRejected)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestApproveWithinCapacity(t *testing.T) {
	db := test.NewDB(t)
	repos := repository.New(db)
	ctx := context.Background()
	p := test.CreateProject(t, db, "pw")
	test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantApproved)
	second := test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantPending)
	third := test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantPending)

	a, err := repos.Applicants.ApproveWithinCapacity(ctx, p.ID, second.ID, repository.DefaultLimits)
	require.NoError(t, err)
	require.Equal(t, model.ApplicantApproved, a.Status)

	_, err = repos.Applicants.ApproveWithinCapacity(ctx, p.ID, third.ID, repository.DefaultLimits)
	require.ErrorIs(t, err, errs.ErrMaxApplicants)

	_, err = repos.Applicants.ApproveWithinCapacity(ctx, p.ID, second.ID, repository.DefaultLimits)
	require.ErrorIs(t, err, errs.ErrBadRequest)

	other := test.CreateProject(t, db, "pw")
	_, err = repos.Applicants.ApproveWithinCapacity(ctx, other.ID, third.ID, repository.DefaultLimits)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.EqualValues(t, 2, test.CountApproved(t, db, p.ID))
}

func TestUpdateProfileRequiresSameStatus(t *testing.T) {
	db := test.NewDB(t)
	repos := repository.New(db)
	ctx := context.Background()
	p := test.CreateProject(t, db, "pw")
	a := test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantPending)

	a.Major = "EE"
	require.NoError(t, repos.Applicants.UpdateProfile(ctx, a))

	stale := *a
	stale.Status = model.ApplicantApproved
	require.ErrorIs(t, repos.Applicants.UpdateProfile(ctx, &stale), errs.ErrBadRequest)
}
