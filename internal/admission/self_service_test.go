package admission

import (
	"context"
	"strings"
	"testing"

	"team-recruit/internal/global/errs"
	"team-recruit/internal/model"
	"team-recruit/test"
	"team-recruit/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	c, db, _ := newController(t)
	p := test.CreateProject(t, db, "pw")
	pending := test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantPending)
	approved := test.CreateApplicant(t, db, p.ID, "EE", model.ApplicantApproved)
	ctx := context.Background()

	_, err := c.UpdateProfile(ctx, p.ID, pending.ID, "wrong", ProfileInput{Name: ptr("李四")})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	a, err := c.UpdateProfile(ctx, p.ID, pending.ID, "applicant", ProfileInput{
		Name:        ptr("李四"),
		Major:       ptr("ME"),
		NewPassword: ptr("changed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "李四", a.Name)
	assert.Equal(t, "ME", a.Major)

	var stored model.Applicant
	require.NoError(t, db.First(&stored, pending.ID).Error)
	assert.Equal(t, "ME", stored.Major)
	assert.True(t, tools.PasswordCompare("changed", stored.PasswordHash))

	// 已通过的申请改专业会绕过专业上限
	_, err = c.UpdateProfile(ctx, p.ID, approved.ID, "applicant", ProfileInput{Major: ptr("CS")})
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	a, err = c.UpdateProfile(ctx, p.ID, approved.ID, "applicant", ProfileInput{Introduction: ptr("更新")})
	require.NoError(t, err)
	assert.Equal(t, "更新", a.Introduction)
}

func TestUpdateProfilePasswordTooLong(t *testing.T) {
	c, db, _ := newController(t)
	p := test.CreateProject(t, db, "pw")
	a := test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantPending)

	_, err := c.UpdateProfile(context.Background(), p.ID, a.ID, "applicant", ProfileInput{NewPassword: ptr(strings.Repeat("x", 80))})
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	var stored model.Applicant
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.True(t, tools.PasswordCompare("applicant", stored.PasswordHash))
}

func TestWithdraw(t *testing.T) {
	c, db, _ := newController(t)
	p := test.CreateProject(t, db, "pw")
	a := test.CreateApplicant(t, db, p.ID, "CS", model.ApplicantApproved)
	ctx := context.Background()

	assert.ErrorIs(t, c.Withdraw(ctx, p.ID, a.ID, "wrong"), errs.ErrUnauthorized)
	require.NoError(t, c.Withdraw(ctx, p.ID, a.ID, "applicant"))
	assert.EqualValues(t, 0, test.CountApproved(t, db, p.ID))
	assert.ErrorIs(t, c.Withdraw(ctx, p.ID, a.ID, "applicant"), errs.ErrNotFound)

	list, err := c.List(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
