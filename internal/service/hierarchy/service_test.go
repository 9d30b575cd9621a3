package hierarchy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/report"
	"github.com/cmlabs-hris/daily-report-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(set map[string]struct{}) []string {
	return setKeys(set)
}

// org:
//
//	ceo <- vp <- lead <- dev1
//	             lead <- dev2
//	vp  <- pm
func newOrg() *servicetest.Directory {
	return servicetest.NewDirectory().
		Add("ceo", "vp", "lead", "pm", "dev1", "dev2").
		Link("vp", "ceo").
		Link("lead", "vp").
		Link("pm", "vp").
		Link("dev1", "lead").
		Link("dev2", "lead")
}

func TestHierarchy_DirectSupervisors(t *testing.T) {
	ctx := context.Background()
	dir := newOrg().Add("coach").Link("dev1", "coach")
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	got, err := svc.DirectSupervisors(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, []string{"coach", "lead"}, keys(got))

	got, err = svc.DirectSupervisors(ctx, "ceo")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.DirectSupervisors(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHierarchy_DirectSupervisors_ExcludesInactive(t *testing.T) {
	ctx := context.Background()
	dir := newOrg().Add("coach").Link("dev1", "coach").Depart("coach", time.Now())
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	got, err := svc.DirectSupervisors(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, []string{"lead"}, keys(got))

	subs, err := svc.DirectSubordinates(ctx, "coach")
	require.NoError(t, err)
	assert.Empty(t, subs, "inactive supervisor must have no direct subordinates")
}

func TestHierarchy_DirectSubordinates_InverseOfSupervisors(t *testing.T) {
	ctx := context.Background()
	dir := newOrg()
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	for _, sup := range []string{"ceo", "vp", "lead", "pm", "dev1"} {
		subs, err := svc.DirectSubordinates(ctx, sup)
		require.NoError(t, err)
		for _, e := range []string{"ceo", "vp", "lead", "pm", "dev1", "dev2"} {
			sups, err := svc.DirectSupervisors(ctx, e)
			require.NoError(t, err)
			_, inSubs := subs[e]
			_, inSups := sups[sup]
			assert.Equal(t, inSups, inSubs, "supervisor=%s employee=%s", sup, e)
		}
	}
}

func TestHierarchy_TransitiveSubordinates(t *testing.T) {
	ctx := context.Background()
	svc := NewHierarchyService(newOrg(), employee.DefaultSupervisorPolicy)

	got, err := svc.TransitiveSubordinates(ctx, "ceo")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev1", "dev2", "lead", "pm", "vp"}, keys(got))

	got, err = svc.TransitiveSubordinates(ctx, "lead")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev1", "dev2"}, keys(got))

	got, err = svc.TransitiveSubordinates(ctx, "dev1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHierarchy_TransitiveSubordinates_Cycle(t *testing.T) {
	ctx := context.Background()
	dir := servicetest.NewDirectory().
		Add("a", "b", "c").
		Link("b", "a").
		Link("c", "b").
		Link("a", "c")
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	got, err := svc.TransitiveSubordinates(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, keys(got), "start node must not appear even when reachable")
}

func TestHierarchy_TransitiveSubordinates_SelfLoop(t *testing.T) {
	ctx := context.Background()
	dir := servicetest.NewDirectory().Add("a", "b").Link("a", "a").Link("b", "a")
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	got, err := svc.TransitiveSubordinates(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys(got))
}

func TestHierarchy_TransitiveSubordinates_Diamond(t *testing.T) {
	ctx := context.Background()
	dir := servicetest.NewDirectory().
		Add("top", "left", "right", "bottom").
		Link("left", "top").
		Link("right", "top").
		Link("bottom", "left").
		Link("bottom", "right")
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	got, err := svc.TransitiveSubordinates(ctx, "top")
	require.NoError(t, err)
	assert.Equal(t, []string{"bottom", "left", "right"}, keys(got))
}

func TestHierarchy_TransitiveSubordinates_InactiveMiddleStopsWalk(t *testing.T) {
	ctx := context.Background()
	dir := newOrg().Depart("lead", time.Now())
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	got, err := svc.TransitiveSubordinates(ctx, "vp")
	require.NoError(t, err)
	assert.Equal(t, []string{"lead", "pm"}, keys(got))
}

func TestHierarchy_TransitiveSubordinates_StorageError(t *testing.T) {
	dir := newOrg()
	dir.Err = errors.New("connection reset")
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	_, err := svc.TransitiveSubordinates(context.Background(), "ceo")
	require.Error(t, err)
	assert.ErrorIs(t, err, dir.Err)
}

func TestHierarchy_TransitiveSubordinates_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewHierarchyService(newOrg(), employee.DefaultSupervisorPolicy)

	_, err := svc.TransitiveSubordinates(ctx, "ceo")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHierarchy_CanReview(t *testing.T) {
	ctx := context.Background()
	svc := NewHierarchyService(newOrg(), employee.DefaultSupervisorPolicy)

	tests := []struct {
		name       string
		supervisor string
		employee   string
		want       bool
	}{
		{"direct supervisor", "lead", "dev1", true},
		{"skip level", "ceo", "dev2", true},
		{"sibling", "pm", "dev1", false},
		{"upward", "dev1", "lead", false},
		{"self without loop", "lead", "lead", false},
		{"unknown supervisor", "ghost", "dev1", false},
		{"empty ids", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CanReview(ctx, tt.supervisor, tt.employee)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHierarchy_CanReview_EdgeRemoved(t *testing.T) {
	ctx := context.Background()
	dir := newOrg()
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	ok, err := svc.CanReview(ctx, "lead", "dev1")
	require.NoError(t, err)
	require.True(t, ok)

	dir.Unlink("dev1", "lead")

	ok, err = svc.CanReview(ctx, "lead", "dev1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanReview(ctx, "ceo", "dev1")
	require.NoError(t, err)
	assert.False(t, ok, "dev1 is no longer below anyone")
}

func TestHierarchy_CanReview_InCycle(t *testing.T) {
	ctx := context.Background()
	dir := servicetest.NewDirectory().Add("a", "b").Link("a", "b").Link("b", "a")
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	ok, err := svc.CanReview(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanReview(ctx, "b", "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHierarchy_SupervisorStatus_HasSubordinatesPolicy(t *testing.T) {
	ctx := context.Background()
	svc := NewHierarchyService(newOrg(), employee.SupervisorPolicy{})

	status, err := svc.SupervisorStatus(ctx, "lead")
	require.NoError(t, err)
	assert.True(t, status.HasSubordinates)
	assert.True(t, status.IsSupervisor)

	status, err = svc.SupervisorStatus(ctx, "dev1")
	require.NoError(t, err)
	assert.False(t, status.HasSubordinates)
	assert.False(t, status.IsSupervisor)

	_, err = svc.SupervisorStatus(ctx, "")
	assert.ErrorIs(t, err, employee.ErrEmployeeIDRequired)
}

func TestHierarchy_SupervisorStatus_AdminRankPolicy(t *testing.T) {
	ctx := context.Background()
	rank := func(n int) *int { return &n }
	dir := newOrg().
		Put(employee.Employee{ID: "hr", FullName: "hr", AdminRank: rank(3)}).
		Put(employee.Employee{ID: "intern", FullName: "intern", AdminRank: rank(1)})
	svc := NewHierarchyService(dir, employee.SupervisorPolicy{Kind: employee.PolicyAdminRank, MinAdminRank: 2})

	status, err := svc.SupervisorStatus(ctx, "hr")
	require.NoError(t, err)
	assert.False(t, status.HasSubordinates)
	assert.True(t, status.IsSupervisor)

	status, err = svc.SupervisorStatus(ctx, "intern")
	require.NoError(t, err)
	assert.False(t, status.IsSupervisor)

	status, err = svc.SupervisorStatus(ctx, "lead")
	require.NoError(t, err)
	assert.True(t, status.HasSubordinates)
	assert.False(t, status.IsSupervisor, "no admin rank")

	_, err = svc.SupervisorStatus(ctx, "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestHierarchy_ListSubordinates(t *testing.T) {
	ctx := context.Background()
	svc := NewHierarchyService(newOrg(), employee.DefaultSupervisorPolicy)

	direct, err := svc.ListSubordinates(ctx, "vp", "")
	require.NoError(t, err)
	assert.Equal(t, employee.ScopeDirect, direct.Scope)
	require.Len(t, direct.Subordinates, 2)
	assert.Equal(t, "lead", direct.Subordinates[0].ID)
	assert.Equal(t, "pm", direct.Subordinates[1].ID)
	assert.True(t, direct.Subordinates[0].IsActive)

	all, err := svc.ListSubordinates(ctx, "vp", employee.ScopeAll)
	require.NoError(t, err)
	assert.Len(t, all.Subordinates, 4)

	none, err := svc.ListSubordinates(ctx, "dev1", employee.ScopeAll)
	require.NoError(t, err)
	assert.NotNil(t, none.Subordinates)
	assert.Empty(t, none.Subordinates)

	_, err = svc.ListSubordinates(ctx, "vp", "sideways")
	assert.ErrorIs(t, err, employee.ErrInvalidScope)
}

func submitReport(t *testing.T, reports *servicetest.Reports, employeeID string, day int) report.DailyReport {
	t.Helper()
	rep, _, err := reports.Upsert(context.Background(), report.DailyReport{
		EmployeeID: employeeID,
		ReportDate: time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return rep
}

func TestHierarchy_ListSubordinates_PendingReportsCount(t *testing.T) {
	ctx := context.Background()
	reports := servicetest.NewReports()
	dir := newOrg()
	dir.Reports = reports
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	submitReport(t, reports, "dev1", 2)
	submitReport(t, reports, "dev1", 3)
	reviewed := submitReport(t, reports, "dev1", 4)
	require.NoError(t, reports.UpdateAggregate(ctx, reviewed.ID, nil, report.StatusReviewed))
	submitReport(t, reports, "dev2", 2)

	resp, err := svc.ListSubordinates(ctx, "lead", employee.ScopeDirect)
	require.NoError(t, err)
	require.Len(t, resp.Subordinates, 2)
	assert.Equal(t, "dev1", resp.Subordinates[0].ID)
	assert.Equal(t, 2, resp.Subordinates[0].PendingReportsCount)
	assert.Equal(t, 1, resp.Subordinates[1].PendingReportsCount)

	resp, err = svc.ListSubordinates(ctx, "vp", employee.ScopeDirect)
	require.NoError(t, err)
	for _, sub := range resp.Subordinates {
		assert.Zero(t, sub.PendingReportsCount, sub.ID)
	}
}

func TestHierarchy_GetSubordinate(t *testing.T) {
	ctx := context.Background()
	reports := servicetest.NewReports()
	dir := newOrg().Link("dev1", "pm")
	dir.Reports = reports
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)
	submitReport(t, reports, "dev1", 2)

	for _, viewer := range []string{"lead", "vp", "ceo", "pm", "dev1"} {
		detail, err := svc.GetSubordinate(ctx, viewer, "dev1")
		require.NoError(t, err, viewer)
		assert.Equal(t, "dev1", detail.Employee.ID)
		assert.Equal(t, 1, detail.Employee.PendingReportsCount)
		require.Len(t, detail.Supervisors, 2)
		assert.Equal(t, "lead", detail.Supervisors[0].ID)
		assert.Equal(t, "pm", detail.Supervisors[1].ID)
	}

	detail, err := svc.GetSubordinate(ctx, "ceo", "ceo")
	require.NoError(t, err)
	assert.NotNil(t, detail.Supervisors)
	assert.Empty(t, detail.Supervisors)
}

func TestHierarchy_GetSubordinate_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := NewHierarchyService(newOrg(), employee.DefaultSupervisorPolicy)

	_, err := svc.GetSubordinate(ctx, "dev2", "dev1")
	assert.ErrorIs(t, err, employee.ErrNotSubordinate, "peers cannot look")

	_, err = svc.GetSubordinate(ctx, "dev1", "lead")
	assert.ErrorIs(t, err, employee.ErrNotSubordinate, "reports cannot look upward")

	_, err = svc.GetSubordinate(ctx, "lead", "ghost")
	assert.ErrorIs(t, err, employee.ErrNotSubordinate)

	_, err = svc.GetSubordinate(ctx, "", "dev1")
	assert.ErrorIs(t, err, employee.ErrSupervisorIDRequired)

	_, err = svc.GetSubordinate(ctx, "lead", "")
	assert.ErrorIs(t, err, employee.ErrEmployeeIDRequired)
}

func TestHierarchy_GetSubordinate_StorageError(t *testing.T) {
	dir := newOrg()
	dir.Err = errors.New("directory offline")
	svc := NewHierarchyService(dir, employee.DefaultSupervisorPolicy)

	_, err := svc.GetSubordinate(context.Background(), "lead", "dev1")
	assert.ErrorContains(t, err, "directory offline")
}
