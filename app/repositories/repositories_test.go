package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/testkit"
)

type fixture struct {
	users    *repositories.UserRepository
	clients  *repositories.ClientRepository
	projects *repositories.ProjectRepository
	tasks    *repositories.TaskRepository
	faqs     *repositories.FAQRepository
	files    *repositories.FileRepository
}

func newFixture(t *testing.T) fixture {
	store := testkit.Store(t)
	return fixture{
		users:    repositories.NewUserRepository(store),
		clients:  repositories.NewClientRepository(store),
		projects: repositories.NewProjectRepository(store),
		tasks:    repositories.NewTaskRepository(store),
		faqs:     repositories.NewFAQRepository(store),
		files:    repositories.NewFileRepository(store),
	}
}

func (f fixture) user(t *testing.T, name, email, role string) int64 {
	t.Helper()
	id, err := f.users.Create(context.Background(), model.Record{
		"name": name, "email": email, "passwordHash": "x", "role": role,
	})
	require.NoError(t, err)
	return id
}

func (f fixture) project(t *testing.T, clientID any, name, status string) int64 {
	t.Helper()
	id, err := f.projects.Create(context.Background(), model.Record{
		"clientId": clientID, "projectName": name, "description": name + " work", "status": status,
	})
	require.NoError(t, err)
	return id
}

func (f fixture) task(t *testing.T, projectID int64, workerID any, status string) int64 {
	t.Helper()
	rec := model.Record{"projectId": projectID, "description": "do it", "workerId": workerID}
	if status != "" {
		rec["status"] = status
	}
	id, err := f.tasks.Create(context.Background(), rec)
	require.NoError(t, err)
	return id
}

func TestUserRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adminID := f.user(t, "Zed", "zed@example.com", models.RoleAdmin)
	f.user(t, "Ana", "ana@example.com", models.RoleWorker)
	f.user(t, "Cleo", "cleo@example.com", models.RoleClient)

	full, err := f.users.FindByEmail(ctx, "zed@example.com")
	require.NoError(t, err)
	assert.Equal(t, "x", full["passwordHash"])
	assert.Equal(t, models.RoleAdmin, full["role"])

	profile, err := f.users.FindByID(ctx, adminID)
	require.NoError(t, err)
	assert.NotContains(t, profile, "passwordHash")
	assert.Equal(t, adminID, profile["userId"])

	_, err = f.users.FindByID(ctx, 999)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)

	taken, err := f.users.EmailTaken(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	staff, err := f.users.ByRoles(ctx, models.RoleWorker, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, "Ana", staff[0]["name"])
	assert.Equal(t, "Zed", staff[1]["name"])

	n, err := f.users.Update(ctx, adminID, model.Record{"name": "Zed Admin"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = f.users.Update(ctx, 999, model.Record{"name": "ghost"})
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, f.users.Delete(ctx, adminID))
	all, err := f.users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLegacyNumericRoleReadsAsName(t *testing.T) {
	store := testkit.Store(t)
	ctx := context.Background()

	_, err := store.RunStatement(ctx,
		"INSERT INTO USERS (name, email, password_hash, role) VALUES ('Old', 'old@example.com', 'x', '2')")
	require.NoError(t, err)

	rec, err := repositories.NewUserRepository(store).FindByEmail(ctx, "old@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleWorker, rec["role"])
}

func TestClientRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uid := f.user(t, "Cleo", "cleo@example.com", models.RoleClient)
	cid, err := f.clients.Create(ctx, model.Record{"userId": uid, "contactInfo": "555-0101", "plan": models.PlanPremium})
	require.NoError(t, err)

	all, err := f.clients.AllWithUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Cleo", all[0]["name"])
	assert.Equal(t, models.RoleClient, all[0]["role"])
	assert.Equal(t, models.PlanPremium, all[0]["plan"])

	byUser, err := f.clients.FindByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, cid, byUser["clientId"])

	ok, err := f.clients.Exists(ctx, cid)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.clients.Delete(ctx, cid))
	_, err = f.clients.FindByID(ctx, cid)
	assert.ErrorIs(t, err, models.ErrClientNotFound)
}

func TestProjectListNestsClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uid := f.user(t, "Cleo", "cleo@example.com", models.RoleClient)
	cid, err := f.clients.Create(ctx, model.Record{"userId": uid, "contactInfo": "555-0101"})
	require.NoError(t, err)

	f.project(t, cid, "Website", models.StatusPending)
	f.project(t, nil, "Orphan", models.StatusCompleted)

	all, err := f.projects.List(ctx, repositories.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	byName := map[string]model.Record{}
	for _, p := range all {
		byName[p["projectName"].(string)] = p
		assert.NotContains(t, p, "clientName")
		assert.NotContains(t, p, "contactInfo")
	}
	client, ok := byName["Website"]["client"].(model.Record)
	require.True(t, ok)
	assert.Equal(t, "Cleo", client["name"])
	assert.Equal(t, "555-0101", client["contactInfo"])
	assert.Nil(t, byName["Orphan"]["client"])

	search, err := f.projects.List(ctx, repositories.ProjectFilter{Search: "cleo"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Website", search[0]["projectName"])

	done, err := f.projects.List(ctx, repositories.ProjectFilter{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, done, 1)

	mine, err := f.projects.ByClientUser(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestProjectStatsAndProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.projects.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Counts{}, empty)

	pid := f.project(t, nil, "Website", models.StatusInProgress)
	f.project(t, nil, "App", models.StatusPending)

	stats, err := f.projects.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Counts{Total: 2, Pending: 1, InProgress: 1}, stats)

	name, err := f.projects.Name(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "Website", name)

	_, err = f.projects.Name(ctx, 999)
	assert.ErrorIs(t, err, models.ErrProjectNotFound)

	f.task(t, pid, nil, models.StatusPending)
	f.task(t, pid, nil, models.StatusCompleted)
	f.task(t, pid, nil, models.StatusInProgress)

	counts, err := f.projects.TaskCounts(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, models.Counts{Total: 3, Completed: 1, Pending: 1, InProgress: 1}, counts)

	list, err := f.projects.TaskChecklist(ctx, pid)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, models.StatusCompleted, list[0]["status"])
	assert.Equal(t, models.StatusInProgress, list[1]["status"])
	assert.Equal(t, models.StatusPending, list[2]["status"])
}

func TestTaskCreateAppliesColumnDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pid := f.project(t, nil, "Website", models.StatusPending)
	id, err := f.tasks.Create(ctx, model.Record{"projectId": pid, "description": "wire up", "workerId": nil})
	require.NoError(t, err)

	task, err := f.tasks.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, task, "workerId")
	assert.Nil(t, task["workerId"])
	assert.Equal(t, models.StatusPending, task["status"])
	assert.Equal(t, pid, task["projectId"])
	assert.IsType(t, "", task["createdAt"])
}

func TestTaskQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	worker := f.user(t, "Ana", "ana@example.com", models.RoleWorker)
	p1 := f.project(t, nil, "Website", models.StatusPending)
	p2 := f.project(t, nil, "App", models.StatusPending)

	t1 := f.task(t, p1, worker, models.StatusCompleted)
	f.task(t, p1, worker, models.StatusPending)
	f.task(t, p2, nil, models.StatusPending)

	byWorker, err := f.tasks.List(ctx, repositories.TaskFilter{WorkerID: worker})
	require.NoError(t, err)
	assert.Len(t, byWorker, 2)

	pending, err := f.tasks.List(ctx, repositories.TaskFilter{ProjectID: p1, Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	detail, err := f.tasks.DetailedByID(ctx, t1)
	require.NoError(t, err)
	assert.Equal(t, "Website", detail["projectName"])
	assert.Equal(t, "Ana", detail["workerName"])
	assert.Equal(t, "ana@example.com", detail["workerEmail"])

	detailed, err := f.tasks.Detailed(ctx, repositories.TaskFilter{ProjectID: p2})
	require.NoError(t, err)
	require.Len(t, detailed, 1)
	assert.Nil(t, detailed[0]["workerName"])

	now := time.Now()
	recent, err := f.tasks.CreatedBetween(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	mine, err := f.projects.ByWorker(ctx, worker)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p1, mine[0]["projectId"])

	wt, err := f.projects.WorkerTasks(ctx, p1, worker)
	require.NoError(t, err)
	assert.Len(t, wt, 2)

	owned, err := f.tasks.AssignedTo(ctx, t1, worker)
	require.NoError(t, err)
	assert.True(t, owned)

	stats, err := f.tasks.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 1, stats.Completed)
	assert.EqualValues(t, 2, stats.TotalProjects)
	assert.EqualValues(t, 1, stats.TotalWorkers)

	perf, err := f.tasks.WorkerPerformance(ctx, worker)
	require.NoError(t, err)
	assert.Equal(t, repositories.Performance{
		WorkerID: worker, TotalTasks: 2, CompletedTasks: 1, PendingTasks: 1, CompletionRate: 50,
	}, perf)

	idle, err := f.tasks.WorkerPerformance(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, repositories.Performance{WorkerID: 999}, idle)

	require.NoError(t, f.tasks.Delete(ctx, t1))
	ok, err := f.tasks.Exists(ctx, t1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFAQAndFileRepositories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.faqs.Create(ctx, model.Record{"question": "How do I reset my password?", "answer": "Ask an admin."})
	require.NoError(t, err)
	_, err = f.faqs.Create(ctx, model.Record{"question": "Where are files kept?", "answer": "In project storage."})
	require.NoError(t, err)

	hits, err := f.faqs.Search(ctx, "password")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0]["faqId"])

	_, err = f.faqs.Update(ctx, id, model.Record{"answer": "Use the reset link."})
	require.NoError(t, err)
	faq, err := f.faqs.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Use the reset link.", faq["answer"])

	pid := f.project(t, nil, "Website", models.StatusPending)
	fid, err := f.files.Create(ctx, model.Record{
		"fileName": "a.pdf", "originalName": "brief.pdf", "filePath": "projects/1/a.pdf",
		"fileSize": 42, "mimeType": "application/pdf", "projectId": pid, "uploadedAt": time.Now(),
	})
	require.NoError(t, err)

	files, err := f.files.ByProject(ctx, pid)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.EqualValues(t, 42, files[0]["fileSize"])
	assert.Equal(t, "brief.pdf", files[0]["originalName"])

	require.NoError(t, f.files.Delete(ctx, fid))
	_, err = f.files.FindByID(ctx, fid)
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}
