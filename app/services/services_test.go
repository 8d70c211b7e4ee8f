package services_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/app/services"
	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/pkg/auth"
	"github.com/projectdesk/projectdesk/pkg/event"
	"github.com/projectdesk/projectdesk/pkg/middleware"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/storage"
	"github.com/projectdesk/projectdesk/pkg/testkit"
	"github.com/projectdesk/projectdesk/pkg/workerpool"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Fire(name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.Event{Name: name, Payload: payload})
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

type env struct {
	signer   *auth.Signer
	events   *recorder
	disk     *storage.LocalDisk
	users    *services.UserService
	clients  *services.ClientService
	projects *services.ProjectService
	tasks    *services.TaskService
	faqs     *services.FAQService
	files    *services.FileService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := testkit.Store(t)

	userRepo := repositories.NewUserRepository(store)
	clientRepo := repositories.NewClientRepository(store)
	projectRepo := repositories.NewProjectRepository(store)
	taskRepo := repositories.NewTaskRepository(store)

	pool := workerpool.New(4)
	t.Cleanup(pool.Shutdown)

	disk, err := storage.NewLocalDisk(t.TempDir(), "http://localhost/storage")
	require.NoError(t, err)

	e := &env{
		signer: auth.NewSigner(config.JWTConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "projectdesk"}),
		events: &recorder{},
		disk:   disk,
	}
	e.users = services.NewUserService(userRepo, e.signer)
	e.clients = services.NewClientService(clientRepo, e.users)
	e.tasks = services.NewTaskService(taskRepo, projectRepo, userRepo, pool, e.events, 5*time.Second)
	e.projects = services.NewProjectService(projectRepo, clientRepo, e.tasks, 5*time.Second)
	e.faqs = services.NewFAQService(repositories.NewFAQRepository(store), time.Minute)
	e.files = services.NewFileService(repositories.NewFileRepository(store), projectRepo, disk, 1<<20)
	return e
}

func (e *env) register(t *testing.T, name, email, role string) int64 {
	t.Helper()
	u, err := e.users.Register(context.Background(), services.RegisterInput{
		Name: name, Email: email, Password: "secret123", Role: role,
	})
	require.NoError(t, err)
	return models.Int(u["userId"])
}

func (e *env) newProject(t *testing.T, name string) int64 {
	t.Helper()
	p, err := e.projects.Create(context.Background(), services.CreateProjectInput{ProjectName: name})
	require.NoError(t, err)
	return models.Int(p["projectId"])
}

func ptr[T any](v T) *T { return &v }

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, services.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleWorker, u["role"])
	assert.NotContains(t, u, "passwordHash")

	_, err = e.users.Register(ctx, services.RegisterInput{Name: "Ana 2", Email: "ana@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
	assert.ErrorIs(t, err, models.ErrConflict)

	res, err := e.users.Login(ctx, services.LoginInput{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotContains(t, res.User, "passwordHash")

	claims, err := e.signer.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, models.RoleWorker, claims.Role)

	_, err = e.users.Login(ctx, services.LoginInput{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = e.users.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestUserUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id := e.register(t, "Ana", "ana@example.com", models.RoleWorker)
	e.register(t, "Bo", "bo@example.com", models.RoleWorker)

	u, err := e.users.Update(ctx, id, model.Record{"name": "Ana B", "password": "newsecret", "userId": 99})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", u["name"])
	assert.Equal(t, id, u["userId"])

	_, err = e.users.Login(ctx, services.LoginInput{Email: "ana@example.com", Password: "newsecret"})
	assert.NoError(t, err)

	_, err = e.users.Update(ctx, id, model.Record{"email": "bo@example.com"})
	assert.ErrorIs(t, err, models.ErrEmailTaken)

	_, err = e.users.Update(ctx, id, model.Record{"email": "ana@example.com"})
	assert.NoError(t, err)

	_, err = e.users.Update(ctx, 999, model.Record{"name": "ghost"})
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = e.users.Update(ctx, id, model.Record{"unknown": 1})
	assert.ErrorIs(t, err, models.ErrInvalid)
}

func TestClientRegisterAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out, err := e.clients.Register(ctx, services.RegisterClientInput{
		Name: "Cleo", Email: "cleo@example.com", Password: "secret123", ContactInfo: "555-0101",
	})
	require.NoError(t, err)

	user := out["user"].(model.Record)
	client := out["client"].(model.Record)
	assert.Equal(t, models.RoleClient, user["role"])
	assert.Equal(t, models.PlanGold, client["plan"])
	assert.Equal(t, user["userId"], client["userId"])

	_, err = e.clients.Register(ctx, services.RegisterClientInput{
		Name: "Cleo", Email: "cleo@example.com", Password: "secret123", ContactInfo: "x",
	})
	assert.ErrorIs(t, err, models.ErrEmailTaken)

	cid := models.Int(client["clientId"])
	updated, err := e.clients.Update(ctx, cid, model.Record{"plan": models.PlanPremium})
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, updated["plan"])

	_, err = e.clients.Update(ctx, 999, model.Record{"plan": models.PlanPremium})
	assert.ErrorIs(t, err, models.ErrClientNotFound)

	require.NoError(t, e.clients.Delete(ctx, cid))
	_, err = e.users.Get(ctx, models.Int(user["userId"]))
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestClientCreateNeedsUser(t *testing.T) {
	e := newEnv(t)
	_, err := e.clients.Create(context.Background(), services.CreateClientInput{UserID: 42, ContactInfo: "x"})
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestTaskCreateDefaultsAndEvents(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.newProject(t, "Website")

	task, err := e.tasks.Create(ctx, services.CreateTaskInput{ProjectID: pid, Description: "wire up"})
	require.NoError(t, err)
	assert.Contains(t, task, "workerId")
	assert.Nil(t, task["workerId"])
	assert.Equal(t, models.StatusPending, task["status"])

	_, err = e.tasks.Create(ctx, services.CreateTaskInput{ProjectID: 999, Description: "x"})
	assert.ErrorIs(t, err, models.ErrProjectNotFound)

	_, err = e.tasks.Create(ctx, services.CreateTaskInput{ProjectID: pid, Description: "x", WorkerID: ptr(int64(999))})
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	id := models.Int(task["taskId"])
	worker := e.register(t, "Ana", "ana@example.com", models.RoleWorker)
	updated, err := e.tasks.Update(ctx, id, model.Record{"workerId": float64(worker), "status": models.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, worker, updated["workerId"])

	unassigned, err := e.tasks.Update(ctx, id, model.Record{"workerId": nil})
	require.NoError(t, err)
	assert.Nil(t, unassigned["workerId"])

	_, err = e.tasks.Update(ctx, 999, model.Record{"status": models.StatusCompleted})
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	require.NoError(t, e.tasks.Delete(ctx, id))
	require.NoError(t, e.tasks.Delete(ctx, id))

	assert.Equal(t, []string{
		models.EventTaskCreated,
		models.EventTaskUpdated,
		models.EventTaskUpdated,
		models.EventTaskDeleted,
		models.EventTaskDeleted,
	}, e.events.names())
}

func TestTaskReports(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.newProject(t, "Website")
	worker := e.register(t, "Ana", "ana@example.com", models.RoleWorker)

	for _, status := range []string{models.StatusCompleted, models.StatusCompleted, models.StatusPending} {
		_, err := e.tasks.Create(ctx, services.CreateTaskInput{
			ProjectID: pid, Description: "t", WorkerID: ptr(worker), Status: status,
		})
		require.NoError(t, err)
	}

	perf, err := e.tasks.Performance(ctx, worker)
	require.NoError(t, err)
	assert.EqualValues(t, 3, perf.TotalTasks)
	assert.Equal(t, 66.67, perf.CompletionRate)

	_, err = e.tasks.Performance(ctx, 999)
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = e.tasks.ByStatus(ctx, "Done")
	assert.ErrorIs(t, err, models.ErrInvalid)

	today := time.Now().UTC().Format(time.DateOnly)
	got, err := e.tasks.DateRange(ctx, today, today)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = e.tasks.DateRange(ctx, "", today)
	assert.ErrorIs(t, err, models.ErrInvalid)
	_, err = e.tasks.DateRange(ctx, "yesterday", today)
	assert.ErrorIs(t, err, models.ErrInvalid)
	_, err = e.tasks.DateRange(ctx, "2026-02-01", "2026-01-01")
	assert.ErrorIs(t, err, models.ErrInvalid)
}

func TestBulkOperations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.newProject(t, "Website")
	worker := e.register(t, "Ana", "ana@example.com", models.RoleWorker)

	var ids []int64
	for i := 0; i < 5; i++ {
		task, err := e.tasks.Create(ctx, services.CreateTaskInput{ProjectID: pid, Description: "t"})
		require.NoError(t, err)
		ids = append(ids, models.Int(task["taskId"]))
	}

	res, err := e.tasks.BulkAssign(ctx, services.BulkAssignInput{
		TaskIDs: append(ids, 999, ids[0]), WorkerID: worker,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Requested)
	assert.Equal(t, ids, res.Updated)
	assert.Equal(t, []int64{999}, res.NotFound)
	assert.Empty(t, res.Failed)

	assigned, err := e.tasks.ByWorker(ctx, worker)
	require.NoError(t, err)
	assert.Len(t, assigned, 5)

	res, err = e.tasks.BulkUpdateStatus(ctx, services.BulkStatusInput{TaskIDs: ids[:2], Status: models.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, ids[:2], res.Updated)

	done, err := e.tasks.ByStatus(ctx, models.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, done, 2)

	_, err = e.tasks.BulkAssign(ctx, services.BulkAssignInput{TaskIDs: ids, WorkerID: 999})
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestProjectProgress(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.newProject(t, "Website")

	empty, err := e.projects.Progress(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Progress)
	assert.Equal(t, "Website", empty.ProjectName)
	assert.Empty(t, empty.TaskStatus)

	for _, status := range []string{models.StatusCompleted, models.StatusInProgress, models.StatusPending} {
		_, err := e.tasks.Create(ctx, services.CreateTaskInput{ProjectID: pid, Description: "t", Status: status})
		require.NoError(t, err)
	}

	p, err := e.projects.Progress(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Progress)
	assert.EqualValues(t, 3, p.TotalTasks)
	assert.EqualValues(t, 1, p.CompletedTasks)
	assert.EqualValues(t, 1, p.InProgressTasks)
	assert.EqualValues(t, 1, p.PendingTasks)
	require.Len(t, p.TaskStatus, 3)
	assert.Equal(t, models.StatusCompleted, p.TaskStatus[0]["status"])

	_, err = e.projects.Progress(ctx, 999)
	assert.ErrorIs(t, err, models.ErrProjectNotFound)
}

func TestProjectProgressTimesOut(t *testing.T) {
	e := newEnv(t)
	pid := e.newProject(t, "Website")

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := e.projects.Progress(ctx, pid)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProjectCRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p, err := e.projects.Create(ctx, services.CreateProjectInput{ProjectName: "Website"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, p["status"])
	assert.Nil(t, p["clientId"])
	id := models.Int(p["projectId"])

	_, err = e.projects.Create(ctx, services.CreateProjectInput{ProjectName: "x", ClientID: ptr(int64(5))})
	assert.ErrorIs(t, err, models.ErrClientNotFound)

	p, err = e.projects.SetStatus(ctx, id, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, p["status"])

	_, err = e.projects.Update(ctx, 999, model.Record{"projectName": "y"})
	assert.ErrorIs(t, err, models.ErrProjectNotFound)

	stats, err := e.projects.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Counts{Total: 1, InProgress: 1}, stats)

	require.NoError(t, e.projects.Delete(ctx, id))
	assert.ErrorIs(t, e.projects.Delete(ctx, id), models.ErrProjectNotFound)
}

func TestWorkerUpdatesOwnTaskOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.newProject(t, "Website")
	ana := e.register(t, "Ana", "ana@example.com", models.RoleWorker)
	bo := e.register(t, "Bo", "bo@example.com", models.RoleWorker)

	task, err := e.tasks.Create(ctx, services.CreateTaskInput{ProjectID: pid, Description: "t", WorkerID: ptr(ana)})
	require.NoError(t, err)
	id := models.Int(task["taskId"])

	_, err = e.projects.UpdateTaskStatus(ctx, middleware.Identity{UserID: bo, Role: models.RoleWorker}, id, models.StatusCompleted)
	assert.ErrorIs(t, err, models.ErrForbidden)

	got, err := e.projects.UpdateTaskStatus(ctx, middleware.Identity{UserID: ana, Role: models.RoleWorker}, id, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got["status"])

	_, err = e.projects.UpdateTaskStatus(ctx, middleware.Identity{UserID: 1, Role: models.RoleAdmin}, 999, models.StatusPending)
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	mine, err := e.projects.WorkerProjects(ctx, ana)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	tasks, err := e.projects.WorkerTasks(ctx, pid, bo)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestFAQService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	faq, err := e.faqs.Create(ctx, services.FAQInput{Question: "What is a plan?", Answer: "Oro, Esmeralda or Premium."})
	require.NoError(t, err)
	id := models.Int(faq["faqId"])

	all, err := e.faqs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = e.faqs.Search(ctx, "")
	assert.ErrorIs(t, err, models.ErrInvalid)

	_, err = e.faqs.Update(ctx, 999, model.Record{"answer": "x"})
	assert.ErrorIs(t, err, models.ErrFAQNotFound)

	require.NoError(t, e.faqs.Delete(ctx, id))
	require.NoError(t, e.faqs.Delete(ctx, id))
	all, err = e.faqs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func upload(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestFileLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.newProject(t, "Website")

	content := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	rec, err := e.files.Upload(ctx, pid, upload(t, "Brief.PDF", content))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", rec["mimeType"])
	assert.Equal(t, "Brief.PDF", rec["originalName"])
	assert.EqualValues(t, len(content), rec["fileSize"])
	assert.Regexp(t, `^projects/\d+/[0-9a-f-]{36}\.pdf$`, rec["filePath"])

	_, err = e.files.Upload(ctx, 999, upload(t, "a.txt", []byte("hi")))
	assert.ErrorIs(t, err, models.ErrProjectNotFound)

	id := models.Int(rec["fileId"])
	meta, rc, err := e.files.Open(ctx, id)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, rec["fileName"], meta["fileName"])

	list, err := e.files.ByProject(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, e.files.Delete(ctx, id))
	ok, err := e.disk.Exists(ctx, rec["filePath"].(string))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = e.files.Open(ctx, id)
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

func TestFileUploadRejectsOversize(t *testing.T) {
	e := newEnv(t)
	pid := e.newProject(t, "Website")

	_, err := e.files.Upload(context.Background(), pid, upload(t, "big.bin", make([]byte, 2<<20)))
	assert.ErrorIs(t, err, models.ErrInvalid)
}
