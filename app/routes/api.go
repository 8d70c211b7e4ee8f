// Package routes maps every endpoint to its controller.
package routes

import (
	"net/http"
	"time"

	"github.com/projectdesk/projectdesk/app/controllers"
	appgraphql "github.com/projectdesk/projectdesk/app/graphql"
	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/app/services"
	"github.com/projectdesk/projectdesk/pkg/auth"
	"github.com/projectdesk/projectdesk/pkg/ctx"
	"github.com/projectdesk/projectdesk/pkg/event"
	"github.com/projectdesk/projectdesk/pkg/graphql"
	"github.com/projectdesk/projectdesk/pkg/middleware"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/rbac"
	"github.com/projectdesk/projectdesk/pkg/router"
	"github.com/projectdesk/projectdesk/pkg/sse"
	"github.com/projectdesk/projectdesk/pkg/storage"
	"github.com/projectdesk/projectdesk/pkg/workerpool"
	"github.com/projectdesk/projectdesk/pkg/ws"
)

// Deps are the long-lived services the routes are built on.
type Deps struct {
	Store  *model.Store
	Signer *auth.Signer
	Hub    *ws.Hub
	Pool   *workerpool.Pool
	Events *event.Dispatcher
	Disk   storage.Disk

	ReportTimeout  time.Duration
	CacheTTL       time.Duration
	MaxUploadBytes int64
}

// RegisterAPI mounts the REST API under /api, plus /ws/tasks, /sse/tasks
// and /graphql.
func RegisterAPI(r *router.Router, d Deps) error {
	userRepo := repositories.NewUserRepository(d.Store)
	clientRepo := repositories.NewClientRepository(d.Store)
	projectRepo := repositories.NewProjectRepository(d.Store)
	taskRepo := repositories.NewTaskRepository(d.Store)

	userSvc := services.NewUserService(userRepo, d.Signer)
	clientSvc := services.NewClientService(clientRepo, userSvc)
	taskSvc := services.NewTaskService(taskRepo, projectRepo, userRepo, d.Pool, d.Events, d.ReportTimeout)
	projectSvc := services.NewProjectService(projectRepo, clientRepo, taskSvc, d.ReportTimeout)
	faqSvc := services.NewFAQService(repositories.NewFAQRepository(d.Store), d.CacheTTL)
	fileSvc := services.NewFileService(repositories.NewFileRepository(d.Store), projectRepo, d.Disk, d.MaxUploadBytes)

	stream := sse.NewBroker()
	forwardTaskEvents(d.Events, d.Hub, stream)

	users := controllers.NewUserController(userSvc)
	clients := controllers.NewClientController(clientSvc)
	projects := controllers.NewProjectController(projectSvc)
	tasks := controllers.NewTaskController(taskSvc)
	faqs := controllers.NewFAQController(faqSvc)
	files := controllers.NewFileController(fileSvc, d.MaxUploadBytes)

	authed := middleware.Authenticate(d.Signer)
	admin := rbac.HasRole(models.RoleAdmin)
	api := r.Group("/api")

	u := api.Group("/users")
	u.Post("/register", "users.register", ctx.Wrap(users.Register))
	u.Post("/login", "users.login", ctx.Wrap(users.Login))
	u = u.Group("", authed)
	u.Get("/", "users.index", ctx.Wrap(users.Index))
	u.Get("/workers", "users.workers", ctx.Wrap(users.Workers))
	u.Get("/admins", "users.admins", ctx.Wrap(users.Admins))
	u.Get("/staff", "users.staff", ctx.Wrap(users.Staff))
	u.Get("/{id}", "users.show", ctx.Wrap(users.Show))
	u.Put("/{id}", "users.update", ctx.Wrap(users.Update))
	u.Delete("/{id}", "users.destroy", ctx.Wrap(users.Destroy), admin)

	c := api.Group("/clients")
	c.Post("/register", "clients.register", ctx.Wrap(clients.Register))
	c = c.Group("", authed)
	c.Get("/", "clients.index", ctx.Wrap(clients.Index))
	c.Get("/{id}", "clients.show", ctx.Wrap(clients.Show))
	c.Post("/", "clients.store", ctx.Wrap(clients.Store), admin)
	c.Put("/{id}", "clients.update", ctx.Wrap(clients.Update))
	c.Delete("/{id}", "clients.destroy", ctx.Wrap(clients.Destroy), admin)

	p := api.Group("/projects", authed)
	p.Get("/", "projects.index", ctx.Wrap(projects.Index))
	p.Post("/", "projects.store", ctx.Wrap(projects.Store))
	p.Get("/stats", "projects.stats", ctx.Wrap(projects.Stats))
	p.Get("/my-projects", "projects.mine", ctx.Wrap(projects.MyProjects))
	p.Get("/worker/projects", "projects.worker", ctx.Wrap(projects.WorkerProjects))
	p.Get("/client/{clientId}", "projects.client", ctx.Wrap(projects.ByClient))
	p.Put("/tasks/{taskId}/status", "projects.tasks.status", ctx.Wrap(projects.UpdateTaskStatus))
	p.Get("/{id}", "projects.show", ctx.Wrap(projects.Show))
	p.Put("/{id}", "projects.update", ctx.Wrap(projects.Update))
	p.Patch("/{id}/status", "projects.status", ctx.Wrap(projects.UpdateStatus))
	p.Delete("/{id}", "projects.destroy", ctx.Wrap(projects.Destroy), admin)
	p.Get("/{id}/progress", "projects.progress", ctx.Wrap(projects.Progress))
	p.Get("/{id}/worker/tasks", "projects.worker.tasks", ctx.Wrap(projects.WorkerTasks))

	t := api.Group("/tasks", authed)
	t.Post("/", "tasks.store", ctx.Wrap(tasks.Store))
	t.Get("/", "tasks.index", ctx.Wrap(tasks.Index))
	t.Get("/detailed", "tasks.detailed", ctx.Wrap(tasks.Detailed))
	t.Get("/detailed/{id}", "tasks.detailed.show", ctx.Wrap(tasks.DetailedShow))
	t.Get("/project/{projectId}", "tasks.project", ctx.Wrap(tasks.ByProject))
	t.Get("/worker/{workerId}", "tasks.worker", ctx.Wrap(tasks.ByWorker))
	t.Get("/status/{status}", "tasks.status", ctx.Wrap(tasks.ByStatus))
	t.Get("/{id}", "tasks.show", ctx.Wrap(tasks.Show))
	t.Put("/{id}", "tasks.update", ctx.Wrap(tasks.Update))
	t.Delete("/{id}", "tasks.destroy", ctx.Wrap(tasks.Destroy))

	ta := t.Group("/admin", admin)
	ta.Get("/stats", "tasks.admin.stats", ctx.Wrap(tasks.Stats))
	ta.Get("/date-range", "tasks.admin.range", ctx.Wrap(tasks.DateRange))
	ta.Get("/worker-performance/{workerId}", "tasks.admin.performance", ctx.Wrap(tasks.Performance))
	ta.Post("/bulk-assign", "tasks.admin.assign", ctx.Wrap(tasks.BulkAssign))
	ta.Post("/bulk-update-status", "tasks.admin.status", ctx.Wrap(tasks.BulkUpdateStatus))

	f := api.Group("/faqs")
	f.Get("/", "faqs.index", ctx.Wrap(faqs.Index))
	f.Get("/search/{term}", "faqs.search", ctx.Wrap(faqs.Search))
	f.Get("/{id}", "faqs.show", ctx.Wrap(faqs.Show))
	f.Post("/", "faqs.store", ctx.Wrap(faqs.Store), authed)
	f.Put("/{id}", "faqs.update", ctx.Wrap(faqs.Update), authed)
	f.Delete("/{id}", "faqs.destroy", ctx.Wrap(faqs.Destroy), authed)

	fl := api.Group("/files", authed)
	fl.Get("/project/{projectId}", "files.project", ctx.Wrap(files.ByProject))
	fl.Get("/download/{fileId}", "files.download", ctx.Wrap(files.Download))
	fl.Post("/{id}", "files.upload", ctx.Wrap(files.Upload))
	fl.Delete("/{id}", "files.destroy", ctx.Wrap(files.Destroy))

	r.Handle("/ws/tasks", "ws.tasks", d.Hub, authed)
	r.Get("/sse/tasks", "sse.tasks", stream.ServeHTTP, authed)

	schema, err := appgraphql.Schema(appgraphql.Resolvers{FAQs: faqSvc, Projects: projectSvc, Tasks: taskSvc})
	if err != nil {
		return err
	}
	r.Handle("/graphql", "graphql", graphql.Handler(schema), authed)

	r.Get("/health", "health", func(w http.ResponseWriter, req *http.Request) {
		health(w, req, d.Store)
	})
	return nil
}

// forwardTaskEvents pushes every task change to the live feeds.
func forwardTaskEvents(events *event.Dispatcher, feeds ...ws.Publisher) {
	for _, name := range []string{models.EventTaskCreated, models.EventTaskUpdated, models.EventTaskDeleted} {
		events.Listen(name, func(e event.Event) {
			for _, feed := range feeds {
				feed.Publish(e.Name, e.Payload)
			}
		})
	}
}
