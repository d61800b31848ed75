package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/service"
)

// Server bundles the HTTP handlers and their dependencies.
type Server struct {
	tokens        *auth.TokenManager
	guard         *auth.Guard
	users         *service.UserService
	tasks         *service.TaskService
	archive       *service.ArchiveService
	amendments    *service.AmendmentService
	lookups       *service.LookupService
	notifications *service.NotificationService
	performance   *service.PerformanceService
	sweep         *service.SweepService
}

func NewServer(
	tokens *auth.TokenManager,
	guard *auth.Guard,
	users *service.UserService,
	tasks *service.TaskService,
	archive *service.ArchiveService,
	amendments *service.AmendmentService,
	lookups *service.LookupService,
	notifications *service.NotificationService,
	performance *service.PerformanceService,
	sweep *service.SweepService,
) *Server {
	return &Server{
		tokens:        tokens,
		guard:         guard,
		users:         users,
		tasks:         tasks,
		archive:       archive,
		amendments:    amendments,
		lookups:       lookups,
		notifications: notifications,
		performance:   performance,
		sweep:         sweep,
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	apiGroup.POST("/auth/login", s.login)

	authed := apiGroup.Group("")
	authed.Use(AuthRequired(s.tokens))
	{
		authed.GET("/me", s.me)

		authed.GET("/tasks", s.listTasks)
		authed.POST("/tasks", s.createTask)
		authed.GET("/tasks/overdue", s.listOverdueTasks)
		authed.GET("/tasks/:id", s.getTask)
		authed.PUT("/tasks/:id", s.updateTask)
		authed.DELETE("/tasks/:id", s.deleteTask)
		authed.POST("/tasks/:id/cancel", s.cancelTask)
		authed.GET("/tasks/:id/comments", s.listComments)
		authed.POST("/tasks/:id/comments", s.addComment)
		authed.GET("/tasks/:id/attachments", s.listAttachments)
		authed.POST("/tasks/:id/attachments", s.addAttachment)

		authed.POST("/tasks/:id/amendments", s.requestAmendment)
		authed.POST("/tasks/:id/amendments/approve", s.approveAmendment)
		authed.POST("/tasks/:id/amendments/reject", s.rejectAmendment)
		authed.POST("/tasks/:id/amendments/forward", s.forwardAmendment)
		authed.GET("/amendments/pending", s.pendingAmendments)

		authed.GET("/completed-tasks", s.listCompletedTasks)
		authed.GET("/completed-tasks/by-original/:id", s.getCompletedByOriginalTask)
		authed.GET("/completed-tasks/:id", s.getCompletedTask)
		authed.DELETE("/completed-tasks/:id", s.deleteCompletedTask)
		authed.POST("/completed-tasks/:id/reopen", s.reopenCompletedTask)
		authed.GET("/completed-tasks/:id/comments", s.listCompletedComments)
		authed.GET("/completed-tasks/:id/attachments", s.listCompletedAttachments)

		authed.GET("/users", s.listUsers)
		authed.POST("/users", s.createUser)
		authed.GET("/users/:id", s.getUser)
		authed.PUT("/users/:id", s.updateUser)
		authed.PATCH("/users/:id/status", s.setUserStatus)

		authed.GET("/categories", s.listCategories)
		authed.POST("/categories", s.saveCategory)
		authed.GET("/categories/:id/sub-types", s.listSubTypes)
		authed.GET("/request-types", s.listRequestTypes)
		authed.GET("/priorities", s.listPriorities)
		authed.POST("/priorities", s.savePriority)
		authed.GET("/shops", s.listShops)
		authed.POST("/shops", s.saveShop)

		authed.GET("/notifications", s.listNotifications)
		authed.POST("/notifications/:id/read", s.markNotificationRead)
		authed.POST("/notifications/read-all", s.markAllNotificationsRead)

		authed.GET("/performance/users/:id", s.userPerformance)
		authed.GET("/performance/dashboard", s.dashboard)
	}

	return router
}
