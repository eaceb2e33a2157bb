package routes

import (
	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/controllers"
	"github.com/adelelawady/stacktogether/middleware"
	"github.com/adelelawady/stacktogether/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	board := services.NewBoardService(db)

	authController := controllers.AuthController{DB: db}
	profileController := controllers.ProfileController{DB: db}
	directoryController := controllers.DirectoryController{DB: db}
	projectController := controllers.ProjectController{DB: db}
	boardController := controllers.BoardController{DB: db, Board: board}
	taskController := controllers.TaskController{DB: db, Board: board}
	commentController := controllers.CommentController{DB: db, Comments: board.Comments}

	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)

	auth := r.Group("/", middleware.AuthMiddleware())
	{
		auth.GET("/profiles", profileController.GetProfiles)
		auth.GET("/profiles/:id", profileController.GetProfile)
		auth.PUT("/profiles/:id", profileController.UpdateProfile)
		auth.POST("/me/skills", profileController.AddSkill)
		auth.DELETE("/me/skills/:id", profileController.RemoveSkill)
		auth.GET("/bookmarks", profileController.GetBookmarks)
		auth.POST("/bookmarks", profileController.AddBookmark)
		auth.DELETE("/bookmarks/:id", profileController.RemoveBookmark)
		auth.POST("/endorsements", profileController.AddEndorsement)
		auth.DELETE("/endorsements/:id", profileController.RemoveEndorsement)

		auth.GET("/skills", directoryController.GetSkills)
		auth.GET("/categories", directoryController.GetCategories)

		auth.GET("/projects", projectController.GetProjects)
		auth.POST("/projects", projectController.CreateProject)
		auth.GET("/projects/:id", projectController.GetProject)
		auth.PUT("/projects/:id", projectController.UpdateProject)
		auth.GET("/projects/:id/members", projectController.GetMembers)
		auth.POST("/projects/:id/skills", projectController.AddProjectSkill)
		auth.DELETE("/projects/:id/skills/:skill_id", projectController.RemoveProjectSkill)
		auth.POST("/projects/:id/join-requests", projectController.CreateJoinRequest)
		auth.PUT("/members/:id", projectController.UpdateMember)
		auth.DELETE("/members/:id", projectController.RemoveMember)
		auth.PUT("/join-requests/:id", projectController.ResolveJoinRequest)

		auth.GET("/projects/:id/board", boardController.GetBoard)
		auth.POST("/projects/:id/lists", boardController.CreateList)
		auth.POST("/lists/:id/reorder", boardController.ReorderList)
		auth.POST("/lists/:id/tasks", taskController.CreateTask)

		auth.GET("/tasks/:id", taskController.GetTask)
		auth.PUT("/tasks/:id", taskController.UpdateTask)
		auth.DELETE("/tasks/:id", taskController.DeleteTask)
		auth.POST("/tasks/:id/move", boardController.MoveTask)
		auth.GET("/tasks/:id/comments", commentController.GetComments)
		auth.POST("/tasks/:id/comments", commentController.CreateComment)

		auth.DELETE("/comments/:id", commentController.DeleteComment)
		auth.POST("/comments/:id/reactions", commentController.ToggleReaction)
	}

	admin := auth.Group("/", middleware.RoleMiddleware(constants.RoleAdmin))
	{
		admin.POST("/skills", directoryController.CreateSkill)
		admin.PUT("/skills/:id", directoryController.UpdateSkill)
		admin.DELETE("/skills/:id", directoryController.DeleteSkill)
		admin.POST("/categories", directoryController.CreateCategory)
		admin.PUT("/categories/:id", directoryController.UpdateCategory)
		admin.DELETE("/categories/:id", directoryController.DeleteCategory)
		admin.DELETE("/projects/:id", projectController.DeleteProject)
	}

	return r
}
