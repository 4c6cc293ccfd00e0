package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	controller "pipedesk/controllers"
	"pipedesk/middleware"
)

// SetupRoutes wires the pipeline API. Reads need any authenticated console
// role; mutations require the manager capability.
func SetupRoutes(app *fiber.App, leadController *controller.LeadController) {
	routesLogger := log.New(os.Stdout, "ROUTES: ", log.Ldate|log.Ltime|log.Lshortfile)

	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	leads := api.Group("/leads", middleware.RequireView())
	leads.Get("/", leadController.GetLeads)
	leads.Get("/ws", websocket.New(controller.HandleLeadStreamWS(leadController.Cache, leadController.Hub)))
	leads.Get("/:id", leadController.GetLead)
	leads.Get("/:id/conversion", leadController.GetConversionState)

	manage := leads.Group("", middleware.RequireManage())
	manage.Post("/", leadController.CreateLead)
	manage.Post("/refresh", leadController.RefreshLeads)
	manage.Patch("/:id/status", leadController.ChangeStatus)
	manage.Post("/:id/notes", leadController.AddNote)
	manage.Post("/:id/convert", leadController.ConvertLead)

	routesLogger.Println("Pipeline routes initialized successfully")
}
