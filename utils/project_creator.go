package utils

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"pipedesk/lead"
	"pipedesk/models"
	"pipedesk/store"
)

// ProjectService is the downstream project-creation collaborator. Projects
// live in their own table, outside the real-time store; only the optional
// lead-closing side effect goes back through the store.
type ProjectService struct {
	DB     *gorm.DB
	Store  store.Store
	IDs    lead.IDGenerator
	Logger *log.Logger
}

func NewProjectService(db *gorm.DB, st store.Store, logger *log.Logger) *ProjectService {
	return &ProjectService{DB: db, Store: st, IDs: lead.UUIDGenerator{}, Logger: logger}
}

// CreateProjectFromLead creates the project and, when asked, marks the lead
// closed as part of the same logical operation. If the closing update fails
// the project is removed again, so the caller never observes a half-applied
// conversion.
func (ps *ProjectService) CreateProjectFromLead(ctx context.Context, l models.Lead, opts lead.ConvertOptions) error {
	name := l.Company
	if name == "" {
		name = l.Name
	}

	project := models.Project{
		ProjectID:    ps.IDs.NewID(),
		Name:         name,
		ContactEmail: l.Email,
		Description:  l.Message,
		Source:       "lead",
		LeadID:       l.ID,
	}
	if err := ps.DB.WithContext(ctx).Create(&project).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	if opts.MarkLeadClosed {
		patch := map[string]any{"status": string(models.StatusClosed)}
		if err := ps.Store.Update(ctx, store.EntityLeads, l.ID, patch); err != nil {
			if derr := ps.DB.WithContext(ctx).Delete(&models.Project{}, "project_id = ?", project.ProjectID).Error; derr != nil {
				ps.Logger.Printf("orphaned project %s after failed lead close: %v", project.ProjectID, derr)
			}
			return fmt.Errorf("close lead after conversion: %w", err)
		}
	}

	ps.Logger.Printf("created project %s from lead %s", project.ProjectID, l.ID)
	return nil
}
